// Package audiobuf implements the fixed-channel planar sample buffer shared
// by the realtime engine's stereo bus and every track's input/output stage.
package audiobuf

import "fmt"

// Buffer is a planar, channel-major sample buffer. Storage is a single
// contiguous slice of channels*capacity float32s; channel i occupies
// samples [i*capacity : i*capacity+frames). Capacity only grows, so
// SetFrames never reallocates on the common path of a steady backend
// buffer size.
type Buffer struct {
	channels int
	capacity int
	frames   int
	data     []float32
}

// New allocates a zero-filled buffer with the given channel count and
// initial frame length.
func New(channels, frames int) *Buffer {
	if channels <= 0 {
		panic(fmt.Sprintf("audiobuf: invalid channel count %d", channels))
	}
	b := &Buffer{channels: channels}
	b.SetFrames(frames)
	return b
}

// Channels returns the fixed channel count.
func (b *Buffer) Channels() int { return b.channels }

// Frames returns the current per-channel sample length.
func (b *Buffer) Frames() int { return b.frames }

// SetFrames adjusts the active frame length. It reallocates only when
// frames exceeds the buffer's prior capacity; reallocation copies no data
// because the new region is always cleared by the caller before use.
func (b *Buffer) SetFrames(frames int) {
	if frames < 0 {
		panic(fmt.Sprintf("audiobuf: negative frame count %d", frames))
	}
	if frames > b.capacity {
		b.capacity = frames
		b.data = make([]float32, b.channels*b.capacity)
	}
	b.frames = frames
}

// Clear zeroes every active sample in every channel.
func (b *Buffer) Clear() {
	for ch := 0; ch < b.channels; ch++ {
		c := b.ChannelMut(ch)
		for i := range c {
			c[i] = 0
		}
	}
}

// Channel returns a read-only view of channel i's active samples.
func (b *Buffer) Channel(i int) []float32 {
	return b.ChannelMut(i)
}

// ChannelMut returns a mutable view of channel i's active samples.
func (b *Buffer) ChannelMut(i int) []float32 {
	if i < 0 || i >= b.channels {
		panic(fmt.Sprintf("audiobuf: channel index %d out of range [0,%d)", i, b.channels))
	}
	start := i * b.capacity
	return b.data[start : start+b.frames]
}

// Mix accumulates other into b at the given gain: b[i] += other[i] * gain,
// per channel. Both buffers must have the same channel count and frame
// length; a mismatch is a programmer error, not a runtime condition driven
// by untrusted input, so it panics rather than returning an error.
func (b *Buffer) Mix(other *Buffer, gain float32) {
	if other.channels != b.channels || other.frames != b.frames {
		panic(fmt.Sprintf("audiobuf: Mix shape mismatch: dst %dx%d src %dx%d",
			b.channels, b.frames, other.channels, other.frames))
	}
	for ch := 0; ch < b.channels; ch++ {
		dst := b.ChannelMut(ch)
		src := other.Channel(ch)
		for i := range dst {
			dst[i] += src[i] * gain
		}
	}
}

// Swap exchanges the contents of a and b in place, used by the ping-pong
// buffer discipline between plugin chain stages. It swaps the underlying
// slices and metadata, which is O(1) and allocation-free.
func Swap(a, b *Buffer) {
	*a, *b = *b, *a
}
