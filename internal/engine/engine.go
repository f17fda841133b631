// Package engine implements the realtime audio plane: a single-threaded
// Engine owning a list of Tracks, driven once per audio callback by a
// backend. It is the audio-thread half of the control/audio split; the
// only thing it shares with any other goroutine is the command queue's
// consumer handle, which is itself lock-free.
package engine

import (
	"github.com/shaban/trackd/internal/audiobuf"
	"github.com/shaban/trackd/internal/midiatom"
	"github.com/shaban/trackd/internal/rtqueue"
)

// IO bundles the per-callback inputs and output the backend exchanges with
// the Engine: the MIDI events observed during this period and the stereo
// bus buffer to render into.
type IO struct {
	Out  *audiobuf.Buffer
	Midi []midiatom.Event
}

// Engine is deliberately free of any mutex: unlike the teacher's
// sync.RWMutex-guarded Engine, this one is single-threaded by
// construction — only the audio callback thread ever touches it. Safety
// across threads comes entirely from the lock-free command queue.
type Engine struct {
	tracks       []*Track
	commands     *rtqueue.Queue[Command]
	bufferFrames int
	onLog        func(string)
}

// New constructs an Engine that reads commands from the given queue and
// renders at the given initial buffer size.
func New(commands *rtqueue.Queue[Command], bufferFrames int, onLog func(string)) *Engine {
	return &Engine{
		commands:     commands,
		bufferFrames: bufferFrames,
		onLog:        onLog,
	}
}

// Process drains every pending command, clears the stereo bus, renders
// every track, and mixes each into io.Out at its gain. It is the sole
// entrypoint the audio backend calls once per period.
func (e *Engine) Process(io IO, samples int) {
	e.commands.Drain(func(c Command) { c.apply(e) })

	io.Out.Clear()
	for _, t := range e.tracks {
		t.onLog = e.onLog
		out := t.process(samples, io.Midi)
		io.Out.Mix(out, t.gain)
	}
}

// SetBufferSize propagates a new frame count to every track's buffers; the
// stereo bus passed in IO.Out is owned and sized by the backend. Called by
// the backend between callbacks, never during one.
func (e *Engine) SetBufferSize(frames int) {
	e.bufferFrames = frames
	for _, t := range e.tracks {
		t.setBufferFrames(frames)
	}
}

func (e *Engine) findTrack(id uint64) *Track {
	for _, t := range e.tracks {
		if t.id == id {
			return t
		}
	}
	return nil
}

// TrackCount reports the number of tracks currently held, for tests and
// diagnostics.
func (e *Engine) TrackCount() int { return len(e.tracks) }
