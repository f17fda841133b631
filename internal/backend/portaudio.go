package backend

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/shaban/trackd/internal/audiobuf"
	"github.com/shaban/trackd/internal/engine"
	"github.com/shaban/trackd/internal/midiatom"
)

// PortAudio drives the engine from a real output device via
// github.com/gordonklaus/portaudio. Optionally, a MIDISource (backed by
// github.com/rakyll/portmidi) feeds hardware MIDI events into each
// callback.
type PortAudio struct {
	sampleRate float64
	bufferSize int
	midi       MIDISource

	stream *portaudio.Stream
	out    *audiobuf.Buffer
}

// MIDISource yields MIDI events observed since the previous call, each
// stamped with a sample-frame offset within the upcoming period.
type MIDISource interface {
	Poll(periodFrames int) []midiatom.Event
}

// NewPortAudio initializes portaudio and configures a stereo backend at the
// given sample rate and buffer size; the output stream itself is opened by
// Run. midiSource may be nil to run without hardware MIDI input.
func NewPortAudio(sampleRate float64, bufferSize int, midiSource MIDISource) (*PortAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("backend: portaudio init: %w", err)
	}
	p := &PortAudio{
		sampleRate: sampleRate,
		bufferSize: bufferSize,
		midi:       midiSource,
		out:        audiobuf.New(2, bufferSize),
	}
	return p, nil
}

func (p *PortAudio) SampleRate() float64 { return p.sampleRate }
func (p *PortAudio) BufferSize() int     { return p.bufferSize }

// Run opens the default output device and pumps sink.Process once per
// hardware callback until ctx is canceled.
func (p *PortAudio) Run(ctx context.Context, sink Sink) error {
	sink.SetBufferSize(p.bufferSize)

	callback := func(out [][]float32) {
		samples := len(out[0])
		p.out.SetFrames(samples)

		var events []midiatom.Event
		if p.midi != nil {
			events = p.midi.Poll(samples)
		}

		sink.Process(engine.IO{Out: p.out, Midi: events}, samples)

		for ch := range out {
			copy(out[ch], p.out.Channel(ch%p.out.Channels()))
		}
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, p.sampleRate, p.bufferSize, callback)
	if err != nil {
		return fmt.Errorf("backend: open stream: %w", err)
	}
	p.stream = stream

	if err := stream.Start(); err != nil {
		return fmt.Errorf("backend: start stream: %w", err)
	}
	defer stream.Close()
	defer portaudio.Terminate()

	<-ctx.Done()
	_ = stream.Stop()
	return ctx.Err()
}
