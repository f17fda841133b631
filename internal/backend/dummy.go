package backend

import (
	"context"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/shaban/trackd/internal/audiobuf"
	"github.com/shaban/trackd/internal/engine"
	"github.com/shaban/trackd/internal/midiatom"
)

// Dummy drives the engine from an in-process ticker instead of real audio
// hardware: deterministic, allocation-light, and safe to run in tests and
// headless deployments (--backend dummy).
type Dummy struct {
	sampleRate float64
	bufferSize int
	// Demo emits one synthetic note-on/note-off pair per period when true,
	// exercising the MIDI path without a hardware controller attached.
	Demo bool

	out *audiobuf.Buffer
}

// NewDummy constructs a Dummy backend at the given sample rate and buffer
// size.
func NewDummy(sampleRate float64, bufferSize int) *Dummy {
	return &Dummy{
		sampleRate: sampleRate,
		bufferSize: bufferSize,
		out:        audiobuf.New(2, bufferSize),
	}
}

func (d *Dummy) SampleRate() float64 { return d.sampleRate }
func (d *Dummy) BufferSize() int     { return d.bufferSize }

// Run invokes sink.Process once per simulated period until ctx is
// canceled.
func (d *Dummy) Run(ctx context.Context, sink Sink) error {
	period := time.Duration(float64(d.bufferSize) / d.sampleRate * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	sink.SetBufferSize(d.bufferSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			var events []midiatom.Event
			if d.Demo {
				events = []midiatom.Event{
					{Frame: 0, Data: midi.NoteOn(0, 60, 100)},
					{Frame: d.bufferSize / 2, Data: midi.NoteOff(0, 60)},
				}
			}
			sink.Process(engine.IO{Out: d.out, Midi: events}, d.bufferSize)
		}
	}
}

// LastOutput exposes the most recently rendered buffer, for tests that
// want to assert on produced samples without wiring a real sink.
func (d *Dummy) LastOutput() *audiobuf.Buffer { return d.out }
