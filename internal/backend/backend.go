// Package backend defines the audio I/O contract consumed by the realtime
// engine and ships two adapters: Dummy, a deterministic in-process driver
// for tests and headless operation, and PortAudio, a real-hardware-output
// driver built on github.com/gordonklaus/portaudio.
package backend

import (
	"context"

	"github.com/shaban/trackd/internal/engine"
)

// Sink is what a backend drives once per audio period. *engine.Engine
// satisfies this interface directly.
type Sink interface {
	Process(io engine.IO, samples int)
	SetBufferSize(frames int)
}

// Backend produces periodic callbacks into a Sink until its context is
// canceled.
type Backend interface {
	SampleRate() float64
	BufferSize() int
	Run(ctx context.Context, sink Sink) error
}
