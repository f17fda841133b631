package backend

import (
	"fmt"

	"github.com/rakyll/portmidi"

	"github.com/shaban/trackd/internal/midiatom"
)

// PortMIDISource reads from a hardware MIDI input device via
// github.com/rakyll/portmidi, stamping every event at frame 0 of the
// period it is polled within (this backend does not attempt
// sample-accurate MIDI timestamping, consistent with the Non-goals in
// SPEC_FULL.md §1).
type PortMIDISource struct {
	stream *portmidi.Stream
}

// OpenPortMIDISource opens the given input device id for reading. Callers
// choose deviceID from portmidi.Info for every portmidi.DeviceID
// enumerated by the library.
func OpenPortMIDISource(deviceID portmidi.DeviceID) (*PortMIDISource, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, fmt.Errorf("backend: portmidi init: %w", err)
	}
	stream, err := portmidi.NewInputStream(deviceID, 1024)
	if err != nil {
		return nil, fmt.Errorf("backend: open portmidi input %d: %w", deviceID, err)
	}
	return &PortMIDISource{stream: stream}, nil
}

// Poll drains whatever MIDI events portmidi has buffered, all stamped at
// frame 0 of the caller's current period.
func (s *PortMIDISource) Poll(periodFrames int) []midiatom.Event {
	events, err := s.stream.Read(1024)
	if err != nil || len(events) == 0 {
		return nil
	}
	out := make([]midiatom.Event, 0, len(events))
	for _, e := range events {
		out = append(out, midiatom.Event{
			Frame: 0,
			Data:  []byte{byte(e.Status), byte(e.Data1), byte(e.Data2)},
		})
	}
	return out
}

// Close releases the underlying portmidi stream.
func (s *PortMIDISource) Close() error {
	return s.stream.Close()
}
