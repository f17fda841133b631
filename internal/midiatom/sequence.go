// Package midiatom implements the per-callback MIDI event sequence that
// tracks encode into before handing it to their plugin chain. It realizes
// the "atom sequence" collaborator from the distilled spec as a bounded,
// in-process byte buffer plus the decoded event slice tracks actually
// iterate.
package midiatom

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// MaxBytes bounds the encoded size of a single callback's atom sequence.
// Events that would push the sequence past this bound are dropped (and
// reported to the caller for logging), so the encoded storage never grows
// beyond it. Below the bound, Append grows the storage that NewSequence
// preallocated whenever a callback carries more data than it holds.
const MaxBytes = 1 << 20 // 1 MiB

// Event is a single timestamped MIDI message arriving from the backend.
// Frame is the sample offset within the current callback at which the
// event occurs.
type Event struct {
	Frame int
	Data  []byte
}

// Sequence accumulates encoded atoms for one audio callback. It is reused
// callback to callback via Clear to avoid reallocating on the audio
// thread.
type Sequence struct {
	encoded []byte
	events  []encodedEvent
	dropped int
}

type encodedEvent struct {
	frame  int
	offset int
	length int
}

// NewSequence preallocates storage sized for typical callback traffic.
func NewSequence() *Sequence {
	return &Sequence{
		encoded: make([]byte, 0, 4096),
		events:  make([]encodedEvent, 0, 64),
	}
}

// Clear resets the sequence for the next callback without releasing its
// backing storage.
func (s *Sequence) Clear() {
	s.encoded = s.encoded[:0]
	s.events = s.events[:0]
	s.dropped = 0
}

// Append encodes one event into the sequence. It returns an error (and logs
// nothing itself — the caller is expected to route the returned error to
// the realtime logging sink) when the event would overflow MaxBytes or
// carries zero-length data.
func (s *Sequence) Append(frame int, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("midiatom: empty event at frame %d", frame)
	}
	if len(s.encoded)+len(data) > MaxBytes {
		s.dropped++
		return fmt.Errorf("midiatom: sequence overflow (%d bytes), dropping %s at frame %d",
			MaxBytes, midi.Message(data).String(), frame)
	}
	offset := len(s.encoded)
	s.encoded = append(s.encoded, data...)
	s.events = append(s.events, encodedEvent{frame: frame, offset: offset, length: len(data)})
	return nil
}

// Dropped reports how many events were discarded due to overflow since the
// last Clear.
func (s *Sequence) Dropped() int { return s.dropped }

// Len reports the number of events currently held.
func (s *Sequence) Len() int { return len(s.events) }

// At returns the frame offset and raw bytes of the i-th event, in append
// order.
func (s *Sequence) At(i int) (frame int, data []byte) {
	e := s.events[i]
	return e.frame, s.encoded[e.offset : e.offset+e.length]
}

// EncodeFrom converts a plain slice of backend-delivered events into the
// sequence, in order, accumulating (not returning) any overflow/format
// errors for the caller to forward to its logging sink.
func (s *Sequence) EncodeFrom(events []Event) []error {
	var errs []error
	for _, e := range events {
		if err := s.Append(e.Frame, e.Data); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
