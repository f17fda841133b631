// Package rtqueue wraps code.hybscloud.com/lfq's bounded lock-free SPSC
// ring in a tiny generic façade shared by the control/audio command queue
// and the realtime logging sink. Both uses need exactly the same
// guarantee: a producer that never blocks the consumer and a consumer
// (the audio thread) that never blocks, allocates, or locks.
package rtqueue

import (
	"errors"
	"fmt"

	"code.hybscloud.com/lfq"
)

// ErrFull is returned by TryPush when the ring has no free slot.
var ErrFull = errors.New("rtqueue: queue full")

// Queue is a bounded single-producer/single-consumer ring of T.
type Queue[T any] struct {
	ring *lfq.SPSC[T]
}

// New creates a queue with capacity rounded up to the next power of two by
// the underlying implementation.
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{ring: lfq.NewSPSC[T](capacity)}
}

// TryPush attempts to enqueue v without blocking. It returns ErrFull when
// the ring is at capacity; callers on the control side are expected to
// surface this as a structured Internal error rather than retry.
func (q *Queue[T]) TryPush(v T) error {
	if err := q.ring.Enqueue(v); err != nil {
		if errors.Is(err, lfq.ErrWouldBlock) {
			return ErrFull
		}
		return fmt.Errorf("rtqueue: enqueue: %w", err)
	}
	return nil
}

// TryPop attempts to dequeue a value without blocking. ok is false when the
// ring is empty; it is always safe to call from the single consumer thread
// without locking.
func (q *Queue[T]) TryPop() (v T, ok bool) {
	item, err := q.ring.Dequeue()
	if err != nil {
		return v, false
	}
	return item, true
}

// Drain pops every currently available item, invoking fn for each in FIFO
// order, until the ring reports empty. This is the shape the realtime
// Engine uses once per callback to apply all pending commands.
func (q *Queue[T]) Drain(fn func(T)) {
	for {
		v, ok := q.TryPop()
		if !ok {
			return
		}
		fn(v)
	}
}
