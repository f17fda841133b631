package rtqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPushPopPreservesFIFOOrder(t *testing.T) {
	q := New[int](8)
	for i := 0; i < 5; i++ {
		require.NoError(t, q.TryPush(i))
	}
	var got []int
	q.Drain(func(v int) { got = append(got, v) })
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestTryPopOnEmptyReturnsFalse(t *testing.T) {
	q := New[int](4)
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestPushReturnsErrFullWhenSaturated(t *testing.T) {
	q := New[int](2)
	full := false
	for i := 0; i < 64; i++ {
		if err := q.TryPush(i); err != nil {
			assert.ErrorIs(t, err, ErrFull)
			full = true
			break
		}
	}
	assert.True(t, full, "expected the bounded ring to eventually reject a push")
}

// TestFIFOHoldsForArbitraryLengths exercises SPEC_FULL.md §8 invariant 8:
// for any number of pushes, a drain observes them in push order.
func TestFIFOHoldsForArbitraryLengths(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 50).Draw(t, "n")
		q := New[int](128)
		var pushed []int
		for i := 0; i < n; i++ {
			if err := q.TryPush(i); err == nil {
				pushed = append(pushed, i)
			}
		}
		var popped []int
		q.Drain(func(v int) { popped = append(popped, v) })
		require.Equal(t, pushed, popped)
	})
}
