package midiatom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndIterate(t *testing.T) {
	s := NewSequence()
	require.NoError(t, s.Append(0, []byte{0x90, 60, 100}))
	require.NoError(t, s.Append(10, []byte{0x80, 60, 0}))
	require.Equal(t, 2, s.Len())

	frame, data := s.At(0)
	assert.Equal(t, 0, frame)
	assert.Equal(t, []byte{0x90, 60, 100}, data)

	frame, data = s.At(1)
	assert.Equal(t, 10, frame)
	assert.Equal(t, []byte{0x80, 60, 0}, data)
}

func TestClearResetsWithoutReallocating(t *testing.T) {
	s := NewSequence()
	require.NoError(t, s.Append(0, []byte{0x90, 60, 100}))
	before := cap(s.encoded)
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Dropped())
	assert.Equal(t, before, cap(s.encoded))
}

func TestOverflowDropsAndReportsError(t *testing.T) {
	s := NewSequence()
	big := make([]byte, MaxBytes)
	require.NoError(t, s.Append(0, big[:MaxBytes-1]))
	err := s.Append(1, []byte{0x90, 60, 100})
	assert.Error(t, err)
	assert.Equal(t, 1, s.Dropped())
}

func TestEmptyEventRejected(t *testing.T) {
	s := NewSequence()
	assert.Error(t, s.Append(0, nil))
}

func TestZeroEventsProduceEmptySequence(t *testing.T) {
	s := NewSequence()
	errs := s.EncodeFrom(nil)
	assert.Empty(t, errs)
	assert.Equal(t, 0, s.Len())
}
