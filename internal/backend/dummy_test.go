package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaban/trackd/internal/engine"
	"github.com/shaban/trackd/internal/rtqueue"
)

func TestDummyRunInvokesSinkUntilCanceled(t *testing.T) {
	d := NewDummy(48000, 64)
	q := rtqueue.New[engine.Command](16)
	e := engine.New(q, d.BufferSize(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := d.Run(ctx, e)
	require.Error(t, err)
	assert.Equal(t, context.DeadlineExceeded, err)
}
