package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_VisitsEveryTask(t *testing.T) {
	var seen [50]atomic.Int32
	err := Run(context.Background(), 4, len(seen), func(_ context.Context, i int) error {
		seen[i].Add(1)
		return nil
	})
	require.NoError(t, err)
	for i := range seen {
		assert.Equal(t, int32(1), seen[i].Load(), "task %d", i)
	}
}

func TestRun_JoinsErrors(t *testing.T) {
	errOdd := errors.New("odd")
	err := Run(context.Background(), 3, 6, func(_ context.Context, i int) error {
		if i%2 == 1 {
			return errOdd
		}
		return nil
	})
	assert.ErrorIs(t, err, errOdd)
}

func TestRun_ZeroTasks(t *testing.T) {
	assert.NoError(t, Run(context.Background(), 8, 0, func(context.Context, int) error {
		t.Fatal("no task expected")
		return nil
	}))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, 2, 100, func(context.Context, int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
