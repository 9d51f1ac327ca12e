package capture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownTickSequence(t *testing.T) {
	c := CountdownController{Interval: 5 * time.Millisecond}

	var ticks []int
	err := c.Run(context.Background(), 3, func(remaining int) {
		ticks = append(ticks, remaining)
	})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, ticks, "3-second countdown must produce exactly 3 ticks")
}

func TestCountdownZeroSeconds(t *testing.T) {
	c := CountdownController{Interval: 5 * time.Millisecond}

	calls := 0
	err := c.Run(context.Background(), 0, func(int) { calls++ })

	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestCountdownCancelStopsTicks(t *testing.T) {
	c := CountdownController{Interval: 10 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var ticks []int
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Run(ctx, 10, func(remaining int) {
			mu.Lock()
			ticks = append(ticks, remaining)
			if len(ticks) == 2 {
				cancel()
			}
			mu.Unlock()
		})
	}()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("countdown did not stop after cancellation")
	}

	mu.Lock()
	seen := len(ticks)
	mu.Unlock()

	// No further ticks after the cancel landed.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, seen, len(ticks))
	mu.Unlock()
	assert.Equal(t, 2, seen)
}
