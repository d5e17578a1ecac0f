package app_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"airport-cyber-crisis/internal/app"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownTickAndPenaltyClamp(t *testing.T) {
	c := app.NewCountdown(90)

	assert.False(t, c.Tick())
	assert.Equal(t, 89, c.Remaining())

	assert.False(t, c.ApplyPenalty(60))
	assert.Equal(t, 29, c.Remaining())

	assert.True(t, c.ApplyPenalty(60))
	assert.Equal(t, 0, c.Remaining())

	assert.True(t, c.Tick())
	assert.Equal(t, 0, c.Remaining(), "never negative")

	c.Reset()
	assert.Equal(t, 90, c.Remaining())
	assert.Equal(t, 90, c.Total())
}

func TestCountdownIgnoresNegativePenalty(t *testing.T) {
	c := app.NewCountdown(10)
	assert.False(t, c.ApplyPenalty(-5))
	assert.Equal(t, 10, c.Remaining())
}

func TestTickerFiresUntilStopped(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired := make(chan struct{}, 4)
	var calls atomic.Int32

	ticker := app.StartTicker(clock, time.Second, func(*app.Ticker) {
		calls.Add(1)
		fired <- struct{}{}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(time.Second)
	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("tick not delivered")
	}

	ticker.Stop()
	ticker.Stop()
	select {
	case <-ticker.Done():
	case <-ctx.Done():
		t.Fatal("ticker goroutine did not exit")
	}
	require.NoError(t, clock.BlockUntilContext(ctx, 0))

	clock.Advance(3 * time.Second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTickerStopFromCallback(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticker := app.StartTicker(clock, time.Second, func(t *app.Ticker) {
		t.Stop()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Second)

	select {
	case <-ticker.Done():
	case <-ctx.Done():
		t.Fatal("ticker did not stop itself")
	}
}
