package app

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Countdown tracks the seconds left in a run. It is not safe for concurrent
// use on its own; Session guards it with its mutex.
type Countdown struct {
	total     int
	remaining int
}

func NewCountdown(total int) *Countdown {
	if total < 0 {
		total = 0
	}
	return &Countdown{total: total, remaining: total}
}

// Reset restores the full allowance.
func (c *Countdown) Reset() {
	c.remaining = c.total
}

func (c *Countdown) Remaining() int {
	return c.remaining
}

func (c *Countdown) Total() int {
	return c.total
}

// Tick consumes one second and reports whether the countdown has expired.
func (c *Countdown) Tick() bool {
	return c.subtract(1)
}

// ApplyPenalty removes seconds from the countdown, clamped at zero, and reports expiry.
func (c *Countdown) ApplyPenalty(seconds int) bool {
	if seconds < 0 {
		seconds = 0
	}
	return c.subtract(seconds)
}

func (c *Countdown) subtract(seconds int) bool {
	c.remaining -= seconds
	if c.remaining <= 0 {
		c.remaining = 0
		return true
	}
	return false
}

// Ticker is a cancellable recurring task. Each interval it calls fn with the
// handle that fired, so owners can drop ticks from handles they have replaced.
type Ticker struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartTicker schedules fn every interval on clock until Stop is called.
// The underlying clock ticker is registered before StartTicker returns.
func StartTicker(clock clockwork.Clock, interval time.Duration, fn func(*Ticker)) *Ticker {
	t := &Ticker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	ticker := clock.NewTicker(interval)

	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				// Stop wins over a tick that became ready at the same time.
				select {
				case <-t.stop:
					return
				default:
				}
				fn(t)
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

// Stop cancels the ticker. It is idempotent and safe to call from inside fn.
// A tick already in flight may still be delivered; owners should ignore it.
func (t *Ticker) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}

// Done is closed once the ticker goroutine has exited.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}
