package clock

import (
	"context"
	"time"
)

// Ticker dispatches ticks on a wall-clock interval.
type Ticker struct {
	hub
	interval time.Duration
	now      func() time.Time
}

// NewTicker returns a ticker firing every interval. A non-positive interval
// falls back to 60 ticks per second.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Ticker{interval: interval, now: time.Now}
}

// Run dispatches ticks until ctx is done. Elapsed is measured from the wall
// clock, so a late tick reports the real gap.
func (t *Ticker) Run(ctx context.Context) error {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	start := t.now()
	last := start
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
			now := t.now()
			t.dispatch(FrameTime{Elapsed: now.Sub(last), Total: now.Sub(start)})
			last = now
		}
	}
}
