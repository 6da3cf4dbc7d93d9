package clock

import "time"

// Periodic accumulates elapsed time and calls fn once for every full period
// crossed. Leftover time carries over to the next update.
type Periodic struct {
	period time.Duration
	acc    time.Duration
	fn     func()
}

func NewPeriodic(period time.Duration, fn func()) *Periodic {
	return &Periodic{period: period, fn: fn}
}

// Update adds elapsed and fires fn for each crossed period. It returns the
// number of firings.
func (p *Periodic) Update(elapsed time.Duration) int {
	if p == nil || p.period <= 0 || elapsed <= 0 {
		return 0
	}
	p.acc += elapsed
	n := 0
	for p.acc >= p.period {
		p.acc -= p.period
		n++
		if p.fn != nil {
			p.fn()
		}
	}
	return n
}

// Handler adapts the timer to a Source subscription.
func (p *Periodic) Handler() Handler {
	return func(ft FrameTime) { p.Update(ft.Elapsed) }
}

func (p *Periodic) Reset() {
	if p != nil {
		p.acc = 0
	}
}

func (p *Periodic) Period() time.Duration {
	if p == nil {
		return 0
	}
	return p.period
}

func (p *Periodic) SetPeriod(d time.Duration) {
	if p != nil {
		p.period = d
	}
}
