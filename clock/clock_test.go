package clock

import (
	"context"
	"testing"
	"time"
)

func TestManualDispatch(t *testing.T) {
	m := NewManual()
	var got []FrameTime
	cancel := m.Subscribe(func(ft FrameTime) { got = append(got, ft) })

	m.Advance(16 * time.Millisecond)
	m.Advance(17 * time.Millisecond)
	cancel()
	cancel()
	m.Advance(16 * time.Millisecond)

	want := []FrameTime{
		{Elapsed: 16 * time.Millisecond, Total: 16 * time.Millisecond},
		{Elapsed: 17 * time.Millisecond, Total: 33 * time.Millisecond},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d ticks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tick %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if m.Total() != 49*time.Millisecond {
		t.Fatalf("Total = %v", m.Total())
	}
	if m.Len() != 0 {
		t.Fatalf("expected no subscribers, got %d", m.Len())
	}
}

func TestManualSubscribeDuringDispatch(t *testing.T) {
	cases := []struct {
		name       string
		selfCancel bool
		wantA      int
		wantB      int
	}{
		{"cancel_self", true, 1, 2},
		{"keep", false, 2, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := NewManual()
			var a, b int
			var cancelA func()
			cancelA = m.Subscribe(func(FrameTime) {
				a++
				if c.selfCancel {
					cancelA()
				}
			})
			added := false
			m.Subscribe(func(FrameTime) {
				b++
				if !added {
					added = true
					m.Subscribe(func(FrameTime) { b += 100 })
				}
			})
			m.Advance(time.Millisecond)
			if b != 1 {
				t.Fatalf("handler added mid-dispatch must wait for next tick, b=%d", b)
			}
			m.Advance(time.Millisecond)
			b -= 100
			if a != c.wantA || b != c.wantB {
				t.Fatalf("a=%d b=%d, want %d %d", a, b, c.wantA, c.wantB)
			}
		})
	}
}

func TestManualIgnoresNegative(t *testing.T) {
	m := NewManual()
	var ft FrameTime
	m.Subscribe(func(f FrameTime) { ft = f })
	m.Advance(-time.Second)
	if ft.Elapsed != 0 || ft.Total != 0 {
		t.Fatalf("unexpected tick %+v", ft)
	}
	if cancel := m.Subscribe(nil); cancel == nil {
		t.Fatalf("nil handler should still return a cancel func")
	}
}

func TestScaled(t *testing.T) {
	m := NewManual()
	s := NewScaled(m, 0.5)
	var got []FrameTime
	s.Subscribe(func(ft FrameTime) { got = append(got, ft) })

	m.Advance(100 * time.Millisecond)
	if len(got) != 0 || s.Running() {
		t.Fatalf("scaled source must start paused")
	}

	s.Resume()
	m.Advance(100 * time.Millisecond)
	s.SetScale(2)
	m.Advance(100 * time.Millisecond)
	s.Pause()
	m.Advance(100 * time.Millisecond)

	want := []FrameTime{
		{Elapsed: 50 * time.Millisecond, Total: 50 * time.Millisecond},
		{Elapsed: 200 * time.Millisecond, Total: 250 * time.Millisecond},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d ticks, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tick %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if s.Scale() != 2 {
		t.Fatalf("Scale = %v", s.Scale())
	}

	s.Close()
	if m.Len() != 0 {
		t.Fatalf("Close should detach from the parent")
	}
}

func TestPeriodic(t *testing.T) {
	cases := []struct {
		name   string
		period time.Duration
		steps  []time.Duration
		want   int
	}{
		{"below_period", 100 * time.Millisecond, []time.Duration{40 * time.Millisecond, 40 * time.Millisecond}, 0},
		{"carry_over", 100 * time.Millisecond, []time.Duration{60 * time.Millisecond, 60 * time.Millisecond, 80 * time.Millisecond}, 2},
		{"catch_up", 100 * time.Millisecond, []time.Duration{350 * time.Millisecond}, 3},
		{"zero_period", 0, []time.Duration{time.Second}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fired := 0
			p := NewPeriodic(c.period, func() { fired++ })
			for _, s := range c.steps {
				p.Update(s)
			}
			if fired != c.want {
				t.Fatalf("fired %d times, want %d", fired, c.want)
			}
		})
	}

	fired := 0
	p := NewPeriodic(50*time.Millisecond, func() { fired++ })
	m := NewManual()
	m.Subscribe(p.Handler())
	m.Advance(30 * time.Millisecond)
	p.Reset()
	m.Advance(30 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("Reset should drop accumulated time, fired %d", fired)
	}
	p.SetPeriod(10 * time.Millisecond)
	m.Advance(time.Millisecond)
	if fired != 3 || p.Period() != 10*time.Millisecond {
		t.Fatalf("fired %d after shortening the period", fired)
	}
}

func TestTickerRun(t *testing.T) {
	tk := NewTicker(time.Millisecond)
	ticks := make(chan FrameTime, 64)
	tk.Subscribe(func(ft FrameTime) {
		select {
		case ticks <- ft:
		default:
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := tk.Run(ctx); err != context.DeadlineExceeded {
		t.Fatalf("Run = %v", err)
	}
	if len(ticks) == 0 {
		t.Fatalf("expected at least one tick")
	}
	first := <-ticks
	if first.Elapsed <= 0 || first.Total < first.Elapsed {
		t.Fatalf("unexpected first tick %+v", first)
	}
}
