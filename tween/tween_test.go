package tween

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/milk9111/spriteshell/clock"
	"github.com/milk9111/spriteshell/easing"
)

func collect() (*[]float64, Sink) {
	var got []float64
	return &got, func(v float64) { got = append(got, v) }
}

func isDone(c Completion) bool {
	select {
	case <-c.Done():
		return true
	default:
		return false
	}
}

func TestAnimateLinear(t *testing.T) {
	src := clock.NewManual()
	a := NewAnimator(src)
	got, sink := collect()

	r, err := a.Animate(sink, 0, 100, 100*time.Millisecond, easing.Linear)
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	for i := 0; i < 3; i++ {
		src.Advance(25 * time.Millisecond)
	}
	if isDone(r) {
		t.Fatalf("run finished early")
	}
	src.Advance(25 * time.Millisecond)
	src.Advance(25 * time.Millisecond)

	want := []float64{25, 50, 75, 100}
	if len(*got) != len(want) {
		t.Fatalf("values = %v, want %v", *got, want)
	}
	for i := range want {
		if math.Abs((*got)[i]-want[i]) > 1e-9 {
			t.Fatalf("value %d = %v, want %v", i, (*got)[i], want[i])
		}
	}
	if !isDone(r) || r.Err() != nil {
		t.Fatalf("expected clean completion, err=%v", r.Err())
	}
	if src.Len() != 0 {
		t.Fatalf("run still subscribed")
	}
	if r.Elapsed() != 100*time.Millisecond {
		t.Fatalf("Elapsed = %v", r.Elapsed())
	}
}

func TestAnimateEndsExactlyOnTarget(t *testing.T) {
	tests := []struct {
		name string
		id   easing.ID
		step time.Duration
	}{
		{"overshooting tick", easing.QuadEaseIn, 60 * time.Millisecond},
		{"elastic", easing.ElasticEaseOut, 7 * time.Millisecond},
		{"back", easing.BackEaseInOut, 13 * time.Millisecond},
		{"bounce", easing.BounceEaseOutIn, 33 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := clock.NewManual()
			got, sink := collect()
			r, err := NewAnimator(src).Animate(sink, -3.5, 7.25, 100*time.Millisecond, tt.id)
			if err != nil {
				t.Fatalf("Animate: %v", err)
			}
			for i := 0; i < 100 && !isDone(r); i++ {
				src.Advance(tt.step)
			}
			if !isDone(r) {
				t.Fatalf("run did not finish")
			}
			if n := len(*got); n == 0 || (*got)[n-1] != 7.25 {
				t.Fatalf("last value = %v, want 7.25", *got)
			}
		})
	}
}

func TestAnimateZeroDuration(t *testing.T) {
	src := clock.NewManual()
	got, sink := collect()
	r, err := NewAnimator(src).Animate(sink, 1, 2, 0, easing.CubicEaseIn)
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	if !isDone(r) || r.Err() != nil {
		t.Fatalf("expected immediate completion")
	}
	if len(*got) != 1 || (*got)[0] != 2 {
		t.Fatalf("values = %v, want [2]", *got)
	}
	if src.Len() != 0 {
		t.Fatalf("zero duration run subscribed")
	}
}

func TestAnimateErrors(t *testing.T) {
	a := NewAnimator(clock.NewManual())
	_, sink := collect()

	tests := []struct {
		name string
		run  func() (*Run, error)
		want error
	}{
		{"negative duration", func() (*Run, error) {
			return a.Animate(sink, 0, 1, -time.Millisecond, easing.Linear)
		}, ErrInvalidDuration},
		{"nil sink", func() (*Run, error) {
			return a.Animate(nil, 0, 1, time.Second, easing.Linear)
		}, ErrNilSink},
		{"nil func", func() (*Run, error) {
			return a.AnimateFunc(sink, 0, 1, time.Second, nil)
		}, ErrNilFunc},
		{"unknown equation", func() (*Run, error) {
			return a.Animate(sink, 0, 1, time.Second, easing.ID(999))
		}, easing.ErrUnknown},
		{"nil color sink", func() (*Run, error) {
			return a.AnimateColor(nil, colorful.Color{}, colorful.Color{}, time.Second, easing.Linear)
		}, ErrNilSink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.run()
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if r != nil {
				t.Fatalf("expected nil run")
			}
		})
	}
}

func TestCancel(t *testing.T) {
	src := clock.NewManual()
	got, sink := collect()
	r, err := NewAnimator(src).Animate(sink, 0, 10, 100*time.Millisecond, easing.Linear)
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	src.Advance(10 * time.Millisecond)
	r.Cancel()
	r.Cancel()
	src.Advance(200 * time.Millisecond)

	if len(*got) != 1 {
		t.Fatalf("values after cancel = %v", *got)
	}
	if !errors.Is(r.Err(), ErrCanceled) {
		t.Fatalf("Err = %v, want ErrCanceled", r.Err())
	}
	if src.Len() != 0 {
		t.Fatalf("canceled run still subscribed")
	}

	var late error
	r.Then(func(err error) { late = err })
	if !errors.Is(late, ErrCanceled) {
		t.Fatalf("late continuation got %v", late)
	}
}

func TestCancelAfterCompletionIsNoop(t *testing.T) {
	src := clock.NewManual()
	_, sink := collect()
	r, _ := NewAnimator(src).Animate(sink, 0, 1, 10*time.Millisecond, easing.Linear)
	src.Advance(10 * time.Millisecond)
	r.Cancel()
	if r.Err() != nil {
		t.Fatalf("Err = %v after completed run was canceled", r.Err())
	}
}

func TestNonFiniteValue(t *testing.T) {
	src := clock.NewManual()
	got, sink := collect()
	nan := func(_, _, _, _ float64) float64 { return math.NaN() }
	r, err := NewAnimator(src).AnimateFunc(sink, 0, 1, 100*time.Millisecond, nan)
	if err != nil {
		t.Fatalf("AnimateFunc: %v", err)
	}
	src.Advance(10 * time.Millisecond)
	if !errors.Is(r.Err(), ErrNonFinite) {
		t.Fatalf("Err = %v, want ErrNonFinite", r.Err())
	}
	if len(*got) != 0 {
		t.Fatalf("non-finite value reached sink: %v", *got)
	}
}

func TestSinkPanic(t *testing.T) {
	src := clock.NewManual()
	calls := 0
	r, err := NewAnimator(src).Animate(func(float64) {
		calls++
		panic("boom")
	}, 0, 1, 100*time.Millisecond, easing.Linear)
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	src.Advance(10 * time.Millisecond)
	src.Advance(10 * time.Millisecond)
	if !errors.Is(r.Err(), ErrSinkPanic) {
		t.Fatalf("Err = %v, want ErrSinkPanic", r.Err())
	}
	if calls != 1 {
		t.Fatalf("sink called %d times", calls)
	}
}

func TestWait(t *testing.T) {
	src := clock.NewManual()
	_, sink := collect()
	r, _ := NewAnimator(src).Animate(sink, 0, 1, 50*time.Millisecond, easing.Linear)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait = %v, want deadline", err)
	}

	src.Advance(50 * time.Millisecond)
	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("Wait = %v", err)
	}
}

func TestThenChainsAnotherRun(t *testing.T) {
	src := clock.NewManual()
	a := NewAnimator(src)
	var x, y []float64

	first, _ := a.Animate(func(v float64) { x = append(x, v) }, 0, 1, 20*time.Millisecond, easing.Linear)
	var second *Run
	first.Then(func(err error) {
		if err != nil {
			return
		}
		second, _ = a.Animate(func(v float64) { y = append(y, v) }, 1, 0, 20*time.Millisecond, easing.Linear)
	})

	src.Advance(20 * time.Millisecond)
	if second == nil {
		t.Fatalf("continuation did not start second run")
	}
	if len(y) != 0 {
		t.Fatalf("second run ticked in the dispatch that started it")
	}
	src.Advance(20 * time.Millisecond)
	if !isDone(second) || len(y) != 1 || y[0] != 0 {
		t.Fatalf("second run values = %v", y)
	}
	if len(x) != 1 || x[0] != 1 {
		t.Fatalf("first run values = %v", x)
	}
}

func TestAnimateColor(t *testing.T) {
	src := clock.NewManual()
	from := colorful.Color{R: 1, G: 0, B: 0}
	to := colorful.Color{R: 0, G: 0, B: 1}
	var got []colorful.Color

	r, err := NewAnimator(src).AnimateColor(func(c colorful.Color) { got = append(got, c) }, from, to, 100*time.Millisecond, easing.SineEaseInOut)
	if err != nil {
		t.Fatalf("AnimateColor: %v", err)
	}
	src.Advance(50 * time.Millisecond)
	src.Advance(50 * time.Millisecond)

	if !isDone(r) || len(got) != 2 {
		t.Fatalf("got %d colors, done=%v", len(got), isDone(r))
	}
	if got[1] != to {
		t.Fatalf("final color = %v, want %v", got[1], to)
	}
	if !got[0].IsValid() {
		t.Fatalf("midpoint color out of gamut: %v", got[0])
	}
	if got[0] == from || got[0] == to {
		t.Fatalf("midpoint did not blend: %v", got[0])
	}
}
