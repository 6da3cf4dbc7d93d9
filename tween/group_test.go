package tween

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/spriteshell/clock"
	"github.com/milk9111/spriteshell/easing"
)

func TestGroupWaitsForAll(t *testing.T) {
	src := clock.NewManual()
	a := NewAnimator(src)
	_, sink := collect()

	short, _ := a.Animate(sink, 0, 1, 20*time.Millisecond, easing.Linear)
	long, _ := a.Animate(sink, 0, 1, 60*time.Millisecond, easing.QuadEaseOut)
	g := All(short, long)

	calls := 0
	g.Then(func(err error) {
		calls++
		if err != nil {
			t.Errorf("group err = %v", err)
		}
	})

	src.Advance(20 * time.Millisecond)
	if !isDone(short) || isDone(g) {
		t.Fatalf("group resolved with a member still running")
	}
	src.Advance(40 * time.Millisecond)
	if !isDone(g) {
		t.Fatalf("group did not resolve")
	}
	if calls != 1 {
		t.Fatalf("continuation ran %d times", calls)
	}
	if g.Len() != 2 {
		t.Fatalf("Len = %d", g.Len())
	}
}

func TestGroupEmpty(t *testing.T) {
	g := All()
	if !isDone(g) || g.Err() != nil {
		t.Fatalf("empty group should be resolved")
	}
	g = All(nil, nil)
	if !isDone(g) || g.Len() != 0 {
		t.Fatalf("nil members should be ignored")
	}
}

func TestGroupFirstErrorWins(t *testing.T) {
	src := clock.NewManual()
	a := NewAnimator(src)
	_, sink := collect()

	ok, _ := a.Animate(sink, 0, 1, 30*time.Millisecond, easing.Linear)
	bad, _ := a.Animate(func(float64) { panic("sink") }, 0, 1, 30*time.Millisecond, easing.Linear)
	g := All(ok, bad)

	src.Advance(10 * time.Millisecond)
	if isDone(g) {
		t.Fatalf("group resolved before all members")
	}
	ok.Cancel()
	if !errors.Is(g.Err(), ErrSinkPanic) {
		t.Fatalf("group err = %v, want ErrSinkPanic", g.Err())
	}
}

func TestGroupCancel(t *testing.T) {
	src := clock.NewManual()
	a := NewAnimator(src)
	_, sink := collect()

	r1, _ := a.Animate(sink, 0, 1, time.Second, easing.Linear)
	r2, _ := a.Animate(sink, 0, 1, time.Second, easing.Linear)
	g := All(r1, All(r2))
	g.Cancel()

	if !isDone(g) || !errors.Is(g.Err(), ErrCanceled) {
		t.Fatalf("group err = %v, want ErrCanceled", g.Err())
	}
	if src.Len() != 0 {
		t.Fatalf("canceled runs still subscribed: %d", src.Len())
	}
}
