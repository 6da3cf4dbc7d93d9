// Package tween drives property interpolations from a frame clock.
//
// Each run samples an easing equation once per tick and pushes the value to a
// sink. The last value pushed is always exactly the target.
package tween

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/milk9111/spriteshell/clock"
	"github.com/milk9111/spriteshell/easing"
)

var (
	ErrInvalidDuration = errors.New("tween: negative duration")
	ErrNilSink         = errors.New("tween: nil sink")
	ErrNilFunc         = errors.New("tween: nil easing func")
	ErrCanceled        = errors.New("tween: canceled")
	ErrNonFinite       = errors.New("tween: non-finite value")
	ErrSinkPanic       = errors.New("tween: sink panicked")
)

// Sink receives interpolated values.
type Sink func(v float64)

// Animator starts runs on a clock.
type Animator struct {
	src clock.Source
}

func NewAnimator(src clock.Source) *Animator {
	return &Animator{src: src}
}

// Animate interpolates from -> to over duration with the built-in equation id.
func (a *Animator) Animate(sink Sink, from, to float64, duration time.Duration, id easing.ID) (*Run, error) {
	fn, err := easing.Lookup(id)
	if err != nil {
		return nil, err
	}
	return a.AnimateFunc(sink, from, to, duration, fn)
}

// AnimateFunc interpolates with an arbitrary equation. Time is passed to fn
// in milliseconds.
func (a *Animator) AnimateFunc(sink Sink, from, to float64, duration time.Duration, fn easing.Func) (*Run, error) {
	switch {
	case sink == nil:
		return nil, ErrNilSink
	case fn == nil:
		return nil, ErrNilFunc
	case duration < 0:
		return nil, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}

	r := &Run{
		signal:   newSignal(),
		sink:     sink,
		fn:       fn,
		from:     from,
		to:       to,
		duration: duration,
	}
	if duration == 0 {
		r.finish(r.emit(to))
		return r, nil
	}
	if a == nil || a.src == nil {
		return nil, errors.New("tween: animator without clock")
	}

	cancel := a.src.Subscribe(r.step)
	r.mu.Lock()
	r.unsubscribe = cancel
	done := r.closed
	r.mu.Unlock()
	if done {
		cancel()
	}
	return r, nil
}

// AnimateColor blends from -> to in the CIE L*a*b* space.
func (a *Animator) AnimateColor(sink func(colorful.Color), from, to colorful.Color, duration time.Duration, id easing.ID) (*Run, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	fn, err := easing.Lookup(id)
	if err != nil {
		return nil, err
	}
	return a.AnimateFunc(func(p float64) {
		if p == 1 {
			sink(to)
			return
		}
		sink(from.BlendLab(to, p).Clamped())
	}, 0, 1, duration, fn)
}

// Run is one active interpolation.
type Run struct {
	*signal

	sink     Sink
	fn       easing.Func
	from, to float64
	duration time.Duration

	elapsed     time.Duration
	unsubscribe func()
	stepMu      sync.Mutex
}

// Elapsed reports the time consumed so far, capped at the duration.
func (r *Run) Elapsed() time.Duration {
	r.stepMu.Lock()
	defer r.stepMu.Unlock()
	if r.elapsed > r.duration {
		return r.duration
	}
	return r.elapsed
}

func (r *Run) step(ft clock.FrameTime) {
	r.stepMu.Lock()
	if r.resolved() {
		r.stepMu.Unlock()
		return
	}
	r.elapsed += ft.Elapsed
	elapsed := r.elapsed
	r.stepMu.Unlock()

	if elapsed >= r.duration {
		r.finish(r.emit(r.to))
		return
	}

	v := r.fn(ms(elapsed), r.from, r.to-r.from, ms(r.duration))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.finish(fmt.Errorf("%w at %v of %v", ErrNonFinite, elapsed, r.duration))
		return
	}
	if err := r.emit(v); err != nil {
		r.finish(err)
	}
}

// emit calls the sink and converts a panic into an error.
func (r *Run) emit(v float64) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrSinkPanic, p)
		}
	}()
	r.sink(v)
	return nil
}

func (r *Run) finish(err error) {
	r.mu.Lock()
	cancel := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if err != nil && !errors.Is(err, ErrCanceled) {
		log.Printf("tween: run failed: %v", err)
	}
	r.resolve(err)
}

// Cancel stops the run without pushing the target value. It is a no-op once
// the run has completed.
func (r *Run) Cancel() {
	if r == nil || r.resolved() {
		return
	}
	r.finish(ErrCanceled)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
