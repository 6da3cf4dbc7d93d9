package tween

import (
	"context"
	"sync"
)

// Completion is a single-resolution completion signal shared by runs and
// groups.
type Completion interface {
	Done() <-chan struct{}
	Err() error
	Cancel()
	Then(fn func(error))
}

type signal struct {
	mu     sync.Mutex
	done   chan struct{}
	err    error
	closed bool
	thens  []func(error)
}

func newSignal() *signal {
	return &signal{done: make(chan struct{})}
}

// resolve completes the signal with err and runs the continuations on the
// calling goroutine. Only the first call has any effect.
func (s *signal) resolve(err error) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	s.err = err
	thens := s.thens
	s.thens = nil
	close(s.done)
	s.mu.Unlock()

	for _, fn := range thens {
		fn(err)
	}
	return true
}

// Done is closed once the signal resolves.
func (s *signal) Done() <-chan struct{} {
	return s.done
}

// Err is nil until resolution, and nil afterwards on success.
func (s *signal) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *signal) resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Then registers fn to run on resolution. When already resolved fn runs
// immediately.
func (s *signal) Then(fn func(error)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if !s.closed {
		s.thens = append(s.thens, fn)
		s.mu.Unlock()
		return
	}
	err := s.err
	s.mu.Unlock()
	fn(err)
}

// Wait blocks until resolution or until ctx is done.
func (s *signal) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
