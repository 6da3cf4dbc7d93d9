package clock

import (
	"sync"
	"time"
)

// Scaled re-emits the ticks of another source with Elapsed multiplied by a
// scale factor. It starts paused; paused ticks are swallowed.
type Scaled struct {
	hub
	stateMu sync.Mutex
	scale   float64
	running bool
	total   time.Duration
	cancel  func()
}

func NewScaled(src Source, scale float64) *Scaled {
	s := &Scaled{scale: scale}
	s.cancel = src.Subscribe(s.tick)
	return s
}

func (s *Scaled) tick(ft FrameTime) {
	s.stateMu.Lock()
	if !s.running {
		s.stateMu.Unlock()
		return
	}
	elapsed := time.Duration(float64(ft.Elapsed) * s.scale)
	if elapsed < 0 {
		elapsed = 0
	}
	s.total += elapsed
	out := FrameTime{Elapsed: elapsed, Total: s.total}
	s.stateMu.Unlock()

	s.dispatch(out)
}

func (s *Scaled) Resume() {
	s.stateMu.Lock()
	s.running = true
	s.stateMu.Unlock()
}

func (s *Scaled) Pause() {
	s.stateMu.Lock()
	s.running = false
	s.stateMu.Unlock()
}

func (s *Scaled) Running() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.running
}

func (s *Scaled) SetScale(scale float64) {
	s.stateMu.Lock()
	s.scale = scale
	s.stateMu.Unlock()
}

func (s *Scaled) Scale() float64 {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.scale
}

// Close detaches from the parent source.
func (s *Scaled) Close() {
	s.cancel()
}
