// Package clock provides frame timing sources.
//
// A Source delivers a FrameTime to every subscriber once per tick. All
// handlers of one source run on the goroutine that drives it.
package clock

import (
	"sync"
	"time"
)

// FrameTime is the timing of one tick.
type FrameTime struct {
	// Elapsed is the time since the previous tick.
	Elapsed time.Duration
	// Total is the time since the source started.
	Total time.Duration
}

// Handler receives ticks.
type Handler func(FrameTime)

// Source is anything that can be subscribed to for ticks. The returned cancel
// func detaches the handler and is safe to call more than once, including
// from inside the handler.
type Source interface {
	Subscribe(h Handler) (cancel func())
}

// hub fans a tick out to its subscribers.
type hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]Handler
	order  []uint64
}

func (h *hub) Subscribe(fn Handler) func() {
	if fn == nil {
		return func() {}
	}
	h.mu.Lock()
	if h.subs == nil {
		h.subs = make(map[uint64]Handler)
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.order = append(h.order, id)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[id]; !ok {
		return
	}
	delete(h.subs, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i:i], h.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of live subscribers.
func (h *hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// dispatch calls subscribers in subscription order. Handlers added during the
// dispatch wait for the next tick; handlers removed during it are skipped.
func (h *hub) dispatch(ft FrameTime) {
	h.mu.Lock()
	ids := append([]uint64(nil), h.order...)
	h.mu.Unlock()

	for _, id := range ids {
		h.mu.Lock()
		fn, ok := h.subs[id]
		h.mu.Unlock()
		if ok {
			fn(ft)
		}
	}
}

// Manual is a source advanced explicitly, typically once per game loop update.
type Manual struct {
	hub
	timeMu sync.Mutex
	total  time.Duration
}

func NewManual() *Manual {
	return &Manual{}
}

// Advance moves the clock forward by d and dispatches one tick.
func (m *Manual) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	m.timeMu.Lock()
	m.total += d
	ft := FrameTime{Elapsed: d, Total: m.total}
	m.timeMu.Unlock()
	m.dispatch(ft)
}

// Total reports the accumulated time.
func (m *Manual) Total() time.Duration {
	m.timeMu.Lock()
	defer m.timeMu.Unlock()
	return m.total
}
