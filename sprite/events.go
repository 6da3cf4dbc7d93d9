package sprite

import "github.com/milk9111/spriteshell/spritesheet"

// EventKind identifies a sprite event.
type EventKind string

const (
	EventEffectFrame   EventKind = "effect_frame"
	EventLoopCompleted EventKind = "loop_completed"
)

// Event is a sprite notification captured by a Queue.
type Event struct {
	Kind   EventKind
	Sprite *Sprite
	Effect spritesheet.EffectFrame
	Loops  uint32
}

// Queue is a simple FIFO of sprite events for consumers that poll once per
// update instead of reacting inside the tick.
type Queue struct {
	items []Event
}

// Bind forwards the events of s into the queue.
func (q *Queue) Bind(s *Sprite) {
	if q == nil || s == nil {
		return
	}
	s.OnEffectFrame(func(s *Sprite, ef spritesheet.EffectFrame) {
		q.Push(Event{Kind: EventEffectFrame, Sprite: s, Effect: ef, Loops: s.Loops()})
	})
	s.OnLoopCompleted(func(s *Sprite, loops uint32) {
		q.Push(Event{Kind: EventLoopCompleted, Sprite: s, Loops: loops})
	})
}

// Push adds an event.
func (q *Queue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len reports the number of pending events.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *Queue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
