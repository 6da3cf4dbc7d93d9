package sprite

import "testing"

func TestContainerPropagates(t *testing.T) {
	f := NewFactory(nil)
	c := NewContainer()
	c.SetPosition(10, 20)
	c.SetZIndex(3)
	c.SetEffectID("glow")

	a := f.Empty()
	if prev := c.SetCurrent(a); prev != nil {
		t.Fatalf("expected no previous sprite")
	}
	if a.CanvasX != 10 || a.CanvasY != 20 || a.ZIndex != 3 || a.EffectID != "glow" || !a.Visible {
		t.Fatalf("current sprite not synced: %+v", a)
	}

	b := f.Empty()
	if prev := c.SetCurrent(b); prev != a {
		t.Fatalf("SetCurrent should return the previous sprite")
	}
	c.SetVisible(false)
	c.SetPosition(5, 6)
	if b.Visible || b.CanvasX != 5 || b.CanvasY != 6 {
		t.Fatalf("changes must reach the new sprite: %+v", b)
	}
	if a.CanvasX != 10 {
		t.Fatalf("previous sprite must be left untouched")
	}
	if x, y := c.Position(); x != 5 || y != 6 || c.Visible() || c.ZIndex() != 3 || c.EffectID() != "glow" {
		t.Fatalf("unexpected container state")
	}
}

func TestQueueBind(t *testing.T) {
	s, err := NewFactory(nil).Animated(meta(3, 3, 1, 1))
	if err != nil {
		t.Fatalf("Animated: %v", err)
	}
	s.Loop = true

	var q Queue
	q.Bind(s)
	for i := 0; i < 3; i++ {
		s.Advance()
	}

	events := q.Drain()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events)
	}
	if events[0].Kind != EventEffectFrame || events[0].Effect.Index != 1 {
		t.Fatalf("first event = %+v", events[0])
	}
	if events[1].Kind != EventLoopCompleted || events[1].Loops != 1 || events[1].Sprite != s {
		t.Fatalf("second event = %+v", events[1])
	}
	if q.Len() != 0 || q.Drain() != nil {
		t.Fatalf("Drain must empty the queue")
	}

	var nilQueue *Queue
	nilQueue.Push(Event{})
	if nilQueue.Len() != 0 {
		t.Fatalf("nil queue should stay empty")
	}
}
