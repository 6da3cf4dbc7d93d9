package tween

import "sync"

// Group completes once every member has completed. The first member error
// becomes the group error.
type Group struct {
	*signal

	members   []Completion
	countMu   sync.Mutex
	remaining int
	firstErr  error
}

// All joins members into a group. An empty group is already complete.
func All(members ...Completion) *Group {
	g := &Group{signal: newSignal()}
	for _, m := range members {
		if m != nil {
			g.members = append(g.members, m)
		}
	}
	g.remaining = len(g.members)
	if g.remaining == 0 {
		g.resolve(nil)
		return g
	}
	for _, m := range g.members {
		m.Then(g.memberDone)
	}
	return g
}

func (g *Group) memberDone(err error) {
	g.countMu.Lock()
	if err != nil && g.firstErr == nil {
		g.firstErr = err
	}
	g.remaining--
	last := g.remaining == 0
	firstErr := g.firstErr
	g.countMu.Unlock()

	if last {
		g.resolve(firstErr)
	}
}

// Len is the number of members.
func (g *Group) Len() int { return len(g.members) }

// Cancel cancels every member still running.
func (g *Group) Cancel() {
	for _, m := range g.members {
		m.Cancel()
	}
}
