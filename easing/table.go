package easing

import (
	"fmt"
	"sort"
	"sync"
)

// Table resolves equations by name. It serves the built-ins and any custom
// equations defined on it. A Table is owned by whoever composes the
// application; there is no package-wide registry.
type Table struct {
	mu     sync.RWMutex
	custom map[string]Func
}

func NewTable() *Table {
	return &Table{custom: make(map[string]Func)}
}

// Define registers fn under name. Built-in names cannot be shadowed.
func (t *Table) Define(name string, fn Func) error {
	if t == nil {
		return fmt.Errorf("easing: define %q: nil table", name)
	}
	if fn == nil {
		return fmt.Errorf("easing: define %q: nil func", name)
	}
	if _, err := ParseID(name); err == nil {
		return fmt.Errorf("easing: define %q: shadows built-in", name)
	}
	t.mu.Lock()
	t.custom[normalizeName(name)] = fn
	t.mu.Unlock()
	return nil
}

// DefineScript compiles src with Compile and registers the result.
func (t *Table) DefineScript(name, src string) error {
	fn, err := Compile(name, src)
	if err != nil {
		return err
	}
	return t.Define(name, fn)
}

// Resolve looks name up among the built-ins first, then the custom equations.
func (t *Table) Resolve(name string) (Func, error) {
	if id, err := ParseID(name); err == nil {
		return id.Func(), nil
	}
	if t != nil {
		t.mu.RLock()
		fn, ok := t.custom[normalizeName(name)]
		t.mu.RUnlock()
		if ok {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// Names lists the custom equation names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.custom))
	for name := range t.custom {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
