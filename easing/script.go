package easing

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Compile builds an equation from a tengo script. The script reads the
// globals t, b, c and d and assigns its result to value:
//
//	value = c * math.pow(t/d, 3) + b
//
// The math module is imported automatically when the script does not
// import it itself.
func Compile(name, src string) (Func, error) {
	if !strings.Contains(src, `import("math")`) {
		src = "math := import(\"math\")\n" + src
	}
	script := tengo.NewScript([]byte(src))
	for _, v := range []string{"t", "b", "c", "d", "value"} {
		if err := script.Add(v, 0.0); err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrScript, name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrScript, name, err)
	}

	s := &scripted{compiled: compiled}
	if _, err := s.eval(0, 0, 1, 1); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrScript, name, err)
	}
	return s.Func, nil
}

type scripted struct {
	mu       sync.Mutex
	compiled *tengo.Compiled
}

// Func evaluates the script. Runtime failures yield NaN so callers that check
// for finite values can reject the sample.
func (s *scripted) Func(t, b, c, d float64) float64 {
	v, err := s.eval(t, b, c, d)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (s *scripted) eval(t, b, c, d float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, v := range map[string]float64{"t": t, "b": b, "c": c, "d": d} {
		if err := s.compiled.Set(name, v); err != nil {
			return 0, err
		}
	}
	if err := s.compiled.Run(); err != nil {
		return 0, err
	}
	value := s.compiled.Get("value")
	switch value.ValueType() {
	case "float", "int":
		return value.Float(), nil
	default:
		return 0, fmt.Errorf("value is %s, want float", value.ValueType())
	}
}
