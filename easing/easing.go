// Package easing implements Robert Penner's easing equations.
//
// Every equation has the signature f(t, b, c, d): t is the elapsed time, b the
// start value, c the total change and d the duration. Inputs are not clamped.
package easing

import (
	"errors"
	"fmt"
	"strings"
)

// Func is an easing equation.
type Func func(t, b, c, d float64) float64

// ID selects a built-in easing equation.
type ID int

const (
	Linear ID = iota

	QuadEaseOut
	QuadEaseIn
	QuadEaseInOut
	QuadEaseOutIn

	ExpoEaseOut
	ExpoEaseIn
	ExpoEaseInOut
	ExpoEaseOutIn

	CubicEaseOut
	CubicEaseIn
	CubicEaseInOut
	CubicEaseOutIn

	QuartEaseOut
	QuartEaseIn
	QuartEaseInOut
	QuartEaseOutIn

	QuintEaseOut
	QuintEaseIn
	QuintEaseInOut
	QuintEaseOutIn

	CircEaseOut
	CircEaseIn
	CircEaseInOut
	CircEaseOutIn

	SineEaseOut
	SineEaseIn
	SineEaseInOut
	SineEaseOutIn

	ElasticEaseOut
	ElasticEaseIn
	ElasticEaseInOut
	ElasticEaseOutIn

	BounceEaseOut
	BounceEaseIn
	BounceEaseInOut
	BounceEaseOutIn

	BackEaseOut
	BackEaseIn
	BackEaseInOut
	BackEaseOutIn

	numIDs
)

var (
	ErrUnknown = errors.New("easing: unknown function")
	ErrScript  = errors.New("easing: script")
)

var families = [...]string{"Quad", "Expo", "Cubic", "Quart", "Quint", "Circ", "Sine", "Elastic", "Bounce", "Back"}

var variants = [...]string{"EaseOut", "EaseIn", "EaseInOut", "EaseOutIn"}

var funcs = [numIDs]Func{
	Linear: LinearTween,

	QuadEaseOut: QuadOut, QuadEaseIn: QuadIn, QuadEaseInOut: QuadInOut, QuadEaseOutIn: QuadOutIn,
	ExpoEaseOut: ExpoOut, ExpoEaseIn: ExpoIn, ExpoEaseInOut: ExpoInOut, ExpoEaseOutIn: ExpoOutIn,
	CubicEaseOut: CubicOut, CubicEaseIn: CubicIn, CubicEaseInOut: CubicInOut, CubicEaseOutIn: CubicOutIn,
	QuartEaseOut: QuartOut, QuartEaseIn: QuartIn, QuartEaseInOut: QuartInOut, QuartEaseOutIn: QuartOutIn,
	QuintEaseOut: QuintOut, QuintEaseIn: QuintIn, QuintEaseInOut: QuintInOut, QuintEaseOutIn: QuintOutIn,
	CircEaseOut: CircOut, CircEaseIn: CircIn, CircEaseInOut: CircInOut, CircEaseOutIn: CircOutIn,
	SineEaseOut: SineOut, SineEaseIn: SineIn, SineEaseInOut: SineInOut, SineEaseOutIn: SineOutIn,
	ElasticEaseOut: ElasticOut, ElasticEaseIn: ElasticIn, ElasticEaseInOut: ElasticInOut, ElasticEaseOutIn: ElasticOutIn,
	BounceEaseOut: BounceOut, BounceEaseIn: BounceIn, BounceEaseInOut: BounceInOut, BounceEaseOutIn: BounceOutIn,
	BackEaseOut: BackOut, BackEaseIn: BackIn, BackEaseInOut: BackInOut, BackEaseOutIn: BackOutIn,
}

// IDs returns every built-in identifier in declaration order.
func IDs() []ID {
	ids := make([]ID, numIDs)
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// Valid reports whether id names a built-in equation.
func (id ID) Valid() bool {
	return id >= 0 && id < numIDs
}

func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("ID(%d)", int(id))
	}
	if id == Linear {
		return "Linear"
	}
	i := int(id) - 1
	return families[i/len(variants)] + variants[i%len(variants)]
}

// Func returns the equation for id, or nil when id is not valid.
func (id ID) Func() Func {
	if !id.Valid() {
		return nil
	}
	return funcs[id]
}

// Lookup resolves id to its equation.
func Lookup(id ID) (Func, error) {
	fn := id.Func()
	if fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, id)
	}
	return fn, nil
}

// ParseID resolves a name such as "QuadEaseIn" or "quad-ease-in".
func ParseID(name string) (ID, error) {
	key := normalizeName(name)
	for _, id := range IDs() {
		if normalizeName(id.String()) == key {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknown, name)
}

func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknown, int(id))
	}
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Normalize adapts fn to the unit interval: p in [0,1] maps to [0,1].
func Normalize(fn Func) func(p float64) float64 {
	return func(p float64) float64 {
		return fn(p, 0, 1, 1)
	}
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
}
