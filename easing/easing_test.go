package easing

import (
	"errors"
	"math"
	"testing"

	"github.com/fogleman/ease"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		b, c, d float64
	}{
		{"unit", 0, 1, 1},
		{"negative_delta", 10, -25, 400},
		{"short_duration", -3, 7, 0.25},
		{"large", 1000, 640, 1200},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tol := 1e-9 * math.Max(1, math.Abs(c.c))
			for _, id := range IDs() {
				fn := id.Func()
				if got := fn(0, c.b, c.c, c.d); !near(got, c.b, tol) {
					t.Fatalf("%s: f(0) = %v, want %v", id, got, c.b)
				}
				if got := fn(c.d, c.b, c.c, c.d); !near(got, c.b+c.c, tol) {
					t.Fatalf("%s: f(d) = %v, want %v", id, got, c.b+c.c)
				}
				if got := fn(c.d/2, c.b, c.c, c.d); id != Linear && isComposite(id) && !near(got, c.b+c.c/2, tol) {
					t.Fatalf("%s: f(d/2) = %v, want %v", id, got, c.b+c.c/2)
				}
			}
		})
	}
}

func isComposite(id ID) bool {
	s := id.String()
	return len(s) > 5 && (s[len(s)-5:] == "InOut" || s[len(s)-5:] == "OutIn")
}

func TestHalfComposition(t *testing.T) {
	type pair struct {
		in, out, inOut, outIn Func
	}
	cases := map[string]pair{
		"quad":    {QuadIn, QuadOut, QuadInOut, QuadOutIn},
		"cubic":   {CubicIn, CubicOut, CubicInOut, CubicOutIn},
		"quart":   {QuartIn, QuartOut, QuartInOut, QuartOutIn},
		"quint":   {QuintIn, QuintOut, QuintInOut, QuintOutIn},
		"sine":    {SineIn, SineOut, SineInOut, SineOutIn},
		"circ":    {CircIn, CircOut, CircInOut, CircOutIn},
		"expo":    {ExpoIn, ExpoOut, ExpoInOut, ExpoOutIn},
		"bounce":  {BounceIn, BounceOut, BounceInOut, BounceOutIn},
		"back":    {BackIn, BackOut, nil, BackOutIn},
		"elastic": {ElasticIn, ElasticOut, nil, ElasticOutIn},
	}

	const b, c, d = 5.0, -40.0, 300.0
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			for i := 0; i <= 60; i++ {
				tm := d * float64(i) / 60
				var wantInOut, wantOutIn float64
				if tm < d/2 {
					wantInOut = p.out(tm*2, b, c/2, d)
					wantOutIn = p.in(tm*2, b, c/2, d)
				} else {
					wantInOut = p.in(tm*2-d, b+c/2, c/2, d)
					wantOutIn = p.out(tm*2-d, b+c/2, c/2, d)
				}
				if p.inOut != nil {
					if got := p.inOut(tm, b, c, d); !near(got, wantInOut, 1e-9) {
						t.Fatalf("InOut(%v) = %v, want %v", tm, got, wantInOut)
					}
				}
				if got := p.outIn(tm, b, c, d); !near(got, wantOutIn, 1e-9) {
					t.Fatalf("OutIn(%v) = %v, want %v", tm, got, wantOutIn)
				}
			}
		})
	}
}

func TestMatchesReferenceCurves(t *testing.T) {
	cases := []struct {
		name string
		got  Func
		want func(float64) float64
	}{
		{"InQuad", QuadIn, ease.InQuad},
		{"OutQuad", QuadOut, ease.OutQuad},
		{"InCubic", CubicIn, ease.InCubic},
		{"OutCubic", CubicOut, ease.OutCubic},
		{"InQuart", QuartIn, ease.InQuart},
		{"OutQuart", QuartOut, ease.OutQuart},
		{"InQuint", QuintIn, ease.InQuint},
		{"OutQuint", QuintOut, ease.OutQuint},
		{"InSine", SineIn, ease.InSine},
		{"OutSine", SineOut, ease.OutSine},
		{"InCirc", CircIn, ease.InCirc},
		{"OutCirc", CircOut, ease.OutCirc},
		{"InExpo", ExpoIn, ease.InExpo},
		{"OutExpo", ExpoOut, ease.OutExpo},
		{"InBack", BackIn, ease.InBack},
		{"OutBack", BackOut, ease.OutBack},
		{"Linear", LinearTween, ease.Linear},
		{"OutThenInQuad", QuadInOut, func(p float64) float64 {
			if p < .5 {
				return ease.OutQuad(p*2) / 2
			}
			return .5 + ease.InQuad(p*2-1)/2
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fn := Normalize(c.got)
			for i := 0; i <= 100; i++ {
				p := float64(i) / 100
				if got, want := fn(p), c.want(p); !near(got, want, 1e-9) {
					t.Fatalf("p=%v: got %v, want %v", p, got, want)
				}
			}
		})
	}
}

func TestBounceBreakpoints(t *testing.T) {
	cases := []struct {
		name string
		p    float64
		want float64
	}{
		{"first landing", 1 / 2.75, 1},
		{"second bounce top", 1.5 / 2.75, .75},
		{"second landing", 2 / 2.75, 1},
		{"third bounce top", 2.25 / 2.75, .9375},
		{"third landing", 2.5 / 2.75, 1},
		{"last bounce top", 2.625 / 2.75, .984375},
		{"end", 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := BounceOut(c.p, 0, 1, 1); !near(got, c.want, 1e-12) {
				t.Fatalf("BounceOut(%v) = %v, want %v", c.p, got, c.want)
			}
		})
	}
}

func TestBackOvershoots(t *testing.T) {
	min := 0.0
	for i := 0; i <= 100; i++ {
		min = math.Min(min, BackIn(float64(i)/100, 0, 1, 1))
	}
	if min >= 0 {
		t.Fatalf("BackIn should dip below the start, min %v", min)
	}

	// the out half runs first, so the overshoot lands past the midpoint
	max := 0.0
	for i := 0; i < 50; i++ {
		max = math.Max(max, BackInOut(float64(i)/100, 0, 1, 1))
	}
	if max <= .5 {
		t.Fatalf("BackInOut should overshoot the midpoint, max %v", max)
	}
	if got := BackInOut(1, 0, 1, 1); !near(got, 1, 1e-12) {
		t.Fatalf("BackInOut(1) = %v, want 1", got)
	}
}

func TestZeroDurationIsNotFinite(t *testing.T) {
	if v := QuadIn(0, 0, 1, 0); !math.IsNaN(v) {
		t.Fatalf("QuadIn with d=0 = %v, want NaN", v)
	}
}

func TestIDNames(t *testing.T) {
	cases := []struct {
		in   string
		want ID
	}{
		{"Linear", Linear},
		{"QuadEaseIn", QuadEaseIn},
		{"quad-ease-in-out", QuadEaseInOut},
		{"  BACK_EASE_OUT_IN ", BackEaseOutIn},
		{"elasticeaseout", ElasticEaseOut},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseID(c.in)
			if err != nil {
				t.Fatalf("ParseID: %v", err)
			}
			if got != c.want {
				t.Fatalf("ParseID(%q) = %s, want %s", c.in, got, c.want)
			}
		})
	}

	if _, err := ParseID("wobble"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}

	for _, id := range IDs() {
		text, err := id.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", int(id), err)
		}
		var back ID
		if err := back.UnmarshalText(text); err != nil || back != id {
			t.Fatalf("UnmarshalText(%s) = %s, %v", text, back, err)
		}
	}
	if len(IDs()) != 41 {
		t.Fatalf("expected 41 equations, got %d", len(IDs()))
	}
	if QuadEaseOut.String() != "QuadEaseOut" || BackEaseOutIn.String() != "BackEaseOutIn" {
		t.Fatalf("unexpected names %s %s", QuadEaseOut, BackEaseOutIn)
	}
}

func TestLookup(t *testing.T) {
	if _, err := Lookup(ID(-1)); !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	fn, err := Lookup(CubicEaseIn)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got := fn(50, 0, 100, 100); !near(got, 12.5, 1e-12) {
		t.Fatalf("CubicEaseIn midpoint = %v", got)
	}
}
