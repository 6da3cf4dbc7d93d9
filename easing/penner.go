package easing

import "math"

const (
	backOvershoot    = 1.70158
	backInOutFactor  = 1.525
	elasticPeriod    = .3
	elasticInOutSpan = .45
)

// halves runs first over [0, d/2) and second over [d/2, d], each rescaled to
// the full duration with half the change.
func halves(first, second Func) Func {
	return func(t, b, c, d float64) float64 {
		if t < d/2 {
			return first(t*2, b, c/2, d)
		}
		return second(t*2-d, b+c/2, c/2, d)
	}
}

func LinearTween(t, b, c, d float64) float64 {
	return c*t/d + b
}

func QuadOut(t, b, c, d float64) float64 {
	t /= d
	return -c*t*(t-2) + b
}

func QuadIn(t, b, c, d float64) float64 {
	t /= d
	return c*t*t + b
}

func QuadInOut(t, b, c, d float64) float64 { return halves(QuadOut, QuadIn)(t, b, c, d) }
func QuadOutIn(t, b, c, d float64) float64 { return halves(QuadIn, QuadOut)(t, b, c, d) }

func ExpoOut(t, b, c, d float64) float64 {
	if t == d {
		return b + c
	}
	return c*(-math.Pow(2, -10*t/d)+1) + b
}

func ExpoIn(t, b, c, d float64) float64 {
	if t == 0 {
		return b
	}
	return c*math.Pow(2, 10*(t/d-1)) + b
}

func ExpoInOut(t, b, c, d float64) float64 { return halves(ExpoOut, ExpoIn)(t, b, c, d) }
func ExpoOutIn(t, b, c, d float64) float64 { return halves(ExpoIn, ExpoOut)(t, b, c, d) }

func CubicOut(t, b, c, d float64) float64 {
	t = t/d - 1
	return c*(t*t*t+1) + b
}

func CubicIn(t, b, c, d float64) float64 {
	t /= d
	return c*t*t*t + b
}

func CubicInOut(t, b, c, d float64) float64 { return halves(CubicOut, CubicIn)(t, b, c, d) }
func CubicOutIn(t, b, c, d float64) float64 { return halves(CubicIn, CubicOut)(t, b, c, d) }

func QuartOut(t, b, c, d float64) float64 {
	t = t/d - 1
	return -c*(t*t*t*t-1) + b
}

func QuartIn(t, b, c, d float64) float64 {
	t /= d
	return c*t*t*t*t + b
}

func QuartInOut(t, b, c, d float64) float64 { return halves(QuartOut, QuartIn)(t, b, c, d) }
func QuartOutIn(t, b, c, d float64) float64 { return halves(QuartIn, QuartOut)(t, b, c, d) }

func QuintOut(t, b, c, d float64) float64 {
	t = t/d - 1
	return c*(t*t*t*t*t+1) + b
}

func QuintIn(t, b, c, d float64) float64 {
	t /= d
	return c*t*t*t*t*t + b
}

func QuintInOut(t, b, c, d float64) float64 { return halves(QuintOut, QuintIn)(t, b, c, d) }
func QuintOutIn(t, b, c, d float64) float64 { return halves(QuintIn, QuintOut)(t, b, c, d) }

func CircOut(t, b, c, d float64) float64 {
	t = t/d - 1
	return c*math.Sqrt(1-t*t) + b
}

func CircIn(t, b, c, d float64) float64 {
	t /= d
	return -c*(math.Sqrt(1-t*t)-1) + b
}

func CircInOut(t, b, c, d float64) float64 { return halves(CircOut, CircIn)(t, b, c, d) }
func CircOutIn(t, b, c, d float64) float64 { return halves(CircIn, CircOut)(t, b, c, d) }

func SineOut(t, b, c, d float64) float64 {
	return c*math.Sin(t/d*(math.Pi/2)) + b
}

func SineIn(t, b, c, d float64) float64 {
	return -c*math.Cos(t/d*(math.Pi/2)) + c + b
}

func SineInOut(t, b, c, d float64) float64 { return halves(SineOut, SineIn)(t, b, c, d) }
func SineOutIn(t, b, c, d float64) float64 { return halves(SineIn, SineOut)(t, b, c, d) }

func elasticOut(t, b, c, d, period float64) float64 {
	if t == 0 {
		return b
	}
	if t == d {
		return b + c
	}
	t /= d
	p := d * period
	s := p / 4
	return c*math.Pow(2, -10*t)*math.Sin((t*d-s)*(2*math.Pi)/p) + c + b
}

func elasticIn(t, b, c, d, period float64) float64 {
	if t == 0 {
		return b
	}
	if t == d {
		return b + c
	}
	t = t/d - 1
	p := d * period
	s := p / 4
	return -(c * math.Pow(2, 10*t) * math.Sin((t*d-s)*(2*math.Pi)/p)) + b
}

func ElasticOut(t, b, c, d float64) float64 { return elasticOut(t, b, c, d, elasticPeriod) }
func ElasticIn(t, b, c, d float64) float64  { return elasticIn(t, b, c, d, elasticPeriod) }

// ElasticInOut uses the wider .45 period in both halves.
func ElasticInOut(t, b, c, d float64) float64 {
	out := func(t, b, c, d float64) float64 { return elasticOut(t, b, c, d, elasticInOutSpan) }
	in := func(t, b, c, d float64) float64 { return elasticIn(t, b, c, d, elasticInOutSpan) }
	return halves(out, in)(t, b, c, d)
}

func ElasticOutIn(t, b, c, d float64) float64 { return halves(ElasticIn, ElasticOut)(t, b, c, d) }

func BounceOut(t, b, c, d float64) float64 {
	t /= d
	switch {
	case t < 1/2.75:
		return c*(7.5625*t*t) + b
	case t < 2/2.75:
		t -= 1.5 / 2.75
		return c*(7.5625*t*t+.75) + b
	case t < 2.5/2.75:
		t -= 2.25 / 2.75
		return c*(7.5625*t*t+.9375) + b
	default:
		t -= 2.625 / 2.75
		return c*(7.5625*t*t+.984375) + b
	}
}

func BounceIn(t, b, c, d float64) float64 {
	return c - BounceOut(d-t, 0, c, d) + b
}

func BounceInOut(t, b, c, d float64) float64 { return halves(BounceOut, BounceIn)(t, b, c, d) }
func BounceOutIn(t, b, c, d float64) float64 { return halves(BounceIn, BounceOut)(t, b, c, d) }

func backOut(t, b, c, d, s float64) float64 {
	t = t/d - 1
	return c*(t*t*((s+1)*t+s)+1) + b
}

func backIn(t, b, c, d, s float64) float64 {
	t /= d
	return c*t*t*((s+1)*t-s) + b
}

func BackOut(t, b, c, d float64) float64 { return backOut(t, b, c, d, backOvershoot) }
func BackIn(t, b, c, d float64) float64  { return backIn(t, b, c, d, backOvershoot) }

// BackInOut scales the overshoot by 1.525 in both halves.
func BackInOut(t, b, c, d float64) float64 {
	s := backOvershoot * backInOutFactor
	out := func(t, b, c, d float64) float64 { return backOut(t, b, c, d, s) }
	in := func(t, b, c, d float64) float64 { return backIn(t, b, c, d, s) }
	return halves(out, in)(t, b, c, d)
}

func BackOutIn(t, b, c, d float64) float64 { return halves(BackIn, BackOut)(t, b, c, d) }
