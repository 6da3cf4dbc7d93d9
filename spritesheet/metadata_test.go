package spritesheet

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func sampleMetadata() Metadata {
	return Metadata{
		ModelName:         "hero",
		AnimationName:     "attack",
		FrameWidth:        64,
		FrameHeight:       48.5,
		NumFrames:         7,
		NumFrameColumns:   4,
		NumFrameRows:      2,
		FrameDuration:     120,
		FrameRate:         8,
		OriginX:           0.5,
		OriginY:           1,
		ProjectileTargetX: 0.75,
		ProjectileTargetY: 0.3,
	}
}

func TestRoundTrip(t *testing.T) {
	withEffects := sampleMetadata()
	withEffects.EffectFrames = []EffectFrame{
		{Index: 5, SourceX: 12.25, SourceY: -3, OriginX: 0.5, OriginY: 1},
		{Index: 2, SourceX: 0.1, SourceY: 40, OriginX: 0.5, OriginY: 1},
	}

	single := sampleMetadata()
	single.ModelName = ""
	single.EffectFrames = []EffectFrame{{Index: 0, OriginX: 0.5, OriginY: 1}}

	cases := []struct {
		name string
		m    Metadata
	}{
		{"no_effects", sampleMetadata()},
		{"multiple_effects_insertion_order", withEffects},
		{"single_effect_empty_model", single},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Parse(c.m.Serialize())
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !reflect.DeepEqual(got, c.m) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, c.m)
			}
		})
	}
}

func TestSerializeFormat(t *testing.T) {
	m := sampleMetadata()
	m.EffectFrames = []EffectFrame{{Index: 3, SourceX: 1.5, SourceY: 2}, {Index: 6, SourceX: 0, SourceY: 9}}
	want := "hero|attack|64|48.5|7|4|2|120|8|0.5|1|0.75|0.3|<3,1.5,2;6,0,9>"
	if got := m.Serialize(); got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
	if m.String() != want {
		t.Fatalf("String should match Serialize")
	}
}

func TestParseSkipsMalformedEffectEntries(t *testing.T) {
	raw := "hero|attack|64|48|7|4|2|120|8|0.5|1|0.5|0.5|<1,2,3;bad;4,x,1;5,6;6,7,8;-1,0,0>"
	m, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []EffectFrame{
		{Index: 1, SourceX: 2, SourceY: 3, OriginX: 0.5, OriginY: 1},
		{Index: 6, SourceX: 7, SourceY: 8, OriginX: 0.5, OriginY: 1},
	}
	if !reflect.DeepEqual(m.EffectFrames, want) {
		t.Fatalf("effect frames = %+v, want %+v", m.EffectFrames, want)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"too_few_fields", "hero|attack|64|48|7|4|2|120|8|0.5|1|0.5|0.5"},
		{"bad_width", "hero|attack|wide|48|7|4|2|120|8|0.5|1|0.5|0.5|<>"},
		{"bad_frames", "hero|attack|64|48|seven|4|2|120|8|0.5|1|0.5|0.5|<>"},
		{"negative_rate", "hero|attack|64|48|7|4|2|120|-8|0.5|1|0.5|0.5|<>"},
		{"grid_too_small", "hero|attack|64|48|9|4|2|120|8|0.5|1|0.5|0.5|<>"},
		{"comma_decimal", "hero|attack|64,5|48|7|4|2|120|8|0.5|1|0.5|0.5|<>"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse(c.raw); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestParseIgnoresExtraFields(t *testing.T) {
	m, err := Parse("hero|attack|64|48|7|4|2|120|8|0.5|1|0.5|0.5|<2,1,1>|future|fields")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.EffectFrames) != 1 || m.EffectFrames[0].Index != 2 {
		t.Fatalf("unexpected effect frames %+v", m.EffectFrames)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Metadata)
		ok     bool
	}{
		{"valid", func(*Metadata) {}, true},
		{"uneven_grid_allowed", func(m *Metadata) { m.NumFrames = 5 }, true},
		{"too_many_frames", func(m *Metadata) { m.NumFrames = 9 }, false},
		{"zero_frames", func(m *Metadata) { m.NumFrames = 0 }, false},
		{"zero_width", func(m *Metadata) { m.FrameWidth = 0 }, false},
		{"pipe_in_name", func(m *Metadata) { m.ModelName = "a|b" }, false},
		{"origin_out_of_range", func(m *Metadata) { m.OriginX = 1.5 }, false},
		{"effect_out_of_range", func(m *Metadata) { m.EffectFrames = []EffectFrame{{Index: 7}} }, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := sampleMetadata()
			c.mutate(&m)
			err := m.Validate()
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestFrameInterval(t *testing.T) {
	m := sampleMetadata()
	if got := m.FrameInterval(); got != 120*time.Millisecond {
		t.Fatalf("FrameInterval = %v", got)
	}
	m.FrameDuration = 0
	if got := m.FrameInterval(); got != DefaultFrameDuration {
		t.Fatalf("FrameInterval default = %v", got)
	}
	if m.Key() != "hero/attack" {
		t.Fatalf("Key = %q", m.Key())
	}
}

func TestSortEffectFrames(t *testing.T) {
	in := []EffectFrame{{Index: 4}, {Index: 1, SourceX: 1}, {Index: 1, SourceX: 2}, {Index: 0}}
	got := SortEffectFrames(in)
	want := []EffectFrame{{Index: 0}, {Index: 1, SourceX: 1}, {Index: 1, SourceX: 2}, {Index: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SortEffectFrames = %+v", got)
	}
	if in[0].Index != 4 {
		t.Fatalf("input should be left untouched")
	}
}
