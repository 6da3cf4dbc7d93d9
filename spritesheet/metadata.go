// Package spritesheet reads and writes sprite sheet metadata.
//
// Metadata travels as a single pipe-delimited record:
//
//	Model|Animation|FrameWidth|FrameHeight|NumFrames|Columns|Rows|FrameDuration|FrameRate|OriginX|OriginY|TargetX|TargetY|<idx,srcX,srcY;...>
//
// PNG sheets carry the record in a text chunk under the Description keyword;
// other formats use a sidecar file next to the image.
package spritesheet

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	fieldSep  = "|"
	effectSep = ";"
	valueSep  = ","

	numFields = 14

	// DefaultFrameDuration applies when a sheet leaves FrameDuration at zero.
	DefaultFrameDuration = 200 * time.Millisecond
)

var (
	ErrMalformed  = errors.New("spritesheet: malformed metadata")
	ErrNoMetadata = errors.New("spritesheet: no metadata")
	ErrInvalid    = errors.New("spritesheet: invalid metadata")
)

// EffectFrame marks a frame at which a side effect should fire. OriginX and
// OriginY mirror the sheet origin and are not serialized.
type EffectFrame struct {
	Index   int
	SourceX float32
	SourceY float32
	OriginX float32
	OriginY float32
}

// Metadata describes the grid layout and timing of one animation.
// FrameDuration is the time each frame stays on screen, in milliseconds.
type Metadata struct {
	ModelName         string
	AnimationName     string
	FrameWidth        float32
	FrameHeight       float32
	NumFrames         int
	NumFrameColumns   int
	NumFrameRows      int
	FrameDuration     float32
	FrameRate         uint32
	OriginX           float32
	OriginY           float32
	ProjectileTargetX float32
	ProjectileTargetY float32
	EffectFrames      []EffectFrame
}

// Key identifies the animation as model/animation.
func (m Metadata) Key() string {
	return m.ModelName + "/" + m.AnimationName
}

// FrameInterval converts FrameDuration to a time.Duration.
func (m Metadata) FrameInterval() time.Duration {
	if m.FrameDuration <= 0 {
		return DefaultFrameDuration
	}
	return time.Duration(float64(m.FrameDuration) * float64(time.Millisecond))
}

// Validate checks the grid invariant and field ranges.
func (m Metadata) Validate() error {
	switch {
	case strings.ContainsAny(m.ModelName, fieldSep+"<>"), strings.ContainsAny(m.AnimationName, fieldSep+"<>"):
		return fmt.Errorf("%w: names must not contain '|', '<' or '>'", ErrInvalid)
	case m.FrameWidth <= 0 || m.FrameHeight <= 0:
		return fmt.Errorf("%w: frame size %gx%g", ErrInvalid, m.FrameWidth, m.FrameHeight)
	case m.NumFrames < 1:
		return fmt.Errorf("%w: %d frames", ErrInvalid, m.NumFrames)
	case m.NumFrameColumns < 1 || m.NumFrameRows < 1:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, m.NumFrameColumns, m.NumFrameRows)
	case m.NumFrames > m.NumFrameColumns*m.NumFrameRows:
		return fmt.Errorf("%w: %d frames exceed %dx%d grid", ErrInvalid, m.NumFrames, m.NumFrameColumns, m.NumFrameRows)
	case m.FrameDuration < 0:
		return fmt.Errorf("%w: negative frame duration", ErrInvalid)
	case !unit(m.OriginX) || !unit(m.OriginY):
		return fmt.Errorf("%w: origin (%g,%g) outside [0,1]", ErrInvalid, m.OriginX, m.OriginY)
	}
	for _, ef := range m.EffectFrames {
		if ef.Index < 0 || ef.Index >= m.NumFrames {
			return fmt.Errorf("%w: effect frame %d out of range", ErrInvalid, ef.Index)
		}
	}
	return nil
}

func unit(v float32) bool {
	return v >= 0 && v <= 1
}

// Parse decodes a metadata record. Fields past the fourteenth are ignored.
// Malformed effect entries are skipped; any other bad field fails the parse.
func Parse(raw string) (Metadata, error) {
	fields := strings.Split(raw, fieldSep)
	if len(fields) < numFields {
		return Metadata{}, fmt.Errorf("%w: %d fields, want %d", ErrMalformed, len(fields), numFields)
	}

	p := fieldParser{fields: fields}
	m := Metadata{
		ModelName:         fields[0],
		AnimationName:     fields[1],
		FrameWidth:        p.f32(2, "FrameWidth"),
		FrameHeight:       p.f32(3, "FrameHeight"),
		NumFrames:         p.atoi(4, "NumFrames"),
		NumFrameColumns:   p.atoi(5, "NumFrameColumns"),
		NumFrameRows:      p.atoi(6, "NumFrameRows"),
		FrameDuration:     p.f32(7, "FrameDuration"),
		FrameRate:         p.u32(8, "FrameRate"),
		OriginX:           p.f32(9, "OriginX"),
		OriginY:           p.f32(10, "OriginY"),
		ProjectileTargetX: p.f32(11, "ProjectileTargetX"),
		ProjectileTargetY: p.f32(12, "ProjectileTargetY"),
	}
	if p.err != nil {
		return Metadata{}, p.err
	}
	if m.NumFrames < 0 || m.NumFrameColumns < 0 || m.NumFrameRows < 0 {
		return Metadata{}, fmt.Errorf("%w: negative frame counts", ErrMalformed)
	}
	if m.NumFrames > m.NumFrameColumns*m.NumFrameRows {
		return Metadata{}, fmt.Errorf("%w: %d frames exceed %dx%d grid", ErrMalformed, m.NumFrames, m.NumFrameColumns, m.NumFrameRows)
	}

	m.EffectFrames = parseEffectFrames(fields[13], m.OriginX, m.OriginY)
	return m, nil
}

func parseEffectFrames(field string, originX, originY float32) []EffectFrame {
	field = strings.TrimSpace(field)
	field = strings.TrimPrefix(field, "<")
	field = strings.TrimSuffix(field, ">")

	var frames []EffectFrame
	for _, entry := range strings.Split(field, effectSep) {
		parts := strings.Split(entry, valueSep)
		if len(parts) != 3 {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || idx < 0 {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
		if err != nil {
			continue
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 32)
		if err != nil {
			continue
		}
		frames = append(frames, EffectFrame{
			Index:   idx,
			SourceX: float32(x),
			SourceY: float32(y),
			OriginX: originX,
			OriginY: originY,
		})
	}
	return frames
}

type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) fail(i int, name string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: field %d (%s) %q: %v", ErrMalformed, i, name, p.fields[i], err)
	}
}

func (p *fieldParser) f32(i int, name string) float32 {
	v, err := strconv.ParseFloat(strings.TrimSpace(p.fields[i]), 32)
	if err != nil {
		p.fail(i, name, err)
	}
	return float32(v)
}

func (p *fieldParser) atoi(i int, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(p.fields[i]))
	if err != nil {
		p.fail(i, name, err)
	}
	return v
}

func (p *fieldParser) u32(i int, name string) uint32 {
	v, err := strconv.ParseUint(strings.TrimSpace(p.fields[i]), 10, 32)
	if err != nil {
		p.fail(i, name, err)
	}
	return uint32(v)
}

// Serialize encodes m in the record format Parse reads.
func (m Metadata) Serialize() string {
	var sb strings.Builder
	fields := []string{
		m.ModelName,
		m.AnimationName,
		formatFloat(m.FrameWidth),
		formatFloat(m.FrameHeight),
		strconv.Itoa(m.NumFrames),
		strconv.Itoa(m.NumFrameColumns),
		strconv.Itoa(m.NumFrameRows),
		formatFloat(m.FrameDuration),
		strconv.FormatUint(uint64(m.FrameRate), 10),
		formatFloat(m.OriginX),
		formatFloat(m.OriginY),
		formatFloat(m.ProjectileTargetX),
		formatFloat(m.ProjectileTargetY),
	}
	for _, f := range fields {
		sb.WriteString(f)
		sb.WriteString(fieldSep)
	}

	sb.WriteByte('<')
	for i, ef := range m.EffectFrames {
		if i > 0 {
			sb.WriteString(effectSep)
		}
		sb.WriteString(strconv.Itoa(ef.Index))
		sb.WriteString(valueSep)
		sb.WriteString(formatFloat(ef.SourceX))
		sb.WriteString(valueSep)
		sb.WriteString(formatFloat(ef.SourceY))
	}
	sb.WriteByte('>')
	return sb.String()
}

func (m Metadata) String() string {
	return m.Serialize()
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// SortEffectFrames returns a copy of frames ordered by Index. Frames sharing
// an index keep their relative order.
func SortEffectFrames(frames []EffectFrame) []EffectFrame {
	out := make([]EffectFrame, len(frames))
	copy(out, frames)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
