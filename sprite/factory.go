package sprite

import (
	"fmt"
	"sync"

	"github.com/milk9111/spriteshell/clock"
	"github.com/milk9111/spriteshell/spritesheet"
)

// Factory creates sprites and hands out their ids. Animated sprites are
// subscribed to the factory's clock.
type Factory struct {
	src clock.Source

	mu     sync.Mutex
	nextID int
}

// NewFactory returns a factory whose animated sprites tick from src. A nil
// src yields sprites that only move when Advance is called.
func NewFactory(src clock.Source) *Factory {
	return &Factory{src: src}
}

func (f *Factory) id() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	return id
}

// Empty returns a zero-sized static sprite, useful as a placeholder.
func (f *Factory) Empty() *Sprite {
	s, _ := newSprite(f.id(), 0, 0, OriginCenter, Point{})
	return s
}

// Static returns a single-frame sprite of the given size.
func (f *Factory) Static(w, h float64, origin Point) (*Sprite, error) {
	s, err := newSprite(f.id(), w, h, origin, Point{})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// StaticSheet returns a static sprite covering the whole image of sheet.
func (f *Factory) StaticSheet(sheet spritesheet.Sheet, origin Point) (*Sprite, error) {
	s, err := f.Static(float64(sheet.Width), float64(sheet.Height), origin)
	if err != nil {
		return nil, err
	}
	s.key = sheet.Path
	return s, nil
}

// Animated builds a sprite from metadata. Clips tile the grid row by row and
// stop once NumFrames cells have been produced.
func (f *Factory) Animated(m spritesheet.Metadata) (*Sprite, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("sprite: animated %s: %w", m.Key(), err)
	}

	fw, fh := float64(m.FrameWidth), float64(m.FrameHeight)
	s, err := newSprite(f.id(), fw, fh,
		Point{X: float64(m.OriginX), Y: float64(m.OriginY)},
		Point{X: float64(m.ProjectileTargetX), Y: float64(m.ProjectileTargetY)})
	if err != nil {
		return nil, err
	}
	s.key = m.Key()
	s.imageW = fw * float64(m.NumFrameColumns)
	s.imageH = fh * float64(m.NumFrameRows)

	s.clips = s.clips[:0]
	for y := 0; y < m.NumFrameRows && len(s.clips) < m.NumFrames; y++ {
		for x := 0; x < m.NumFrameColumns && len(s.clips) < m.NumFrames; x++ {
			s.clips = append(s.clips, Rect{X: float64(x) * fw, Y: float64(y) * fh, W: fw, H: fh})
		}
	}
	s.lastFrame = m.NumFrames - 1

	if len(m.EffectFrames) > 0 {
		s.effects = spritesheet.SortEffectFrames(m.EffectFrames)
		s.raised = make([]bool, len(s.effects))
		s.nextEffect = 0
	}

	s.timer = clock.NewPeriodic(m.FrameInterval(), s.Advance)
	if f.src != nil {
		s.cancel = f.src.Subscribe(s.timer.Handler())
	}
	s.Reset()
	return s, nil
}

// FromSheet builds an animated sprite from a loaded sheet. The frame size is
// derived from the image dimensions and the grid.
func (f *Factory) FromSheet(sheet spritesheet.Sheet) (*Sprite, error) {
	s, err := f.Animated(sheet.Normalize())
	if err != nil {
		return nil, err
	}
	s.imageW, s.imageH = float64(sheet.Width), float64(sheet.Height)
	return s, nil
}
