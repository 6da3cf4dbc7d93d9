// Package sprite animates sprite sheet clips.
//
// A Sprite walks the frames of one sheet, raises effect-frame and
// loop-completed events, and keeps the transform a renderer needs to draw the
// current clip anchored at its origin.
package sprite

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/milk9111/spriteshell/clock"
	"github.com/milk9111/spriteshell/spritesheet"
)

var ErrOrigin = errors.New("sprite: origin out of bounds")

// Point is a 2D point or vector.
type Point struct {
	X, Y float64
}

var (
	OriginTopLeft      = Point{0, 0}
	OriginCenter       = Point{0.5, 0.5}
	OriginBottomCenter = Point{0.5, 1}
	OriginBottomRight  = Point{1, 1}
)

// Rect is a clip rectangle in sheet pixels.
type Rect struct {
	X, Y, W, H float64
}

// Image converts r to integer pixel bounds.
func (r Rect) Image() image.Rectangle {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	return image.Rect(x0, y0, x0+int(math.Round(r.W)), y0+int(math.Round(r.H)))
}

type (
	EffectHandler func(s *Sprite, ef spritesheet.EffectFrame)
	LoopHandler   func(s *Sprite, loops uint32)
)

// Sprite is one animated (or static) image on a canvas. It is not safe for
// concurrent use; drive it from the goroutine that dispatches its clock.
type Sprite struct {
	id  int
	key string

	imageW, imageH float64
	width, height  float64

	clip      Rect
	clips     []Rect
	current   int
	lastFrame int

	effects    []spritesheet.EffectFrame
	raised     []bool
	nextEffect int
	effectNow  bool
	loops      uint32

	// Loop wraps to the first frame after the last one; otherwise the sprite
	// holds on the last frame.
	Loop bool
	// Paused freezes frame advance.
	Paused bool

	CanvasX  float64
	CanvasY  float64
	ZIndex   int
	EffectID string
	Visible  bool
	Opacity  float64

	scaleX, scaleY   float64
	flipH, flipV     bool
	angle            float64
	origin           Point
	projectileTarget Point
	offsetX, offsetY float64

	timer  *clock.Periodic
	cancel func()

	effectHandlers []EffectHandler
	loopHandlers   []LoopHandler
}

func newSprite(id int, w, h float64, origin, target Point) (*Sprite, error) {
	if origin.X < 0 || origin.X > 1 || origin.Y < 0 || origin.Y > 1 {
		return nil, fmt.Errorf("%w: (%g,%g)", ErrOrigin, origin.X, origin.Y)
	}
	s := &Sprite{
		id:               id,
		imageW:           w,
		imageH:           h,
		width:            w,
		height:           h,
		clip:             Rect{W: w, H: h},
		clips:            []Rect{{W: w, H: h}},
		nextEffect:       -1,
		Visible:          true,
		Opacity:          1,
		scaleX:           1,
		scaleY:           1,
		origin:           origin,
		projectileTarget: target,
	}
	s.recalculate()
	return s, nil
}

func (s *Sprite) ID() int         { return s.id }
func (s *Sprite) Key() string     { return s.key }
func (s *Sprite) Width() float64  { return s.width }
func (s *Sprite) Height() float64 { return s.height }

// ImageSize is the size of the whole sheet the clips are cut from.
func (s *Sprite) ImageSize() (w, h float64) { return s.imageW, s.imageH }

func (s *Sprite) Clip() Rect        { return s.clip }
func (s *Sprite) CurrentFrame() int { return s.current }
func (s *Sprite) NumFrames() int    { return s.lastFrame + 1 }
func (s *Sprite) LastFrame() int    { return s.lastFrame }
func (s *Sprite) Loops() uint32     { return s.loops }

// IsEffectFrame reports whether the last frame change raised an effect.
func (s *Sprite) IsEffectFrame() bool { return s.effectNow }

// EffectFrames returns the effect frames ordered by index.
func (s *Sprite) EffectFrames() []spritesheet.EffectFrame {
	return append([]spritesheet.EffectFrame(nil), s.effects...)
}

// OnEffectFrame registers h for effect-frame events.
func (s *Sprite) OnEffectFrame(h EffectHandler) {
	if s == nil || h == nil {
		return
	}
	s.effectHandlers = append(s.effectHandlers, h)
}

// OnLoopCompleted registers h for loop-completed events.
func (s *Sprite) OnLoopCompleted(h LoopHandler) {
	if s == nil || h == nil {
		return
	}
	s.loopHandlers = append(s.loopHandlers, h)
}

// ClearHandlers drops every registered event handler.
func (s *Sprite) ClearHandlers() {
	if s == nil {
		return
	}
	s.effectHandlers = nil
	s.loopHandlers = nil
}

// Advance moves to the next frame. It is called by the sprite's frame timer
// and may be called directly by a caller driving frames by hand.
func (s *Sprite) Advance() {
	if s == nil || s.Paused {
		return
	}
	if s.current == s.lastFrame && !s.Loop {
		return
	}

	next := s.current + 1
	if next > s.lastFrame {
		if len(s.effects) > 0 {
			s.nextEffect = 0
		}
		for i := range s.raised {
			s.raised[i] = false
		}
		s.setFrame(0)
		s.loops++
		s.emitLoop()
		return
	}

	s.setFrame(next)
	if s.current == s.lastFrame && !s.Loop {
		s.loops++
		s.emitLoop()
	}
}

// SetFrame jumps to frame i, clamped to the valid range. Effect detection
// runs as for a timer-driven change.
func (s *Sprite) SetFrame(i int) {
	if s == nil {
		return
	}
	if i < 0 {
		i = 0
	}
	if i > s.lastFrame {
		i = s.lastFrame
	}
	s.setFrame(i)
}

func (s *Sprite) setFrame(i int) {
	s.current = i
	s.effectNow = false

	if s.nextEffect != -1 {
		ef := s.effects[s.nextEffect]
		if s.current >= ef.Index && !s.raised[s.nextEffect] {
			s.effectNow = true
			s.raised[s.nextEffect] = true
			if s.nextEffect < len(s.effects)-1 {
				s.nextEffect++
			} else {
				s.nextEffect = 0
			}
			s.emitEffect(ef)
		}
	}

	s.clip = s.clips[s.current]
}

func (s *Sprite) emitEffect(ef spritesheet.EffectFrame) {
	for _, h := range s.effectHandlers {
		h(s, ef)
	}
}

func (s *Sprite) emitLoop() {
	for _, h := range s.loopHandlers {
		h(s, s.loops)
	}
}

// Reset rewinds to the first frame, clears the loop counter and effect flags,
// and restarts the frame timer. Handlers stay registered.
func (s *Sprite) Reset() {
	if s == nil {
		return
	}
	if s.timer != nil {
		s.timer.Reset()
	}
	s.loops = 0
	for i := range s.raised {
		s.raised[i] = false
	}
	if len(s.effects) > 0 {
		s.nextEffect = 0
	}
	s.current = 0
	s.effectNow = false
	s.clip = s.clips[0]
}

// Detach stops the sprite's frame timer.
func (s *Sprite) Detach() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

// Attached reports whether the sprite is subscribed to a clock.
func (s *Sprite) Attached() bool {
	return s != nil && s.cancel != nil
}
