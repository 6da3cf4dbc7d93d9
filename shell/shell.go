// Package shell choreographs page and dialog transitions for a single
// window.
//
// A Shell owns a set of layers whose properties are animated by tween runs.
// Each transition is a fan-out of independent runs joined into one group; the
// layers are settled into their final state once the group resolves. A Shell
// is not safe for concurrent use: drive it and its clock from one goroutine.
package shell

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/milk9111/spriteshell/easing"
	"github.com/milk9111/spriteshell/tween"
)

var (
	ErrJournalEmpty = errors.New("shell: nothing to navigate back to")
	ErrNoDialog     = errors.New("shell: no dialog open")
	ErrBusy         = errors.New("shell: transition in progress")
)

const (
	DefaultParallax   = 50
	DefaultBlurRadius = 25
	DefaultDuration   = 400 * time.Millisecond
)

// Config controls the geometry and timing of transitions.
type Config struct {
	Width, Height float64

	HorizontalParallax float64
	VerticalParallax   float64
	BlurRadius         float64
	Duration           time.Duration
	Easing             easing.ID
	// Curve overrides Easing when set.
	Curve easing.Func

	DimColor colorful.Color
}

func DefaultConfig() Config {
	return Config{
		Width:              960,
		Height:             540,
		HorizontalParallax: DefaultParallax,
		VerticalParallax:   DefaultParallax,
		BlurRadius:         DefaultBlurRadius,
		Duration:           DefaultDuration,
		Easing:             easing.QuadEaseIn,
		DimColor:           colorful.Color{R: 0, G: 0, B: 0},
	}
}

// Layer is a positioned, fading surface holding arbitrary content.
type Layer struct {
	Left, Top float64
	Opacity   float64
	Content   any
}

// Backdrop is the parallax background.
type Backdrop struct {
	Left, Top float64
	Blur      float64
}

// Overlay darkens everything below the dialogs.
type Overlay struct {
	Opacity float64
	Visible bool
	Color   colorful.Color
}

type dialogEntry struct {
	content  any
	onClosed func()
}

type Shell struct {
	cfg   Config
	curve easing.Func
	anim  *tween.Animator

	Content     Layer
	NextContent Layer
	Dialog      Layer
	NextDialog  Layer
	Background  Backdrop
	Dim         Overlay

	journal []any
	dialogs []dialogEntry
	active  *tween.Group
}

// New returns a shell showing home as its first page.
func New(anim *tween.Animator, cfg Config, home any) (*Shell, error) {
	if anim == nil {
		return nil, errors.New("shell: nil animator")
	}
	curve := cfg.Curve
	if curve == nil {
		fn, err := easing.Lookup(cfg.Easing)
		if err != nil {
			return nil, fmt.Errorf("shell: %w", err)
		}
		curve = fn
	}
	if cfg.Duration < 0 {
		return nil, fmt.Errorf("shell: %w", tween.ErrInvalidDuration)
	}

	s := &Shell{
		cfg:     cfg,
		curve:   curve,
		anim:    anim,
		Content: Layer{Opacity: 1, Content: home},
		Dim:     Overlay{Color: cfg.DimColor},
		journal: []any{home},
	}
	return s, nil
}

func (s *Shell) Config() Config { return s.cfg }

// Resize updates the slide distances used by later transitions.
func (s *Shell) Resize(w, h float64) {
	s.cfg.Width, s.cfg.Height = w, h
}

// Busy reports whether a transition is still running.
func (s *Shell) Busy() bool {
	return s.active != nil
}

// Page is the page at the top of the journal.
func (s *Shell) Page() any {
	return s.journal[len(s.journal)-1]
}

// Journal returns a copy of the navigation history, oldest first.
func (s *Shell) Journal() []any {
	return append([]any(nil), s.journal...)
}

// Dialogs returns a copy of the open dialogs, bottom first.
func (s *Shell) Dialogs() []any {
	out := make([]any, len(s.dialogs))
	for i, d := range s.dialogs {
		out[i] = d.content
	}
	return out
}

// DialogCount is the number of open dialogs.
func (s *Shell) DialogCount() int { return len(s.dialogs) }

// Cancel stops the running transition. Layers are settled as if it had
// finished.
func (s *Shell) Cancel() {
	if s.active != nil {
		s.active.Cancel()
	}
}

// begin registers g as the active transition and runs settle once it
// resolves.
func (s *Shell) begin(name string, g *tween.Group, settle func()) *tween.Group {
	s.active = g
	g.Then(func(err error) {
		if err != nil && !errors.Is(err, tween.ErrCanceled) {
			log.Printf("shell: %s: %v", name, err)
		}
		settle()
		s.active = nil
	})
	return g
}
