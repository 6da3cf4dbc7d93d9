package shell

import (
	"fmt"
	"time"

	"github.com/milk9111/spriteshell/easing"
	"github.com/milk9111/spriteshell/tween"
)

// batch collects the runs of one transition. The first failure cancels
// everything already started.
type batch struct {
	anim  *tween.Animator
	curve easing.Func
	runs  []tween.Completion
	err   error
}

func (b *batch) add(sink tween.Sink, from, to float64, d time.Duration) {
	if b.err != nil {
		return
	}
	r, err := b.anim.AnimateFunc(sink, from, to, d, b.curve)
	if err != nil {
		b.err = err
		return
	}
	b.runs = append(b.runs, r)
}

func (b *batch) join() (*tween.Group, error) {
	if b.err != nil {
		for _, r := range b.runs {
			r.Cancel()
		}
		return nil, b.err
	}
	return tween.All(b.runs...), nil
}

func (s *Shell) batch() *batch {
	return &batch{anim: s.anim, curve: s.curve}
}

// NavigateForward slides page in from the right and pushes it onto the
// journal once the transition settles.
func (s *Shell) NavigateForward(page any) (*tween.Group, error) {
	if s.Busy() {
		return nil, ErrBusy
	}
	g, err := s.pageTransition(page, true, func() {
		s.journal = append(s.journal, page)
	})
	if err != nil {
		return nil, fmt.Errorf("shell: navigate forward: %w", err)
	}
	return g, nil
}

// NavigateBack pops the journal and slides the previous page in from the
// left.
func (s *Shell) NavigateBack() (*tween.Group, error) {
	if s.Busy() {
		return nil, ErrBusy
	}
	if len(s.journal) < 2 {
		return nil, ErrJournalEmpty
	}
	n := len(s.journal)
	g, err := s.pageTransition(s.journal[n-2], false, func() {
		s.journal = s.journal[:n-1]
	})
	if err != nil {
		return nil, fmt.Errorf("shell: navigate back: %w", err)
	}
	return g, nil
}

func (s *Shell) pageTransition(page any, forward bool, done func()) (*tween.Group, error) {
	parallax := s.cfg.HorizontalParallax
	currentTo, nextFrom := -s.cfg.Width, s.cfg.Width
	if !forward {
		parallax = -parallax
		currentTo, nextFrom = s.cfg.Width, -s.cfg.Width
	}

	s.NextContent = Layer{Left: nextFrom, Opacity: 0, Content: page}
	bgFrom := s.Background.Left
	bgTo := bgFrom - parallax
	d := s.cfg.Duration

	b := s.batch()
	b.add(func(v float64) { s.Content.Left = v }, s.Content.Left, currentTo, d)
	b.add(func(v float64) { s.Content.Opacity = v }, 1, 0, d/2)
	b.add(func(v float64) { s.NextContent.Left = v }, nextFrom, 0, d)
	b.add(func(v float64) { s.NextContent.Opacity = v }, 0, 1, d)
	b.add(func(v float64) { s.Background.Left = v }, bgFrom, bgTo, d)
	g, err := b.join()
	if err != nil {
		s.NextContent = Layer{}
		return nil, err
	}

	return s.begin("page transition", g, func() {
		s.NextContent = Layer{}
		s.Content = Layer{Opacity: 1, Content: page}
		s.Background.Left = bgTo
		if done != nil {
			done()
		}
	}), nil
}

// ShowDialog slides dialog down over the current one. The first dialog also
// blurs the background and fades in the dim overlay. onClosed, if set, runs
// after the dialog has been dismissed.
func (s *Shell) ShowDialog(dialog any, onClosed func()) (*tween.Group, error) {
	if s.Busy() {
		return nil, ErrBusy
	}
	entry := dialogEntry{content: dialog, onClosed: onClosed}
	g, err := s.dialogTransition(dialog, true, func() {
		s.dialogs = append(s.dialogs, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("shell: show dialog: %w", err)
	}
	return g, nil
}

// CloseDialog dismisses the top dialog. With more than one open the previous
// dialog slides back in from below; otherwise the overlay is cleared.
func (s *Shell) CloseDialog() (*tween.Group, error) {
	if s.Busy() {
		return nil, ErrBusy
	}
	n := len(s.dialogs)
	if n == 0 {
		return nil, ErrNoDialog
	}
	top := s.dialogs[n-1]
	pop := func() {
		s.dialogs = s.dialogs[:n-1]
		if top.onClosed != nil {
			top.onClosed()
		}
	}

	var (
		g   *tween.Group
		err error
	)
	if n == 1 {
		g, err = s.dismissDialog(pop)
	} else {
		g, err = s.dialogTransition(s.dialogs[n-2].content, false, pop)
	}
	if err != nil {
		return nil, fmt.Errorf("shell: close dialog: %w", err)
	}
	return g, nil
}

func (s *Shell) dialogTransition(dialog any, forward bool, done func()) (*tween.Group, error) {
	parallax := s.cfg.VerticalParallax
	currentTo, nextFrom := s.cfg.Height, -s.cfg.Height
	if !forward {
		parallax = -parallax
		currentTo, nextFrom = -s.cfg.Height, s.cfg.Height
	}

	s.NextDialog = Layer{Top: nextFrom, Opacity: 1, Content: dialog}
	bgFrom := s.Background.Top
	bgTo := bgFrom - parallax
	d := s.cfg.Duration

	b := s.batch()
	darken := len(s.dialogs) == 0
	if darken {
		s.Dim.Visible = true
		b.add(func(v float64) { s.Background.Blur = v }, 0, s.cfg.BlurRadius, d)
		b.add(func(v float64) { s.Dim.Opacity = v }, 0, 1, d)
	}
	b.add(func(v float64) { s.Dialog.Top = v }, 0, currentTo, d)
	b.add(func(v float64) { s.Dialog.Opacity = v }, 1, 0, d)
	b.add(func(v float64) { s.NextDialog.Top = v }, nextFrom, 0, d)
	b.add(func(v float64) { s.NextDialog.Opacity = v }, 0, 1, d)
	b.add(func(v float64) { s.Background.Top = v }, bgFrom, bgTo, d)
	g, err := b.join()
	if err != nil {
		s.NextDialog = Layer{}
		if darken {
			s.Dim.Visible = false
		}
		return nil, err
	}

	return s.begin("dialog transition", g, func() {
		s.NextDialog = Layer{}
		s.Dialog = Layer{Opacity: 1, Content: dialog}
		s.Background.Top = bgTo
		if darken {
			s.Background.Blur = s.cfg.BlurRadius
			s.Dim.Opacity = 1
		}
		if done != nil {
			done()
		}
	}), nil
}

func (s *Shell) dismissDialog(done func()) (*tween.Group, error) {
	bgFrom := s.Background.Top
	bgTo := bgFrom + s.cfg.VerticalParallax
	d := s.cfg.Duration

	b := s.batch()
	b.add(func(v float64) { s.Background.Blur = v }, s.Background.Blur, 0, d)
	b.add(func(v float64) { s.Dim.Opacity = v }, s.Dim.Opacity, 0, d)
	b.add(func(v float64) { s.Dialog.Top = v }, 0, -s.cfg.Height, d)
	b.add(func(v float64) { s.Dialog.Opacity = v }, 1, 0, d)
	b.add(func(v float64) { s.Background.Top = v }, bgFrom, bgTo, d)
	g, err := b.join()
	if err != nil {
		return nil, err
	}

	return s.begin("dismiss dialog", g, func() {
		s.Background.Blur = 0
		s.Background.Top = bgTo
		s.Dim = Overlay{Color: s.cfg.DimColor}
		s.Dialog = Layer{}
		if done != nil {
			done()
		}
	}), nil
}
