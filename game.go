package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spriteshell/assets"
	"github.com/milk9111/spriteshell/clock"
	"github.com/milk9111/spriteshell/config"
	"github.com/milk9111/spriteshell/render"
	"github.com/milk9111/spriteshell/sheets"
	"github.com/milk9111/spriteshell/shell"
	"github.com/milk9111/spriteshell/sprite"
	"github.com/milk9111/spriteshell/tween"
)

const (
	overviewPage = "overview"
	maxEventLog  = 6
)

type Game struct {
	cfg    *config.Config
	width  float64
	height float64
	tick   time.Duration

	clock   *clock.Manual
	sprites *clock.Scaled
	factory *sprite.Factory
	events  sprite.Queue

	library *sheets.Library
	images  *render.Images
	watcher *sheets.Watcher

	shell       *shell.Shell
	backdrop    *render.Backdrop
	stages      map[string]*stage
	dialogViews map[infoDialog]*dialogView

	eventLog []string
	frames   int
}

func NewGame(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		width:  float64(cfg.Window.Width),
		height: float64(cfg.Window.Height),
		tick:   cfg.Clock.Interval(),
		clock:  clock.NewManual(),
		stages: make(map[string]*stage),

		dialogViews: make(map[infoDialog]*dialogView),
	}
	g.sprites = clock.NewScaled(g.clock, cfg.Clock.Scale)
	g.sprites.Resume()
	g.factory = sprite.NewFactory(g.sprites)

	g.library = sheets.New(assets.Sheets(), cfg.Sheets.Dirs...)
	n, err := g.library.LoadAll()
	if err != nil {
		log.Printf("game: some sheets failed to load: %v", err)
	}
	if n == 0 {
		return nil, errors.New("game: no sprite sheets found")
	}
	log.Printf("game: loaded %d sheets (%s)", n, strings.Join(g.library.Keys(), ", "))
	g.images = render.NewImages(g.library)

	if cfg.Sheets.Watch {
		if dirs := existingDirs(cfg.Sheets.Dirs); len(dirs) > 0 {
			w, err := sheets.NewWatcher(cfg.Sheets.Debounce(), dirs...)
			if err != nil {
				log.Printf("game: hot reload disabled: %v", err)
			} else {
				g.watcher = w
			}
		}
	}

	table, err := cfg.Easing.Table()
	if err != nil {
		return nil, err
	}
	shellCfg, err := cfg.Shell.Build(table, g.width, g.height)
	if err != nil {
		return nil, err
	}
	g.shell, err = shell.New(tween.NewAnimator(g.clock), shellCfg, overviewPage)
	if err != nil {
		return nil, err
	}

	g.backdrop = render.NewBackdrop(newBackdropImage(cfg.Window.Width, cfg.Window.Height))
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	for _, st := range g.stages {
		st.detach()
	}
	g.sprites.Close()
}

func (g *Game) Update() error {
	g.frames++

	g.reloadChanged()
	g.handleInput()
	g.updateDialog()

	g.clock.Advance(g.tick)
	if !g.shell.Busy() {
		g.dropDialogViews()
	}

	for _, evt := range g.events.Drain() {
		g.logEvent(evt)
	}
	return nil
}

func (g *Game) handleInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.transition(g.shell.NavigateForward(g.nextPage()))
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.transition(g.shell.NavigateBack())
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		page, _ := g.shell.Page().(string)
		d := infoDialog{page: page, depth: g.shell.DialogCount() + 1}
		g.transition(g.shell.ShowDialog(d, func() {
			log.Printf("game: closed dialog %d", d.depth)
		}))
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.transition(g.shell.CloseDialog())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.sprites.Running() {
			g.sprites.Pause()
		} else {
			g.sprites.Resume()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.sprites.SetScale(min(g.sprites.Scale()*2, 8))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.sprites.SetScale(max(g.sprites.Scale()/2, 0.125))
	}

	st := g.currentStage()
	if st == nil {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		st.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		st.flip()
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		x, y := ebiten.CursorPosition()
		st.face(float64(x), float64(y))
	} else if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		st.straighten()
	}
}

// transition reports failed shell requests. ErrBusy is expected while keys
// are mashed and stays quiet.
func (g *Game) transition(_ *tween.Group, err error) {
	if err == nil || errors.Is(err, shell.ErrBusy) {
		return
	}
	log.Printf("game: %v", err)
}

// nextPage cycles through the overview and every sheet key.
func (g *Game) nextPage() string {
	pages := append([]string{overviewPage}, g.library.Keys()...)
	current, _ := g.shell.Page().(string)
	for i, p := range pages {
		if p == current {
			return pages[(i+1)%len(pages)]
		}
	}
	return pages[0]
}

func (g *Game) reloadChanged() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			change, err := g.library.Reload(path)
			if err != nil {
				log.Printf("game: reload %s: %v", path, err)
				continue
			}
			log.Printf("game: reloaded %s (removed=%v)", change.Key, change.Removed)
			g.images.Invalidate(change.Key)
			g.dropStages(change.Key)
			if change.Previous != "" {
				g.images.Invalidate(change.Previous)
				g.dropStages(change.Previous)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("game: watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) logEvent(evt sprite.Event) {
	var line string
	switch evt.Kind {
	case sprite.EventEffectFrame:
		line = fmt.Sprintf("%s effect @%d (%.0f,%.0f)", evt.Sprite.Key(), evt.Effect.Index, evt.Effect.SourceX, evt.Effect.SourceY)
	case sprite.EventLoopCompleted:
		line = fmt.Sprintf("%s loop %d", evt.Sprite.Key(), evt.Loops)
	}
	g.eventLog = append(g.eventLog, line)
	if len(g.eventLog) > maxEventLog {
		g.eventLog = g.eventLog[len(g.eventLog)-maxEventLog:]
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackdrop(screen)

	if st := g.stageFor(g.shell.NextContent.Content); st != nil {
		render.DrawLayer(screen, st.draw(g), g.shell.NextContent)
	}
	if st := g.stageFor(g.shell.Content.Content); st != nil {
		render.DrawLayer(screen, st.draw(g), g.shell.Content)
	}

	render.DrawOverlay(screen, g.shell.Dim)
	g.drawDialog(screen, g.shell.NextDialog)
	g.drawDialog(screen, g.shell.Dialog)

	state := "playing"
	if !g.sprites.Running() {
		state = "paused"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  page: %v  %s x%.3g\n<-/-> pages  D dialog  Esc close  Space pause  Up/Down speed  R reset  F flip",
		ebiten.ActualFPS(), g.shell.Page(), state, g.sprites.Scale()))
	for i, line := range g.eventLog {
		ebitenutil.DebugPrintAt(screen, line, 8, int(g.height)-16*(len(g.eventLog)-i)-4)
	}
}

func (g *Game) drawBackdrop(screen *ebiten.Image) {
	img := g.backdrop.Image(g.shell.Background.Blur)
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	x := wrap(g.shell.Background.Left, w)
	y := wrap(g.shell.Background.Top, h)
	for _, dx := range []float64{x - w, x} {
		for _, dy := range []float64{y - h, y} {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(dx, dy)
			screen.DrawImage(img, op)
		}
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.width, g.height
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
