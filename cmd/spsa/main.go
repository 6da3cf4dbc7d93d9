// Command spsa previews a single sprite sheet.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/spriteshell/assets"
	"github.com/milk9111/spriteshell/clock"
	"github.com/milk9111/spriteshell/easing"
	"github.com/milk9111/spriteshell/render"
	"github.com/milk9111/spriteshell/sprite"
	"github.com/milk9111/spriteshell/spritesheet"
	"github.com/milk9111/spriteshell/tween"
)

const size = 512

type marker struct {
	x, y    float64
	opacity float64
}

type demoGame struct {
	clock   *clock.Manual
	anim    *tween.Animator
	sheet   *ebiten.Image
	sprite  *sprite.Sprite
	markers []*marker
	tick    time.Duration
}

func (g *demoGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sprite.Paused = !g.sprite.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) && g.sprite.Paused {
		g.sprite.SetFrame((g.sprite.CurrentFrame() + 1) % g.sprite.NumFrames())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.sprite.Loop = !g.sprite.Loop
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sprite.Reset()
	}
	g.clock.Advance(g.tick)

	live := g.markers[:0]
	for _, m := range g.markers {
		if m.opacity > 0 {
			live = append(live, m)
		}
	}
	g.markers = live
	return nil
}

// flash marks the effect point of ef and fades it out.
func (g *demoGame) flash(s *sprite.Sprite, ef spritesheet.EffectFrame) {
	geo := render.GeoM(s)
	x, y := geo.Apply(float64(ef.SourceX), float64(ef.SourceY))
	m := &marker{x: x, y: y, opacity: 1}
	if _, err := g.anim.Animate(func(v float64) { m.opacity = v }, 1, 0, 400*time.Millisecond, easing.QuadEaseOut); err != nil {
		log.Printf("spsa: %v", err)
		return
	}
	g.markers = append(g.markers, m)
}

func (g *demoGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x00, 0x00, 0x00, 0xff})
	render.Draw(screen, g.sheet, g.sprite)

	for _, m := range g.markers {
		c := color.NRGBA{R: 0xff, G: 0xd0, B: 0x30, A: uint8(m.opacity * 0xff)}
		vector.FillCircle(screen, float32(m.x), float32(m.y), 6, c, true)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  frame %d/%d  loops %d  loop=%v paused=%v\nSpace pause  -> step  L loop  R reset",
		g.sprite.Key(), g.sprite.CurrentFrame()+1, g.sprite.NumFrames(), g.sprite.Loops(), g.sprite.Loop, g.sprite.Paused))
}

func (g *demoGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return size, size
}

func loadSheet(path string) (spritesheet.Sheet, *ebiten.Image, error) {
	if _, err := os.Stat(path); err == nil {
		sheet, err := spritesheet.Load(path)
		if err != nil {
			return spritesheet.Sheet{}, nil, err
		}
		img, err := spritesheet.Decode(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return spritesheet.Sheet{}, nil, err
		}
		return sheet, ebiten.NewImageFromImage(img), nil
	}

	sheet, err := spritesheet.LoadFS(assets.Sheets(), filepath.Base(path))
	if err != nil {
		return spritesheet.Sheet{}, nil, err
	}
	img, err := assets.LoadImage(filepath.Join(assets.SheetDir, filepath.Base(path)))
	if err != nil {
		return spritesheet.Sheet{}, nil, err
	}
	return sheet, img, nil
}

func main() {
	scale := flag.Float64("scale", 4, "draw scale")
	frameMS := flag.Int("frame-ms", 0, "override the frame duration in milliseconds")
	flag.Parse()

	path := "hero_run.png"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	sheet, img, err := loadSheet(path)
	if err != nil {
		log.Fatal(err)
	}
	if *frameMS > 0 {
		sheet.Meta.FrameDuration = float32(*frameMS)
	}

	src := clock.NewManual()
	s, err := sprite.NewFactory(src).FromSheet(sheet)
	if err != nil {
		log.Fatal(err)
	}
	s.Loop = true
	s.SetScale(*scale, *scale)
	s.CanvasX, s.CanvasY = size/2, size/2+s.Height()*s.Origin().Y*(*scale)/2

	g := &demoGame{
		clock:  src,
		anim:   tween.NewAnimator(src),
		sheet:  img,
		sprite: s,
		tick:   time.Second / 60,
	}
	s.OnEffectFrame(g.flash)
	s.OnLoopCompleted(func(s *sprite.Sprite, loops uint32) {
		log.Printf("spsa: %s completed loop %d", s.Key(), loops)
	})

	ebiten.SetWindowSize(size, size)
	ebiten.SetWindowTitle("spsa: " + sheet.Meta.Key())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
