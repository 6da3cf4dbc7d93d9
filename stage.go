package main

import (
	"image"
	"image/color"
	"log"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/milk9111/spriteshell/config"
	"github.com/milk9111/spriteshell/render"
	"github.com/milk9111/spriteshell/sprite"
	"golang.org/x/image/colornames"
)

// stage is the set of sprites shown on one page.
type stage struct {
	name       string
	keys       map[string]bool
	containers []*sprite.Container
	sprites    []*sprite.Sprite
	canvas     *ebiten.Image
	aiming     bool
}

func (g *Game) stageFor(content any) *stage {
	name, ok := content.(string)
	if !ok || name == "" {
		return nil
	}
	if st, ok := g.stages[name]; ok {
		return st
	}
	st := g.buildStage(name)
	g.stages[name] = st
	return st
}

func (g *Game) currentStage() *stage {
	return g.stageFor(g.shell.Content.Content)
}

// dropStages discards every stage showing key so it is rebuilt from the
// reloaded sheet.
func (g *Game) dropStages(key string) {
	for name, st := range g.stages {
		if st.keys[key] || name == key {
			st.detach()
			delete(g.stages, name)
		}
	}
}

func (g *Game) buildStage(name string) *stage {
	st := &stage{
		name:   name,
		keys:   make(map[string]bool),
		canvas: ebiten.NewImage(int(g.width), int(g.height)),
	}
	if name == overviewPage {
		for i, spec := range g.cfg.Sprites {
			g.addSprite(st, spec, i)
		}
		return st
	}

	e, ok := g.library.Get(name)
	if !ok {
		return st
	}
	frameH := float64(e.Sheet.Height) / float64(max(1, e.Sheet.Meta.NumFrameRows))
	scale := math.Max(1, math.Floor(g.height*0.5/math.Max(1, frameH)))
	g.addSprite(st, config.SpriteSpec{
		Sheet: name,
		X:     g.width / 2,
		Y:     g.height * 0.7,
		Scale: scale,
	}, 0)
	return st
}

func (g *Game) addSprite(st *stage, spec config.SpriteSpec, z int) {
	e, err := g.library.Lookup(spec.Sheet)
	if err != nil {
		log.Printf("game: stage %s: %v", st.name, err)
		return
	}
	s, err := g.factory.FromSheet(e.Sheet)
	if err != nil {
		log.Printf("game: stage %s: %v", st.name, err)
		return
	}
	s.Loop = spec.Looping()
	s.Paused = spec.Paused
	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}
	s.SetScale(scale, scale)
	s.SetFlipHorizontal(spec.FlipH)
	s.SetFlipVertical(spec.FlipV)
	g.events.Bind(s)

	c := sprite.NewContainer()
	c.SetCurrent(s)
	c.SetPosition(spec.X, spec.Y)
	c.SetZIndex(z)
	c.SetEffectID(spec.Sheet)

	st.keys[spec.Sheet] = true
	st.containers = append(st.containers, c)
	st.sprites = append(st.sprites, s)
}

func (st *stage) draw(g *Game) *ebiten.Image {
	st.canvas.Clear()
	render.DrawAll(st.canvas, st.sprites, func(key string) *ebiten.Image {
		img, err := g.images.Get(key)
		if err != nil {
			return nil
		}
		return img
	})
	if st.aiming {
		for _, s := range st.sprites {
			if o, err := g.images.Outline(s.Key(), s.Clip().Image()); err == nil {
				render.DrawOutline(st.canvas, o, s)
			}
		}
	}
	return st.canvas
}

func (st *stage) reset() {
	for _, s := range st.sprites {
		s.Reset()
	}
}

func (st *stage) flip() {
	for _, s := range st.sprites {
		s.SetFlipHorizontal(!s.FlipHorizontal())
	}
}

func (st *stage) face(x, y float64) {
	st.aiming = true
	for _, s := range st.sprites {
		s.RotateToFace(x, y)
	}
}

func (st *stage) straighten() {
	st.aiming = false
	for _, s := range st.sprites {
		s.SetAngle(0)
	}
}

func (st *stage) detach() {
	for _, s := range st.sprites {
		s.Detach()
		s.ClearHandlers()
	}
	st.canvas.Deallocate()
}

func newBackdropImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	top, _ := colorful.MakeColor(colornames.Midnightblue)
	bottom, _ := colorful.MakeColor(colornames.Darkslateblue)
	hill, _ := colorful.MakeColor(colornames.Darkslategray)

	for y := 0; y < h; y++ {
		sky := top.BlendHcl(bottom, float64(y)/float64(h)).Clamped()
		for x := 0; x < w; x++ {
			phase := 2 * math.Pi * float64(x) / float64(w)
			ridge := float64(h) * (0.72 + 0.06*math.Sin(3*phase) + 0.03*math.Sin(7*phase+1))
			c := sky
			if float64(y) > ridge {
				c = hill.BlendLab(bottom, 0.25*(float64(h)-float64(y))/float64(h)).Clamped()
			} else if star(x, y) {
				c = sky.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.8)
			}
			r, g, b := c.RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return img
}

func star(x, y int) bool {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	return h%997 == 0
}

func wrap(v, size float64) float64 {
	if size <= 0 {
		return 0
	}
	m := math.Mod(v, size)
	if m < 0 {
		m += size
	}
	return m
}

func existingDirs(dirs []string) []string {
	var out []string
	for _, d := range dirs {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			out = append(out, d)
		}
	}
	return out
}
