// Package render draws sprites and shell layers with ebiten.
package render

import (
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/spriteshell/shell"
	"github.com/milk9111/spriteshell/sprite"
)

// GeoM maps clip pixels of s to the canvas. The sprite origin lands on its
// canvas position and rotation pivots around it.
func GeoM(s *sprite.Sprite) ebiten.GeoM {
	var g ebiten.GeoM
	sx, sy := s.Scale()
	g.Scale(sx, sy)
	ox, oy := s.Offset()
	g.Translate(ox, oy)
	g.Rotate(s.Angle() * math.Pi / 180)
	g.Translate(s.CanvasX, s.CanvasY)
	return g
}

// Draw renders the current clip of s from sheet onto dst.
func Draw(dst, sheet *ebiten.Image, s *sprite.Sprite) {
	if dst == nil || sheet == nil || s == nil || !s.Visible || s.Opacity <= 0 {
		return
	}
	img := sheet
	clip := s.Clip().Image()
	if !clip.Empty() {
		if sub, ok := sheet.SubImage(clip).(*ebiten.Image); ok {
			img = sub
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM = GeoM(s)
	op.ColorScale.ScaleAlpha(float32(s.Opacity))
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(img, op)
}

// Sorted orders sprites by ZIndex, then by id.
func Sorted(sprites []*sprite.Sprite) []*sprite.Sprite {
	out := append([]*sprite.Sprite(nil), sprites...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ZIndex != out[j].ZIndex {
			return out[i].ZIndex < out[j].ZIndex
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}

// DrawAll draws sprites back to front. sheet resolves the image for a sprite
// key; sprites without one are skipped.
func DrawAll(dst *ebiten.Image, sprites []*sprite.Sprite, sheet func(key string) *ebiten.Image) {
	for _, s := range Sorted(sprites) {
		if img := sheet(s.Key()); img != nil {
			Draw(dst, img, s)
		}
	}
}

// LayerOptions positions and fades a shell layer, offset by (x, y).
func LayerOptions(l shell.Layer, x, y float64) *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(l.Left+x, l.Top+y)
	op.ColorScale.ScaleAlpha(float32(l.Opacity))
	return op
}

// DrawLayer draws img as the content of l.
func DrawLayer(dst, img *ebiten.Image, l shell.Layer) {
	if img == nil || l.Opacity <= 0 {
		return
	}
	dst.DrawImage(img, LayerOptions(l, 0, 0))
}

// DrawOverlay fills dst with the dim colour at the overlay opacity.
func DrawOverlay(dst *ebiten.Image, o shell.Overlay) {
	if !o.Visible || o.Opacity <= 0 {
		return
	}
	r, g, b := o.Color.Clamped().RGB255()
	a := uint8(math.Round(clamp01(o.Opacity) * 0xb0))
	c := color.NRGBA{R: r, G: g, B: b, A: a}
	bounds := dst.Bounds()
	vector.FillRect(dst, float32(bounds.Min.X), float32(bounds.Min.Y),
		float32(bounds.Dx()), float32(bounds.Dy()), c, false)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
