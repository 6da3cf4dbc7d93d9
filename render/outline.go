package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spriteshell/sprite"
)

// OutlineColor is used by Images.Outline.
var OutlineColor = color.NRGBA{R: 0xff, G: 0xd0, B: 0x30, A: 0xff}

// Outline returns an image the size of r where every transparent pixel
// within thickness of an opaque pixel of src is set to c.
func Outline(src image.Image, r image.Rectangle, thickness int, c color.Color) *image.NRGBA {
	r = r.Intersect(src.Bounds())
	w, h := r.Dx(), r.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	opaque := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := src.At(r.Min.X+x, r.Min.Y+y).RGBA()
			opaque[y*w+x] = a != 0
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if opaque[y*w+x] {
				continue
			}
		search:
			for yy := max(0, y-thickness); yy <= min(h-1, y+thickness); yy++ {
				for xx := max(0, x-thickness); xx <= min(w-1, x+thickness); xx++ {
					if opaque[yy*w+xx] {
						out.Set(x, y, c)
						break search
					}
				}
			}
		}
	}
	return out
}

type outlineKey struct {
	key  string
	clip image.Rectangle
}

// Outline returns the cached outline of one clip of the sheet under key.
func (c *Images) Outline(key string, clip image.Rectangle) (*ebiten.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := outlineKey{key, clip}
	if img, ok := c.outlines[k]; ok {
		return img, nil
	}
	src, err := c.source(key)
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(Outline(src, clip, 1, OutlineColor))
	c.outlines[k] = img
	return img, nil
}

// DrawOutline draws outline over the current clip of s.
func DrawOutline(dst, outline *ebiten.Image, s *sprite.Sprite) {
	if dst == nil || outline == nil || s == nil || !s.Visible || s.Opacity <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = GeoM(s)
	op.ColorScale.ScaleAlpha(float32(s.Opacity))
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(outline, op)
}
