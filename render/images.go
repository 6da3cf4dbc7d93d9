package render

import (
	"image"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spriteshell/sheets"
	"golang.org/x/image/draw"
)

// Images caches decoded sheet images on the GPU, keyed like the library.
type Images struct {
	lib *sheets.Library

	mu       sync.Mutex
	cache    map[string]*ebiten.Image
	sources  map[string]image.Image
	outlines map[outlineKey]*ebiten.Image
}

func NewImages(lib *sheets.Library) *Images {
	return &Images{
		lib:      lib,
		cache:    make(map[string]*ebiten.Image),
		sources:  make(map[string]image.Image),
		outlines: make(map[outlineKey]*ebiten.Image),
	}
}

// Get returns the image for key, decoding it on first use.
func (c *Images) Get(key string) (*ebiten.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.cache[key]; ok {
		return img, nil
	}
	src, err := c.source(key)
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(src)
	c.cache[key] = img
	return img, nil
}

// source returns the decoded sheet for key. c.mu must be held.
func (c *Images) source(key string) (image.Image, error) {
	if src, ok := c.sources[key]; ok {
		return src, nil
	}
	e, err := c.lib.Lookup(key)
	if err != nil {
		return nil, err
	}
	src, err := e.Image()
	if err != nil {
		return nil, err
	}
	c.sources[key] = src
	return src, nil
}

// Invalidate drops key so the next Get decodes it again.
func (c *Images) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.cache[key]; ok {
		img.Deallocate()
		delete(c.cache, key)
	}
	delete(c.sources, key)
	for k, img := range c.outlines {
		if k.key == key {
			img.Deallocate()
			delete(c.outlines, k)
		}
	}
}

// Blur approximates a blur of the given radius by shrinking src and scaling
// it back up with bilinear filtering.
func Blur(src image.Image, radius float64) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if radius < 1 || b.Empty() {
		draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
		return out
	}
	factor := 1 + radius/4
	w := max(1, int(math.Round(float64(b.Dx())/factor)))
	h := max(1, int(math.Round(float64(b.Dy())/factor)))
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), src, b, draw.Src, nil)
	draw.BiLinear.Scale(out, out.Bounds(), small, small.Bounds(), draw.Src, nil)
	return out
}

// Backdrop holds a background image and its blurred variants. Radii are
// rounded to whole pixels so a transition only builds a handful of images.
type Backdrop struct {
	src    image.Image
	mu     sync.Mutex
	frames map[int]*ebiten.Image
}

func NewBackdrop(src image.Image) *Backdrop {
	return &Backdrop{src: src, frames: make(map[int]*ebiten.Image)}
}

func (b *Backdrop) Image(radius float64) *ebiten.Image {
	r := int(math.Round(radius))
	if r < 0 {
		r = 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if img, ok := b.frames[r]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(Blur(b.src, float64(r)))
	b.frames[r] = img
	return img
}
