package sprite

// Container holds the sprite currently shown at one canvas slot. Its canvas
// properties are pushed onto whichever sprite is current, so swapping the
// sprite keeps position, layer and visibility.
type Container struct {
	current *Sprite

	canvasX, canvasY float64
	zIndex           int
	effectID         string
	visible          bool
}

func NewContainer() *Container {
	return &Container{visible: true}
}

func (c *Container) Current() *Sprite { return c.current }

// SetCurrent swaps the shown sprite. The previous sprite is returned and left
// untouched.
func (c *Container) SetCurrent(s *Sprite) *Sprite {
	prev := c.current
	c.current = s
	c.refresh()
	return prev
}

func (c *Container) Position() (x, y float64) { return c.canvasX, c.canvasY }

func (c *Container) SetPosition(x, y float64) {
	c.canvasX, c.canvasY = x, y
	c.refresh()
}

func (c *Container) ZIndex() int { return c.zIndex }

func (c *Container) SetZIndex(z int) {
	c.zIndex = z
	c.refresh()
}

func (c *Container) EffectID() string { return c.effectID }

func (c *Container) SetEffectID(id string) {
	c.effectID = id
	c.refresh()
}

func (c *Container) Visible() bool { return c.visible }

func (c *Container) SetVisible(v bool) {
	c.visible = v
	c.refresh()
}

func (c *Container) refresh() {
	s := c.current
	if s == nil {
		return
	}
	s.CanvasX = c.canvasX
	s.CanvasY = c.canvasY
	s.ZIndex = c.zIndex
	s.EffectID = c.effectID
	s.Visible = c.visible
}
