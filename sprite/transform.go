package sprite

import "math"

// Scale returns the signed scale factors. A flipped axis has a negative
// factor.
func (s *Sprite) Scale() (x, y float64) { return s.scaleX, s.scaleY }

// SetScale sets the scale factors. The sign of each axis is then forced to
// match the current flip state.
func (s *Sprite) SetScale(x, y float64) {
	s.scaleX, s.scaleY = x, y
	s.applyFlip()
}

func (s *Sprite) FlipHorizontal() bool { return s.flipH }
func (s *Sprite) FlipVertical() bool   { return s.flipV }

func (s *Sprite) SetFlipHorizontal(flip bool) {
	s.flipH = flip
	s.applyFlip()
}

func (s *Sprite) SetFlipVertical(flip bool) {
	s.flipV = flip
	s.applyFlip()
}

// applyFlip negates an axis only when its sign disagrees with the flip flag,
// so setting the same flip twice changes nothing.
func (s *Sprite) applyFlip() {
	if (s.scaleX > 0 && s.flipH) || (s.scaleX < 0 && !s.flipH) {
		s.scaleX = -s.scaleX
	}
	if (s.scaleY > 0 && s.flipV) || (s.scaleY < 0 && !s.flipV) {
		s.scaleY = -s.scaleY
	}
	s.recalculate()
}

// recalculate keeps the origin point fixed under scaling.
func (s *Sprite) recalculate() {
	s.offsetX = -s.clip.W * s.origin.X * s.scaleX
	s.offsetY = -s.clip.H * s.origin.Y * s.scaleY
}

// Offset is the translation that places the origin at the canvas position.
func (s *Sprite) Offset() (x, y float64) { return s.offsetX, s.offsetY }

func (s *Sprite) Origin() Point { return s.origin }

// Center is the origin in clip pixels, the pivot for rotation.
func (s *Sprite) Center() Point {
	return Point{X: s.origin.X * s.width, Y: s.origin.Y * s.height}
}

func (s *Sprite) ProjectileTarget() Point { return s.projectileTarget }

// ProjectileTargetOffset is the projectile target relative to the origin, in
// clip pixels.
func (s *Sprite) ProjectileTargetOffset() Point {
	return Point{
		X: (s.projectileTarget.X - s.origin.X) * s.width,
		Y: (s.projectileTarget.Y - s.origin.Y) * s.height,
	}
}

// Angle is the rotation in degrees, clockwise on screen.
func (s *Sprite) Angle() float64 { return s.angle }

func (s *Sprite) SetAngle(deg float64) { s.angle = deg }

// Rotate turns the sprite to face direction, given in math space (Y up).
func (s *Sprite) Rotate(dx, dy float64) {
	s.angle = angleBetween(dx, dy, 1, 0)
}

// RotateToFace turns the sprite toward the screen point (x, y). Screen Y
// grows downward, so the Y component is inverted first.
func (s *Sprite) RotateToFace(x, y float64) {
	s.Rotate(x-s.CanvasX, s.CanvasY-y)
}

// angleBetween is the signed angle in degrees that turns (ax, ay) onto
// (bx, by).
func angleBetween(ax, ay, bx, by float64) float64 {
	cross := ax*by - ay*bx
	dot := ax*bx + ay*by
	return math.Atan2(cross, dot) * 180 / math.Pi
}
