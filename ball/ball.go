package ball

import (
	"math"

	"github.com/mo-shahab/poon/arena"
)

// ball constants
const (
	SpinFactor = 0.15

	ServeMinDx    = 5.0
	ServeSpreadDx = 2.0
	ServeMinDy    = 3.0
	ServeSpreadDy = 2.0
)

// RandSource yields uniform draws in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// Ball is positioned by the top-left corner of its bounding box.
type Ball struct {
	X, Y   float64
	Dx, Dy float64
	Size   float64
}

func (b *Ball) Move() {
	b.X += b.Dx
	b.Y += b.Dy
}

func (b *Ball) Right() float64 {
	return b.X + b.Size
}

func (b *Ball) Bottom() float64 {
	return b.Y + b.Size
}

func (b *Ball) CenterY() float64 {
	return b.Y + b.Size/2
}

// BounceWalls flips Dy when the ball touches the top or bottom wall and pulls
// it back inside. The clamp follows the flip on the same tick's position.
func (b *Ball) BounceWalls(a arena.Arena) bool {
	if b.Y > 0 && b.Bottom() < a.Height {
		return false
	}

	b.Dy = -b.Dy
	b.Y = arena.Clamp(b.Y, 0, a.Height-b.Size)
	return true
}

// Deflect sends the ball away from a paddle spanning [top, top+height].
// direction is +1 for away from the left paddle, -1 for away from the right.
// Only the sign of Dx changes so speed picked up earlier is kept.
func (b *Ball) Deflect(top, height, direction float64) {
	b.Dx = direction * math.Abs(b.Dx)

	hitPos := b.CenterY() - (top + height/2)
	b.Dy += hitPos * SpinFactor
}

// Reset serves the ball from the centre of the arena toward directionX.
func (b *Ball) Reset(a arena.Arena, directionX int, rng RandSource) {
	b.X = a.CenterX() - b.Size/2
	b.Y = a.CenterY() - b.Size/2

	sign := 1.0
	if directionX < 0 {
		sign = -1.0
	}
	b.Dx = sign * (ServeMinDx + rng.Float64()*ServeSpreadDx)

	vertical := -1.0
	if rng.Float64() > 0.5 {
		vertical = 1.0
	}
	b.Dy = vertical * (ServeMinDy + rng.Float64()*ServeSpreadDy)
}
