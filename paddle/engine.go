package paddle

import (
	"github.com/mo-shahab/poon/arena"
	"github.com/mo-shahab/poon/ball"
)

// agent constants
const (
	AgentSpeed = 5.0
)

// FromPointer converts a raw pointer y into a clamped paddle top. It holds no
// state and may be called at any cadence.
func FromPointer(rawY, height float64, a arena.Arena) float64 {
	return arena.Clamp(rawY-height/2, 0, a.Height-height)
}

// Track moves the paddle one fixed step toward centring itself on the ball.
// There is no easing, so the paddle may jitter by up to a step around the
// target.
func (p *Paddle) Track(b *ball.Ball, a arena.Arena) {
	target := b.CenterY() - p.Height/2

	if p.Y < target {
		p.Y += AgentSpeed
	} else if p.Y > target {
		p.Y -= AgentSpeed
	}

	p.Clamp(a)
}

// Hits reports whether b has reached the paddle's face while overlapping its
// vertical span. The overlap is open on both ends.
func (p *Paddle) Hits(b *ball.Ball, a arena.Arena) bool {
	if b.Bottom() <= p.Y || b.Y >= p.Bottom() {
		return false
	}

	if p.Side == Left {
		return b.X <= p.Face(a)
	}
	return b.Right() >= p.Face(a)
}

// HandleCollision deflects b off the paddle with spin when they touch.
func (p *Paddle) HandleCollision(b *ball.Ball, a arena.Arena) bool {
	if !p.Hits(b, a) {
		return false
	}

	direction := 1.0
	if p.Side == Right {
		direction = -1.0
	}
	b.Deflect(p.Y, p.Height, direction)
	return true
}
