package paddle

import (
	"github.com/mo-shahab/poon/arena"
)

// Side is the goal line a paddle defends.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Paddle is a vertical bar. Y is its top edge; X follows from Side and Margin.
type Paddle struct {
	Side   Side
	Y      float64
	Width  float64
	Height float64
	Margin float64
}

// New returns a paddle vertically centred in a.
func New(side Side, width, height, margin float64, a arena.Arena) Paddle {
	return Paddle{
		Side:   side,
		Y:      (a.Height - height) / 2,
		Width:  width,
		Height: height,
		Margin: margin,
	}
}

func (p *Paddle) Bottom() float64 {
	return p.Y + p.Height
}

func (p *Paddle) CenterY() float64 {
	return p.Y + p.Height/2
}

// X is the left edge of the paddle.
func (p *Paddle) X(a arena.Arena) float64 {
	if p.Side == Left {
		return p.Margin
	}
	return a.Width - p.Margin - p.Width
}

// Face is the x coordinate of the edge that faces the court.
func (p *Paddle) Face(a arena.Arena) float64 {
	if p.Side == Left {
		return p.Margin + p.Width
	}
	return a.Width - p.Margin - p.Width
}

// MaxY is the lowest top edge that keeps the paddle inside a.
func (p *Paddle) MaxY(a arena.Arena) float64 {
	return a.Height - p.Height
}

func (p *Paddle) Clamp(a arena.Arena) {
	p.Y = arena.Clamp(p.Y, 0, p.MaxY(a))
}
