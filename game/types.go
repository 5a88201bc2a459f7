package game

import (
	"fmt"

	"github.com/mo-shahab/poon/arena"
	"github.com/mo-shahab/poon/ball"
	"github.com/mo-shahab/poon/config"
	"github.com/mo-shahab/poon/paddle"
	"github.com/mo-shahab/poon/scores"
)

// RandSource feeds the serve after a goal.
type RandSource = ball.RandSource

// Events records what happened during one tick.
type Events uint32

const (
	LeftHit Events = 1 << iota
	RightHit
	LeftScored
	RightScored
	WallBounce
)

func (e Events) Has(flag Events) bool {
	return e&flag != 0
}

// World is the whole state of one session. Player defends the left goal line
// and follows the pointer, Agent defends the right and tracks the ball.
type World struct {
	Arena  arena.Arena
	Ball   ball.Ball
	Player paddle.Paddle
	Agent  paddle.Paddle
	Scores scores.Scores
	Tick   uint64
}

// NewWorld lays out a fresh session: paddles centred, ball centred and moving
// with the configured first serve.
func NewWorld(g config.Game) (*World, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("cannot create world: %w", err)
	}

	a := arena.Arena{Width: g.Width, Height: g.Height}
	return &World{
		Arena: a,
		Ball: ball.Ball{
			X:    a.CenterX() - g.BallSize/2,
			Y:    a.CenterY() - g.BallSize/2,
			Dx:   g.ServeDx,
			Dy:   g.ServeDy,
			Size: g.BallSize,
		},
		Player: paddle.New(paddle.Left, g.PaddleWidth, g.PaddleHeight, g.PaddleMargin, a),
		Agent:  paddle.New(paddle.Right, g.PaddleWidth, g.PaddleHeight, g.PaddleMargin, a),
	}, nil
}

// Snapshot returns a copy that render collaborators can read freely.
func (w *World) Snapshot() World {
	return *w
}
