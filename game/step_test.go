package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/mo-shahab/poon/config"
)

// seqRand returns its values in order, wrapping around.
type seqRand struct {
	values []float64
	next   int
}

func (s *seqRand) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(config.DefaultGame())
	if err != nil {
		t.Fatalf("Failed to create world: %v", err)
	}
	return w
}

func TestNewWorldLayout(t *testing.T) {
	w := newTestWorld(t)

	if w.Ball.X != 392 || w.Ball.Y != 242 {
		t.Errorf("Expected ball at (392,242), got (%v,%v)", w.Ball.X, w.Ball.Y)
	}
	if w.Ball.Dx != 6 || w.Ball.Dy != 4 {
		t.Errorf("Expected serve (6,4), got (%v,%v)", w.Ball.Dx, w.Ball.Dy)
	}
	if w.Player.Y != 200 || w.Agent.Y != 200 {
		t.Errorf("Expected both paddles at 200, got %v and %v", w.Player.Y, w.Agent.Y)
	}
}

func TestNewWorldRejectsDegenerate(t *testing.T) {
	g := config.DefaultGame()
	g.Height = 0
	if _, err := NewWorld(g); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestStepOpenCourt(t *testing.T) {
	w := newTestWorld(t)

	ev := Step(w, &seqRand{values: []float64{0.5}})

	if w.Ball.X != 398 || w.Ball.Y != 246 {
		t.Errorf("Expected ball at (398,246), got (%v,%v)", w.Ball.X, w.Ball.Y)
	}
	if ev != 0 {
		t.Errorf("Expected no events, got %b", ev)
	}
	if w.Scores.LeftScores != 0 || w.Scores.RightScores != 0 {
		t.Errorf("Expected 0-0, got %s", w.Scores)
	}
	if w.Tick != 1 {
		t.Errorf("Expected tick 1, got %d", w.Tick)
	}
}

func TestStepTopWallBounce(t *testing.T) {
	w := newTestWorld(t)
	w.Ball.X, w.Ball.Y = 400, 2
	w.Ball.Dx, w.Ball.Dy = 6, -5

	ev := Step(w, &seqRand{values: []float64{0.5}})

	if !ev.Has(WallBounce) {
		t.Error("Expected a wall bounce event")
	}
	if w.Ball.Dy != 5 {
		t.Errorf("Expected Dy 5, got %v", w.Ball.Dy)
	}
	if w.Ball.Y != 0 {
		t.Errorf("Expected Y 0, got %v", w.Ball.Y)
	}
}

func TestStepPaddleSpin(t *testing.T) {
	tests := []struct {
		name   string
		ballY  float64
		wantDy float64
	}{
		// Player spans 200..300, centre 250. Ball moves Dy=+2 before the check.
		{"dead centre", 240, 2},
		{"top edge", 190, 2 - 50*0.15},
		{"bottom edge", 290, 2 + 50*0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			w.Ball.X, w.Ball.Y = 30, tt.ballY
			w.Ball.Dx, w.Ball.Dy = -6, 2

			ev := Step(w, &seqRand{values: []float64{0.5}})

			if !ev.Has(LeftHit) {
				t.Fatal("Expected the player paddle to be hit")
			}
			if w.Ball.Dx != 6 {
				t.Errorf("Expected Dx 6 after the hit, got %v", w.Ball.Dx)
			}
			if math.Abs(w.Ball.Dy-tt.wantDy) > 1e-9 {
				t.Errorf("Expected Dy %v, got %v", tt.wantDy, w.Ball.Dy)
			}
		})
	}
}

func TestStepAgentPaddleHit(t *testing.T) {
	w := newTestWorld(t)
	w.Ball.X, w.Ball.Y = 755, 242
	w.Ball.Dx, w.Ball.Dy = 6, 0

	ev := Step(w, &seqRand{values: []float64{0.5}})

	if !ev.Has(RightHit) {
		t.Fatal("Expected the agent paddle to be hit")
	}
	if w.Ball.Dx != -6 {
		t.Errorf("Expected Dx -6, got %v", w.Ball.Dx)
	}
}

func TestStepRepeatedHitIsNotDeduplicated(t *testing.T) {
	w := newTestWorld(t)
	w.Ball.X, w.Ball.Y = 20, 242
	w.Ball.Dx, w.Ball.Dy = -1, 0

	first := Step(w, &seqRand{values: []float64{0.5}})
	second := Step(w, &seqRand{values: []float64{0.5}})

	if !first.Has(LeftHit) || !second.Has(LeftHit) {
		t.Errorf("Expected both ticks inside the paddle to register a hit, got %b then %b", first, second)
	}
}

func TestStepLeftGoal(t *testing.T) {
	w := newTestWorld(t)
	w.Player.Y = 0 // out of the way
	w.Ball.X, w.Ball.Y = 3, 400
	w.Ball.Dx, w.Ball.Dy = -6, 0

	ev := Step(w, &seqRand{values: []float64{0.5, 0.75, 0.25}})

	if !ev.Has(RightScored) {
		t.Fatal("Expected the right side to score")
	}
	if w.Scores.RightScores != 1 || w.Scores.LeftScores != 0 {
		t.Errorf("Expected 0-1, got %s", w.Scores)
	}
	if w.Ball.X != 392 || w.Ball.Y != 242 {
		t.Errorf("Expected ball back at centre, got (%v,%v)", w.Ball.X, w.Ball.Y)
	}
	if w.Ball.Dx != -6 || w.Ball.Dy != 3.5 {
		t.Errorf("Expected serve (-6,3.5) toward the left, got (%v,%v)", w.Ball.Dx, w.Ball.Dy)
	}
}

func TestStepRightGoal(t *testing.T) {
	w := newTestWorld(t)
	w.Agent.Y = 0
	w.Ball.X, w.Ball.Y = 797, 400
	w.Ball.Dx, w.Ball.Dy = 6, 0

	ev := Step(w, &seqRand{values: []float64{0, 0.1, 0.9}})

	if !ev.Has(LeftScored) {
		t.Fatal("Expected the left side to score")
	}
	if w.Scores.LeftScores != 1 || w.Scores.RightScores != 0 {
		t.Errorf("Expected 1-0, got %s", w.Scores)
	}
	if w.Ball.Dx != 5 || math.Abs(w.Ball.Dy+4.8) > 1e-9 {
		t.Errorf("Expected serve (5,-4.8), got (%v,%v)", w.Ball.Dx, w.Ball.Dy)
	}
}

func TestStepBallOnGoalLineIsNotAGoal(t *testing.T) {
	w := newTestWorld(t)
	w.Player.Y = 0
	w.Ball.X, w.Ball.Y = 6, 400
	w.Ball.Dx, w.Ball.Dy = -6, 0

	ev := Step(w, &seqRand{values: []float64{0.5}})

	if ev.Has(RightScored) {
		t.Error("Expected X == 0 not to score")
	}
}

func TestStepGoalResetBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		w := newTestWorld(t)
		w.Player.Y = 0
		w.Ball.X, w.Ball.Y = 2, 400
		w.Ball.Dx, w.Ball.Dy = -6, 0

		Step(w, rng)

		if w.Scores.RightScores != 1 {
			t.Fatalf("Expected right to score, got %s", w.Scores)
		}
		if dx := math.Abs(w.Ball.Dx); dx < 5 || dx >= 7 || w.Ball.Dx > 0 {
			t.Errorf("Expected Dx in (-7,-5], got %v", w.Ball.Dx)
		}
		if dy := math.Abs(w.Ball.Dy); dy < 3 || dy >= 5 {
			t.Errorf("Expected |Dy| in [3,5), got %v", w.Ball.Dy)
		}
	}
}

func TestStepPaddlesStayInBounds(t *testing.T) {
	w := newTestWorld(t)
	rng := rand.New(rand.NewSource(42))
	maxY := w.Arena.Height - w.Agent.Height

	for i := 0; i < 5000; i++ {
		w.Player.Y = rng.Float64()*700 - 100
		w.Player.Clamp(w.Arena)
		Step(w, rng)

		if w.Agent.Y < 0 || w.Agent.Y > maxY {
			t.Fatalf("Tick %d: agent paddle out of bounds at %v", i, w.Agent.Y)
		}
		if w.Player.Y < 0 || w.Player.Y > maxY {
			t.Fatalf("Tick %d: player paddle out of bounds at %v", i, w.Player.Y)
		}
	}
}

func TestStepAgentTracksAfterReset(t *testing.T) {
	w := newTestWorld(t)
	w.Agent.Y = 300
	w.Player.Y = 0
	w.Ball.X, w.Ball.Y = 2, 400
	w.Ball.Dx, w.Ball.Dy = -6, 0

	Step(w, &seqRand{values: []float64{0.5}})

	// Reset ball centre is 250, target top 200.
	if w.Agent.Y != 295 {
		t.Errorf("Expected agent to step toward the reset ball to 295, got %v", w.Agent.Y)
	}
}
