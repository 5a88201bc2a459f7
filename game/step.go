package game

// Step advances w by one tick. Every check runs against the same
// post-integration position: walls, left paddle, right paddle, goal lines.
// The agent then moves against the resulting ball.
func Step(w *World, rng RandSource) Events {
	var ev Events

	w.Ball.Move()

	if w.Ball.BounceWalls(w.Arena) {
		ev |= WallBounce
	}

	// A ball still overlapping a paddle next tick is deflected again.
	if w.Player.HandleCollision(&w.Ball, w.Arena) {
		ev |= LeftHit
	}
	if w.Agent.HandleCollision(&w.Ball, w.Arena) {
		ev |= RightHit
	}

	switch {
	case w.Ball.X < 0:
		w.Scores.ScoreRight()
		w.Ball.Reset(w.Arena, -1, rng)
		ev |= RightScored
	case w.Ball.X > w.Arena.Width:
		w.Scores.ScoreLeft()
		w.Ball.Reset(w.Arena, 1, rng)
		ev |= LeftScored
	}

	w.Agent.Track(&w.Ball, w.Arena)
	w.Tick++

	return ev
}
