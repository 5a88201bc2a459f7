package scores

import "fmt"

// Scores counts goals per side for the lifetime of a session. Counters only
// ever go up.
type Scores struct {
	LeftScores  uint32
	RightScores uint32
}

func (s *Scores) ScoreLeft() {
	s.LeftScores++
}

func (s *Scores) ScoreRight() {
	s.RightScores++
}

func (s Scores) String() string {
	return fmt.Sprintf("%d-%d", s.LeftScores, s.RightScores)
}
