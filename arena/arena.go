package arena

// Arena is the play surface. Its bounds never change during a session.
type Arena struct {
	Width  float64
	Height float64
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (a Arena) CenterX() float64 {
	return a.Width / 2
}

func (a Arena) CenterY() float64 {
	return a.Height / 2
}
