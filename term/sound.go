package term

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/mo-shahab/poon/game"
)

// tone constants
const (
	hitFrequency  = 880.0
	goalFrequency = 440.0
	toneLength    = 50 * time.Millisecond
)

// Sound plays short tones for paddle hits and goals. A nil *Sound is silent.
type Sound struct {
	rate beep.SampleRate
}

// NewSound opens the speaker. The game works without it, so callers usually
// log the error and carry on with a nil Sound.
func NewSound() (*Sound, error) {
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Sound{rate: sampleRate}, nil
}

// toneFor picks the tone for a tick's events. Goals win over hits; 0 means
// silence.
func toneFor(ev game.Events) float64 {
	switch {
	case ev.Has(game.LeftScored) || ev.Has(game.RightScored):
		return goalFrequency
	case ev.Has(game.LeftHit) || ev.Has(game.RightHit):
		return hitFrequency
	}
	return 0
}

func (s *Sound) Play(ev game.Events) {
	if s == nil {
		return
	}

	freq := toneFor(ev)
	if freq == 0 {
		return
	}

	sine, err := generators.SineTone(s.rate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(s.rate.N(toneLength), sine))
}

func (s *Sound) Close() {
	if s != nil {
		speaker.Close()
	}
}
