package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/mo-shahab/poon/paddle"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// FrameFunc receives a copy of the world after every tick. It runs on the
// loop goroutine and must not call Stop.
type FrameFunc func(w World, ev Events)

// Loop owns a World and steps it on a ticker until stopped. Only the loop
// goroutine touches the World while it runs; pointer input goes through an
// atomic slot read at the start of each tick.
type Loop struct {
	world    *World
	rng      RandSource
	interval time.Duration
	onFrame  FrameFunc
	onPanic  func(v any)
	log      logrus.FieldLogger

	pointer    atomic.Float64
	hasPointer atomic.Bool
	frames     atomic.Uint64

	ticker   *time.Ticker
	stopChan chan struct{}
	done     chan struct{}
	mu       sync.Mutex
}

type Option func(*Loop)

// WithRand replaces the serve randomness, mostly for tests.
func WithRand(rng RandSource) Option {
	return func(l *Loop) { l.rng = rng }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loop) { l.log = log }
}

// WithPanicHandler is called with the recovered value if a tick panics. The
// loop stops afterwards.
func WithPanicHandler(f func(v any)) Option {
	return func(l *Loop) { l.onPanic = f }
}

func NewLoop(world *World, interval time.Duration, onFrame FrameFunc, opts ...Option) *Loop {
	l := &Loop{
		world:    world,
		interval: interval,
		onFrame:  onFrame,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins ticking. Calling it on a running loop does nothing.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ticker != nil {
		return
	}

	l.ticker = time.NewTicker(l.interval)
	l.stopChan = make(chan struct{})
	l.done = make(chan struct{})

	l.log.Debugf("Starting game loop at %v per tick", l.interval)
	go l.run(l.ticker, l.stopChan, l.done)
}

// Stop halts the loop and waits for the current tick to finish. No frame is
// delivered after Stop returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.ticker == nil {
		l.mu.Unlock()
		return
	}

	l.ticker.Stop()
	close(l.stopChan)
	done := l.done
	l.ticker = nil
	l.mu.Unlock()

	<-done
	l.log.Debugf("Game loop stopped after %d frames", l.frames.Load())
}

func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticker != nil
}

// Frames is the number of ticks delivered since the loop was created.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// SetPointer converts a raw pointer y to a paddle top and stores it for the
// next tick. Safe to call from any goroutine; the latest call wins.
func (l *Loop) SetPointer(rawY float64) float64 {
	y := paddle.FromPointer(rawY, l.world.Player.Height, l.world.Arena)
	l.pointer.Store(y)
	l.hasPointer.Store(true)
	return y
}

// Tick applies pending pointer input and advances the world once. It is what
// the loop goroutine calls; call it directly only while the loop is stopped.
func (l *Loop) Tick() Events {
	if l.hasPointer.Load() {
		l.world.Player.Y = l.pointer.Load()
		l.world.Player.Clamp(l.world.Arena)
	}

	ev := Step(l.world, l.rng)

	switch {
	case ev.Has(RightScored):
		l.log.Infof("Right player scored! Score: %s", l.world.Scores)
	case ev.Has(LeftScored):
		l.log.Infof("Left player scored! Score: %s", l.world.Scores)
	}
	return ev
}

// World returns a snapshot of the current state. While the loop runs, prefer
// the copy handed to FrameFunc.
func (l *Loop) World() World {
	return l.world.Snapshot()
}

func (l *Loop) run(ticker *time.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorf("Game loop panic: %v", r)
			if l.onPanic != nil {
				l.onPanic(r)
			}
		}
	}()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ev := l.Tick()
			l.frames.Inc()
			if l.onFrame != nil {
				l.onFrame(l.world.Snapshot(), ev)
			}
		}
	}
}
