// Package term draws the game in a terminal and feeds mouse movement back as
// pointer input.
package term

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mo-shahab/poon/arena"
	"github.com/mo-shahab/poon/game"
	"github.com/sirupsen/logrus"
)

// scoreRows is the number of terminal rows above the court.
const scoreRows = 1

var (
	courtStyle  = tcell.StyleDefault.Background(tcell.ColorBlack)
	lineStyle   = courtStyle.Foreground(tcell.ColorGray)
	paddleStyle = courtStyle.Foreground(tcell.ColorWhite)
	ballStyle   = courtStyle.Foreground(tcell.ColorAqua)
	scoreStyle  = courtStyle.Foreground(tcell.ColorWhite).Bold(true)
)

type frame struct {
	world game.World
	ev    game.Events
}

// Frontend is the terminal drawing surface for one game.
type Frontend struct {
	screen tcell.Screen
	loop   *game.Loop
	arena  arena.Arena
	sound  *Sound
	log    logrus.FieldLogger

	frames chan frame
	cols   int
	rows   int
}

// New builds a frontend around an initialised screen. sound may be nil.
func New(screen tcell.Screen, world *game.World, interval time.Duration, sound *Sound, log logrus.FieldLogger, opts ...game.Option) *Frontend {
	f := &Frontend{
		screen: screen,
		arena:  world.Arena,
		sound:  sound,
		log:    log,
		frames: make(chan frame, 1),
	}
	f.cols, f.rows = screen.Size()

	opts = append([]game.Option{game.WithLogger(log)}, opts...)
	f.loop = game.NewLoop(world, interval, f.offer, opts...)
	return f
}

// offer keeps only the newest frame for the draw loop, carrying over the
// events of any frame it replaces.
func (f *Frontend) offer(w game.World, ev game.Events) {
	next := frame{world: w, ev: ev}
	for {
		select {
		case f.frames <- next:
			return
		default:
		}
		select {
		case old := <-f.frames:
			next.ev |= old.ev
		default:
		}
	}
}

// Run plays until ctx is done or the user quits.
func (f *Frontend) Run(ctx context.Context) error {
	f.screen.EnableMouse(tcell.MouseMotionEvents)
	f.screen.HideCursor()

	quit := make(chan struct{})
	defer close(quit)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	f.loop.Start()
	defer f.loop.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !f.handleEvent(ev) {
				return nil
			}
		case fr := <-f.frames:
			f.draw(fr.world)
			f.sound.Play(fr.ev)
		}
	}
}

func (f *Frontend) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventMouse:
		_, row := ev.Position()
		f.loop.SetPointer(f.pointerY(row))
	case *tcell.EventResize:
		f.cols, f.rows = f.screen.Size()
		f.screen.Sync()
	}
	return true
}

func (f *Frontend) courtRows() int {
	if n := f.rows - scoreRows; n > 0 {
		return n
	}
	return 1
}

// pointerY maps a terminal row to arena units, aiming at the middle of the
// row.
func (f *Frontend) pointerY(row int) float64 {
	return (float64(row-scoreRows) + 0.5) * f.arena.Height / float64(f.courtRows())
}

func (f *Frontend) cellX(x float64) int {
	return int(math.Floor(x / f.arena.Width * float64(f.cols)))
}

func (f *Frontend) cellY(y float64) int {
	return scoreRows + int(math.Floor(y/f.arena.Height*float64(f.courtRows())))
}

// span widens an empty cell range to its first cell.
func span(first, last int) (int, int) {
	if last < first {
		last = first
	}
	return first, last
}

func (f *Frontend) fill(x0, x1, y0, y1 int, r rune, style tcell.Style) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x >= 0 && x < f.cols && y >= scoreRows && y < f.rows {
				f.screen.SetContent(x, y, r, nil, style)
			}
		}
	}
}

func (f *Frontend) text(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		f.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (f *Frontend) draw(w game.World) {
	f.screen.SetStyle(courtStyle)
	f.screen.Clear()

	mid := f.cols / 2
	for y := scoreRows; y < f.rows; y += 2 {
		f.screen.SetContent(mid, y, '┆', nil, lineStyle)
	}

	for _, p := range []struct{ x, y, w, h float64 }{
		{w.Player.X(w.Arena), w.Player.Y, w.Player.Width, w.Player.Height},
		{w.Agent.X(w.Arena), w.Agent.Y, w.Agent.Width, w.Agent.Height},
	} {
		x0, x1 := span(f.cellX(p.x), f.cellX(p.x+p.w)-1)
		y0, y1 := span(f.cellY(p.y), f.cellY(p.y+p.h)-1)
		f.fill(x0, x1, y0, y1, '█', paddleStyle)
	}

	bx := f.cellX(w.Ball.X + w.Ball.Size/2)
	by := f.cellY(w.Ball.CenterY())
	f.fill(bx, bx, by, by, '●', ballStyle)

	left := fmt.Sprintf("%d", w.Scores.LeftScores)
	f.text(mid-2-len(left), 0, left, scoreStyle)
	f.text(mid+3, 0, fmt.Sprintf("%d", w.Scores.RightScores), scoreStyle)

	f.screen.Show()
}
