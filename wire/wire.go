// Package wire encodes the messages exchanged with drawing surfaces. The
// layout is described by frame.proto and written with protowire directly.
package wire

import (
	"errors"
	"fmt"
	"math"

	"github.com/mo-shahab/poon/game"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is returned for input that is not a valid message.
var ErrMalformed = errors.New("malformed message")

// envelope field numbers
const (
	envelopeHello protowire.Number = 1
	envelopeFrame protowire.Number = 2
)

type Hello struct {
	Session      string
	Width        float64
	Height       float64
	PaddleWidth  float64
	PaddleHeight float64
	PaddleMargin float64
	BallSize     float64
}

type Frame struct {
	Tick       uint64
	BallX      float64
	BallY      float64
	PlayerY    float64
	AgentY     float64
	LeftScore  uint32
	RightScore uint32
	Events     uint32
}

type Pointer struct {
	Y float64
}

// Envelope holds exactly one of its fields after a successful decode.
type Envelope struct {
	Hello *Hello
	Frame *Frame
}

func HelloFromWorld(session string, w game.World) Hello {
	return Hello{
		Session:      session,
		Width:        w.Arena.Width,
		Height:       w.Arena.Height,
		PaddleWidth:  w.Player.Width,
		PaddleHeight: w.Player.Height,
		PaddleMargin: w.Player.Margin,
		BallSize:     w.Ball.Size,
	}
}

func FrameFromWorld(w game.World, ev game.Events) Frame {
	return Frame{
		Tick:       w.Tick,
		BallX:      w.Ball.X,
		BallY:      w.Ball.Y,
		PlayerY:    w.Player.Y,
		AgentY:     w.Agent.Y,
		LeftScore:  w.Scores.LeftScores,
		RightScore: w.Scores.RightScores,
		Events:     uint32(ev),
	}
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func (h Hello) marshal(b []byte) []byte {
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, h.Session)
	b = appendDouble(b, 2, h.Width)
	b = appendDouble(b, 3, h.Height)
	b = appendDouble(b, 4, h.PaddleWidth)
	b = appendDouble(b, 5, h.PaddleHeight)
	b = appendDouble(b, 6, h.PaddleMargin)
	b = appendDouble(b, 7, h.BallSize)
	return b
}

func (f Frame) marshal(b []byte) []byte {
	b = appendVarint(b, 1, f.Tick)
	b = appendDouble(b, 2, f.BallX)
	b = appendDouble(b, 3, f.BallY)
	b = appendDouble(b, 4, f.PlayerY)
	b = appendDouble(b, 5, f.AgentY)
	b = appendVarint(b, 6, uint64(f.LeftScore))
	b = appendVarint(b, 7, uint64(f.RightScore))
	b = appendVarint(b, 8, uint64(f.Events))
	return b
}

// EncodeHello wraps h in an Envelope.
func EncodeHello(h Hello) []byte {
	b := protowire.AppendTag(nil, envelopeHello, protowire.BytesType)
	return protowire.AppendBytes(b, h.marshal(nil))
}

// EncodeFrame wraps f in an Envelope.
func EncodeFrame(f Frame) []byte {
	b := protowire.AppendTag(make([]byte, 0, 64), envelopeFrame, protowire.BytesType)
	return protowire.AppendBytes(b, f.marshal(make([]byte, 0, 56)))
}

func EncodePointer(p Pointer) []byte {
	return appendDouble(nil, 1, p.Y)
}

// walk calls field for every field in b. field returns the number of value
// bytes it consumed, or 0 to have the value skipped.
func walk(b []byte, field func(num protowire.Number, typ protowire.Type, b []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		n = field(num, typ, b)
		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

func consumeDouble(typ protowire.Type, b []byte, dst *float64) int {
	if typ != protowire.Fixed64Type {
		return 0
	}
	v, n := protowire.ConsumeFixed64(b)
	if n > 0 {
		*dst = math.Float64frombits(v)
	}
	return n
}

func consumeVarint(typ protowire.Type, b []byte, dst *uint64) int {
	if typ != protowire.VarintType {
		return 0
	}
	v, n := protowire.ConsumeVarint(b)
	if n > 0 {
		*dst = v
	}
	return n
}

func consumeUint32(typ protowire.Type, b []byte, dst *uint32) int {
	var v uint64
	n := consumeVarint(typ, b, &v)
	if n > 0 {
		*dst = uint32(v)
	}
	return n
}

func decodeHello(b []byte) (Hello, error) {
	var h Hello
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			if typ != protowire.BytesType {
				return 0
			}
			v, n := protowire.ConsumeString(b)
			if n > 0 {
				h.Session = v
			}
			return n
		case 2:
			return consumeDouble(typ, b, &h.Width)
		case 3:
			return consumeDouble(typ, b, &h.Height)
		case 4:
			return consumeDouble(typ, b, &h.PaddleWidth)
		case 5:
			return consumeDouble(typ, b, &h.PaddleHeight)
		case 6:
			return consumeDouble(typ, b, &h.PaddleMargin)
		case 7:
			return consumeDouble(typ, b, &h.BallSize)
		}
		return 0
	})
	return h, err
}

func decodeFrame(b []byte) (Frame, error) {
	var f Frame
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeVarint(typ, b, &f.Tick)
		case 2:
			return consumeDouble(typ, b, &f.BallX)
		case 3:
			return consumeDouble(typ, b, &f.BallY)
		case 4:
			return consumeDouble(typ, b, &f.PlayerY)
		case 5:
			return consumeDouble(typ, b, &f.AgentY)
		case 6:
			return consumeUint32(typ, b, &f.LeftScore)
		case 7:
			return consumeUint32(typ, b, &f.RightScore)
		case 8:
			return consumeUint32(typ, b, &f.Events)
		}
		return 0
	})
	return f, err
}

// DecodeEnvelope parses a server message. Unknown fields are skipped.
func DecodeEnvelope(b []byte) (Envelope, error) {
	var env Envelope
	var inner error

	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if typ != protowire.BytesType || (num != envelopeHello && num != envelopeFrame) {
			return 0
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n
		}

		if num == envelopeHello {
			h, err := decodeHello(v)
			env.Hello, env.Frame, inner = &h, nil, err
		} else {
			f, err := decodeFrame(v)
			env.Frame, env.Hello, inner = &f, nil, err
		}
		return n
	})
	if err != nil {
		return Envelope{}, err
	}
	if inner != nil {
		return Envelope{}, inner
	}
	if env.Hello == nil && env.Frame == nil {
		return Envelope{}, fmt.Errorf("%w: empty envelope", ErrMalformed)
	}
	return env, nil
}

// DecodePointer parses a client pointer message.
func DecodePointer(b []byte) (Pointer, error) {
	var p Pointer
	seen := false

	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num != 1 {
			return 0
		}
		n := consumeDouble(typ, b, &p.Y)
		if n > 0 {
			seen = true
		}
		return n
	})
	if err != nil {
		return Pointer{}, err
	}
	if !seen || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		return Pointer{}, fmt.Errorf("%w: pointer without a usable y", ErrMalformed)
	}
	return p, nil
}
