package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

// ErrInvalidConfig marks a configuration the simulation cannot run with.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains everything the binaries can be told at startup.
type Config struct {
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
	Game   Game   `toml:"game"`
}

type Server struct {
	// Addr is the listen address of the websocket server.
	Addr string `toml:"addr"`
	// SentryDSN enables crash reporting when set.
	SentryDSN string `toml:"sentry_dsn"`
}

type Log struct {
	// Level is a logrus level name.
	Level string `toml:"level"`
}

// Game holds the fixed geometry of a session. None of it changes once a
// session starts.
type Game struct {
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	PaddleWidth  float64 `toml:"paddle_width"`
	PaddleHeight float64 `toml:"paddle_height"`
	PaddleMargin float64 `toml:"paddle_margin"`
	BallSize     float64 `toml:"ball_size"`
	// ServeDx and ServeDy are the velocity of the very first serve.
	ServeDx float64 `toml:"serve_dx"`
	ServeDy float64 `toml:"serve_dy"`
	// TickMillis is the frame scheduler interval.
	TickMillis int `toml:"tick_millis"`
}

// Default returns the stock configuration.
func Default() Config {
	c := Config{}
	c.Server.Addr = ":8080"
	c.Log.Level = "info"
	c.Game = DefaultGame()
	return c
}

func DefaultGame() Game {
	return Game{
		Width:        800,
		Height:       500,
		PaddleWidth:  16,
		PaddleHeight: 100,
		PaddleMargin: 10,
		BallSize:     16,
		ServeDx:      6,
		ServeDy:      4,
		TickMillis:   16,
	}
}

func (g Game) TickInterval() time.Duration {
	return time.Duration(g.TickMillis) * time.Millisecond
}

// Validate rejects geometry that would leave collision or clamping
// ill-defined.
func (g Game) Validate() error {
	switch {
	case g.Width <= 0 || g.Height <= 0:
		return fmt.Errorf("%w: arena must be larger than zero, got %vx%v", ErrInvalidConfig, g.Width, g.Height)
	case g.PaddleWidth <= 0 || g.PaddleHeight <= 0:
		return fmt.Errorf("%w: paddle must be larger than zero, got %vx%v", ErrInvalidConfig, g.PaddleWidth, g.PaddleHeight)
	case g.BallSize <= 0:
		return fmt.Errorf("%w: ball size must be larger than zero, got %v", ErrInvalidConfig, g.BallSize)
	case g.PaddleMargin < 0:
		return fmt.Errorf("%w: paddle margin cannot be negative, got %v", ErrInvalidConfig, g.PaddleMargin)
	case g.PaddleHeight > g.Height:
		return fmt.Errorf("%w: paddle height %v exceeds arena height %v", ErrInvalidConfig, g.PaddleHeight, g.Height)
	case g.BallSize >= g.Height:
		return fmt.Errorf("%w: ball size %v does not fit arena height %v", ErrInvalidConfig, g.BallSize, g.Height)
	case 2*(g.PaddleMargin+g.PaddleWidth) >= g.Width:
		return fmt.Errorf("%w: paddles overlap in an arena %v wide", ErrInvalidConfig, g.Width)
	case g.TickMillis <= 0:
		return fmt.Errorf("%w: tick interval must be positive, got %dms", ErrInvalidConfig, g.TickMillis)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: empty server address", ErrInvalidConfig)
	}
	return c.Game.Validate()
}

// Load reads the TOML file at path over the defaults. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed decoding config file: %w", err)
	}
	return c, c.Validate()
}

// SaveDefault writes the default configuration to path. An existing file is
// left alone.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return fmt.Errorf("config file %s already exists", path)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed encoding default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating config file: %w", err)
	}
	return nil
}

// LoadOrDefault is Load for a non-empty path and the defaults otherwise.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		c := Default()
		return c, c.Validate()
	}
	return Load(path)
}
