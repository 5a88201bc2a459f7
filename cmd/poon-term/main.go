package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/mo-shahab/poon/config"
	"github.com/mo-shahab/poon/game"
	"github.com/mo-shahab/poon/term"
	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "", "path to a TOML config file")
	logPath    = flag.String("log", "", "write logs to this file instead of discarding them")
	mute       = flag.Bool("mute", false, "disable sound")
)

func main() {
	flag.Parse()

	conf, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The screen owns stdout, so logs go to a file or nowhere.
	lg := logrus.New()
	lg.Out = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		lg.Out = f
	}
	if lvl, err := logrus.ParseLevel(conf.Log.Level); err == nil {
		lg.Level = lvl
	}

	world, err := game.NewWorld(conf.Game)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	// Restore the terminal even if the game crashes.
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "poon crashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	var sound *term.Sound
	if !*mute {
		sound, err = term.NewSound()
		if err != nil {
			// Non-fatal, the game runs without sound
			lg.Warnf("Audio initialization failed: %v", err)
		}
		defer sound.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fe := term.New(screen, world, conf.Game.TickInterval(), sound, lg)
	if err := fe.Run(ctx); err != nil {
		lg.Errorf("Game ended with error: %v", err)
	}
}
