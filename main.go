package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mo-shahab/poon/config"
	"github.com/mo-shahab/poon/wsserver"
	"github.com/sirupsen/logrus"
)

var (
	configPath  = flag.String("config", "", "path to a TOML config file")
	addr        = flag.String("addr", "", "listen address, overrides the config file")
	level       = flag.String("level", "", "log level, overrides the config file")
	writeConfig = flag.String("write-config", "", "write the default config to this path and exit")
)

func main() {
	flag.Parse()

	lg := logrus.New()
	lg.Formatter = &logrus.TextFormatter{ForceColors: true}

	if *writeConfig != "" {
		if err := config.SaveDefault(*writeConfig); err != nil {
			lg.Fatal(err)
		}
		lg.Infof("Default config written to %s", *writeConfig)
		return
	}

	conf, err := config.LoadOrDefault(*configPath)
	if err != nil {
		lg.Fatal(err)
	}
	if *addr != "" {
		conf.Server.Addr = *addr
	}
	if *level != "" {
		conf.Log.Level = *level
	}

	lvl, err := logrus.ParseLevel(conf.Log.Level)
	if err != nil {
		lg.Fatal(err)
	}
	lg.Level = lvl

	if err := conf.Validate(); err != nil {
		lg.Fatal(err)
	}

	if conf.Server.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: conf.Server.SentryDSN}); err != nil {
			lg.Fatalf("Failed to initialise sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	wsh := wsserver.NewWebSocketHandler(conf.Game, lg)
	srv := &http.Server{
		Addr:    conf.Server.Addr,
		Handler: wsserver.NewMux(wsh),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		lg.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		wsh.Close()
		srv.Shutdown(shutdownCtx)
	}()

	lg.Infof("Server starting at http://localhost%s", conf.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal(err)
	}
	<-idle
}
