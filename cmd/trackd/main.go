// Command trackd is the headless multi-track audio engine service: it
// wires the control Manager, the realtime Engine, a selected audio
// backend, the HTTP control surface, and optional LAN service discovery,
// then blocks until terminated.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"time"

	sentry "github.com/getsentry/sentry-go"
	flag "github.com/spf13/pflag"

	"github.com/shaban/trackd/internal/backend"
	"github.com/shaban/trackd/internal/control"
	"github.com/shaban/trackd/internal/discovery"
	"github.com/shaban/trackd/internal/engine"
	"github.com/shaban/trackd/internal/obslog"
	"github.com/shaban/trackd/internal/pluginhost"
	"github.com/shaban/trackd/internal/rpcapi"
	"github.com/shaban/trackd/internal/rtqueue"
)

const shutdownGrace = 5 * time.Second

func main() {
	var (
		port             = flag.Uint16("port", 50218, "HTTP control API port")
		backendName      = flag.String("backend", "portaudio", "audio backend: dummy|portaudio")
		commandQueueSize = flag.Int("command-queue-size", 4096, "command queue capacity (rounded up to a power of two)")
		advertise        = flag.Bool("advertise", true, "advertise the control API over mDNS/DNS-SD")
		sentryDSN        = flag.String("sentry-dsn", os.Getenv("TRACKD_SENTRY_DSN"), "Sentry DSN for control-plane panic reporting")
	)
	flag.Parse()

	logger := obslog.New()
	rtSink := obslog.NewRTSink(1024)

	sentryConfigured := false
	if *sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: *sentryDSN}); err != nil {
			logger.Error("sentry init failed", "err", err)
		} else {
			sentryConfigured = true
			defer sentry.Flush(2)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopLogDrain := make(chan struct{})
	rtSink.Drain(logger, stopLogDrain)
	defer close(stopLogDrain)

	commands := rtqueue.New[engine.Command](*commandQueueSize)

	host := pluginhost.NewDummy()

	var bk backend.Backend
	switch *backendName {
	case "dummy":
		bk = backend.NewDummy(48000, 256)
	case "portaudio":
		pa, err := backend.NewPortAudio(48000, 256, nil)
		if err != nil {
			logger.Fatal("failed to open portaudio backend", "err", err)
		}
		bk = pa
	default:
		logger.Fatal("unknown backend", "backend", *backendName)
	}

	eng := engine.New(commands, bk.BufferSize(), rtSink.Warn)
	mgr := control.NewManager(host, commands, bk.SampleRate(), bk.BufferSize())

	router := rpcapi.NewRouter(mgr, sentryConfigured)
	httpServer := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", *port), Handler: router}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", "err", err)
		}
	}()

	if *advertise {
		if err := discovery.Advertise(ctx, "trackd", int(*port)); err != nil {
			logger.Warn("mDNS advertisement failed", "err", err)
		}
	}

	logger.Info("trackd listening", "port", *port, "backend", *backendName)

	go func() {
		if err := bk.Run(ctx, eng); err != nil && ctx.Err() == nil {
			logger.Error("audio backend stopped unexpectedly", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}
