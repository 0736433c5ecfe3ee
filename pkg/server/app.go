package server

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	xhttp "FinSeason/pkg/http"
	applogger "FinSeason/pkg/logger"
)

// Scheduler is a background job runner started with the app (the cache warmer).
type Scheduler interface {
	Start() error
	Stop(ctx context.Context) error
}

// Runner is a context-driven background worker (Kafka consumer, Redis queue).
type Runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type runner struct {
	name string
	r    Runner
}

type closer struct {
	name string
	c    io.Closer
}

// App encapsulates the entire application lifecycle.
type App struct {
	log        *applogger.Logger
	httpServer *xhttp.Server
	scheduler  Scheduler
	runners    []runner
	closers    []closer

	shutdownTimeout time.Duration
}

type AppOption func(*App)

// WithScheduler starts s with the app and stops it on shutdown.
func WithScheduler(s Scheduler) AppOption {
	return func(a *App) { a.scheduler = s }
}

// WithRunner runs r (with its handlers already registered) alongside the server.
func WithRunner(name string, r Runner) AppOption {
	return func(a *App) {
		if r != nil {
			a.runners = append(a.runners, runner{name: name, r: r})
		}
	}
}

// WithCloser closes c on shutdown. Closers run in reverse registration order.
func WithCloser(name string, c io.Closer) AppOption {
	return func(a *App) {
		if c != nil {
			a.closers = append(a.closers, closer{name: name, c: c})
		}
	}
}

func WithShutdownTimeout(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

// New creates a new App instance with all dependencies.
func New(l *applogger.Logger, httpServer *xhttp.Server, opts ...AppOption) *App {
	if l == nil {
		l = applogger.Nop()
	}
	a := &App{log: l, httpServer: httpServer, shutdownTimeout: 15 * time.Second}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts every component and blocks until SIGINT/SIGTERM or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.start(ctx); err != nil {
		a.shutdown()
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	a.shutdown()
	return nil
}

func (a *App) start(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			return err
		}
	}
	for _, r := range a.runners {
		if err := r.r.Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", r.name, err)
		}
		a.log.Info(r.name + " started")
	}
	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			return err
		}
	}
	return nil
}

// shutdown stops intake first (HTTP, runners, scheduler) and then closes
// infrastructure clients.
func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}
	for _, r := range a.runners {
		if err := r.r.Stop(ctx); err != nil {
			a.log.Warn(r.name+" stop error", applogger.Error(err))
		}
	}
	if a.scheduler != nil {
		if err := a.scheduler.Stop(ctx); err != nil {
			a.log.Warn("scheduler stop error", applogger.Error(err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.c.Close(); err != nil {
			a.log.Warn(c.name+" close error", applogger.Error(err))
		}
	}
	a.log.Info("shutdown complete")
}
