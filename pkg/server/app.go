package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	internalrepo "EdgePull/internal/repository"
	"EdgePull/pkg/config"
	xhttp "EdgePull/pkg/http"
	applogger "EdgePull/pkg/logger"
)

// App encapsulates the application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	sink       *internalrepo.AsyncSink
	httpServer *xhttp.Server
}

// New creates an App instance with all dependencies.
func New(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler, sink *internalrepo.AsyncSink) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		handler: handler,
		sink:    sink,
	}
}

// Run starts the HTTP server and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("engine started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("sink", a.cfg.Sink.Backend))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops accepting requests, then flushes and closes the sink chain.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.log.Warn("sink close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
