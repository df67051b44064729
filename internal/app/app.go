package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/shortlinks/internal/adapter/eventlog"
	"github.com/vadimbarashkov/shortlinks/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/shortlinks/internal/config"
	"github.com/vadimbarashkov/shortlinks/internal/usecase"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/shortlinks/internal/adapter/delivery/http"
)

func newLogger(cfg *config.Config) *httplog.Logger {
	return httplog.NewLogger("url-shortener", httplog.Options{
		LogLevel: cfg.Log.SlogLevel(),
		JSON:     cfg.Log.JSON,
		Concise:  cfg.Log.Concise,
		Tags: map[string]string{
			"env": cfg.Env,
		},
		Writer: os.Stdout,
	})
}

// newURLUseCase builds the use case over fresh in-memory stores. Route words
// are reserved up front so no short code can shadow them.
func newURLUseCase(cfg *config.Config, sink *eventlog.Sink, opts ...usecase.Option) *usecase.URLUseCase {
	opts = append([]usecase.Option{
		usecase.WithEventSink(sink),
		usecase.WithDefaultValidity(cfg.Shortener.DefaultValidityMinutes),
	}, opts...)

	return usecase.New(
		memory.NewCodeRegistry(delivery.ReservedPaths...),
		memory.NewURLRepository(),
		memory.NewStatsRepository(),
		opts...,
	)
}

// shutdown stops server and only then stops the event sink, so events
// emitted by in-flight requests are still written.
func shutdown(server *http.Server, timeout time.Duration, stopSink context.CancelFunc) error {
	defer stopSink()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return server.Shutdown(ctx)
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg)
	sink := eventlog.New(logger.Logger, cfg.EventSink.BufferSize)
	urlUseCase := newURLUseCase(cfg, sink)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        delivery.NewRouter(logger, urlUseCase, cfg.BaseURL),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	sinkCtx, stopSink := context.WithCancel(context.Background())
	defer stopSink()

	g.Go(func() error {
		return sink.Run(sinkCtx)
	})

	if cfg.Reaper.Enabled {
		g.Go(func() error {
			return urlUseCase.RunReaper(ctx, cfg.Reaper.Interval, cfg.Reaper.Retention)
		})
	}

	g.Go(func() error {
		logger.Info("starting server", "addr", server.Addr, "env", cfg.Env, "base_url", cfg.BaseURL)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := shutdown(server, cfg.HTTPServer.ShutdownTimeout, stopSink); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
