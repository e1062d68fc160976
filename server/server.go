// Package server assembles the fiber application.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/controller"
	"github.com/goliatone/go-campus/middleware/authgate"
	"github.com/goliatone/go-campus/middleware/requestlog"
	"github.com/goliatone/go-campus/repository"
)

const AppName = "campusd"

type Options struct {
	Logger  campus.Logger
	Repo    repository.Manager
	Auther  *campus.Authenticator
	Decoder authgate.Decoder[campus.Identity]
	// StaticDir is served under /static when set.
	StaticDir            string
	ExposeInternalErrors bool
}

// New builds the application with error rendering, panic recovery, request
// logging, static files and every API route.
func New(opts Options) *fiber.App {
	logger := campus.LoggerOrDefault(opts.Logger)

	renderer := campus.NewErrorRenderer(logger)
	renderer.ExposeInternalErrors = opts.ExposeInternalErrors

	app := fiber.New(fiber.Config{
		AppName:               AppName,
		ErrorHandler:          renderer.Handle,
		UnescapePath:          true,
		DisableStartupMessage: true,
	})

	app.Use(requestlog.New(requestlog.Config{
		Logger:       logger,
		ErrorHandler: renderer.Handle,
	}))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	if opts.StaticDir != "" {
		app.Static("/static", opts.StaticDir)
	}

	gate := authgate.New(authgate.Config[campus.Identity]{
		Decoder:         opts.Decoder,
		ContextEnricher: campus.WithIdentity,
		Logger:          logger,
	})

	controller.Register(app,
		controller.WithLogger(logger),
		controller.WithRepository(opts.Repo),
		controller.WithAuthenticator(opts.Auther),
		controller.WithGate(gate),
	)

	return app
}

// Run serves app on addr until ctx is cancelled, then shuts down within
// timeout.
func Run(ctx context.Context, app *fiber.App, addr string, timeout time.Duration, logger campus.Logger) error {
	logger = campus.LoggerOrDefault(logger)

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- app.Listen(addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", timeout.String())
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		return err
	}

	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
