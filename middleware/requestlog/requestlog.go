// Package requestlog tags every request with an id and logs its outcome.
package requestlog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goliatone/go-campus"
)

const (
	HeaderRequestID = "X-Request-ID"
	// LocalsKey holds the request id on the fiber context.
	LocalsKey = "request_id"
)

type Config struct {
	// Filter skips logging when it returns true. The id is still assigned.
	Filter func(*fiber.Ctx) bool
	// Generator builds ids for requests that arrive without one.
	Generator func() string
	Logger    campus.Logger
	// ErrorHandler renders errors returned by downstream handlers so the
	// logged status matches the response. Usually the app error handler.
	// Failures it renders are logged by it, so their access line is a
	// warning.
	ErrorHandler fiber.ErrorHandler
	now          func() time.Time
}

// New builds the middleware.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(HeaderRequestID))
		if id == "" {
			id = cfg.Generator()
		}
		c.Locals(LocalsKey, id)
		c.Set(HeaderRequestID, id)

		start := cfg.now()
		err := c.Next()
		rendered := false
		if err != nil && cfg.ErrorHandler != nil {
			if herr := cfg.ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
			rendered = true
		}

		if cfg.Filter != nil && cfg.Filter(c) {
			return err
		}

		status := c.Response().StatusCode()
		args := []any{
			"request_id", id,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", cfg.now().Sub(start).String(),
		}

		switch {
		case status >= fiber.StatusInternalServerError && !rendered:
			cfg.Logger.Error("request", args...)
		case status >= fiber.StatusBadRequest:
			cfg.Logger.Warn("request", args...)
		default:
			cfg.Logger.Info("request", args...)
		}
		return err
	}
}

// RequestID returns the id assigned to the request.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalsKey).(string); ok {
		return id
	}
	return strings.TrimSpace(c.Get(HeaderRequestID))
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.NewString()
		}
	}

	if cfg.now == nil {
		cfg.now = time.Now
	}

	cfg.Logger = campus.LoggerOrDefault(cfg.Logger)

	return cfg
}
