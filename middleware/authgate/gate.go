// Package authgate is a fiber middleware that admits requests carrying a
// valid bearer token and stores the decoded caller for downstream handlers.
package authgate

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-campus"
)

// Decoder verifies a raw token and returns its payload. token.Codec
// satisfies it.
type Decoder[T any] interface {
	Verify(tokenString string) (T, error)
}

// ValidationListener is invoked after a token has been verified and before
// the value is stored.
type ValidationListener[T any] func(c *fiber.Ctx, value T) error

type Config[T any] struct {
	// Decoder is required.
	Decoder Decoder[T]
	// Filter skips the gate when it returns true.
	Filter func(*fiber.Ctx) bool
	// SuccessHandler runs after the value is stored. Defaults to c.Next.
	SuccessHandler fiber.Handler
	// ErrorHandler receives every rejection. Defaults to returning the
	// error so the application error handler renders it.
	ErrorHandler fiber.ErrorHandler
	// ContextKey is the fiber locals key. Defaults to "identity".
	ContextKey string
	// AuthScheme is the expected scheme, compared case-insensitively.
	AuthScheme string
	// ContextEnricher propagates the value to the request user context.
	ContextEnricher func(ctx context.Context, value T) context.Context
	// ValidationListeners run in order after a successful decode.
	ValidationListeners []ValidationListener[T]
	Logger              campus.Logger
}

// New builds the gate middleware.
func New[T any](config ...Config[T]) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := ExtractBearer(c, cfg.AuthScheme)
		if err != nil {
			cfg.Logger.Debug("auth gate rejected header", "path", c.Path(), "error", campus.Message(err))
			return cfg.ErrorHandler(c, err)
		}

		value, err := cfg.Decoder.Verify(raw)
		if err != nil {
			cfg.Logger.Debug("auth gate rejected token", "path", c.Path(), "error", campus.Message(err))
			return cfg.ErrorHandler(c, campus.WrapError(
				campus.KindUnauthorized, err, "authentication failed: "+campus.Message(err),
			))
		}

		for _, listener := range cfg.ValidationListeners {
			if listener == nil {
				continue
			}
			if err := listener(c, value); err != nil {
				return cfg.ErrorHandler(c, err)
			}
		}

		c.Locals(cfg.ContextKey, value)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), value))
		}

		return cfg.SuccessHandler(c)
	}
}

// ExtractBearer reads the Authorization header and strips the scheme.
//
//	absent header          -> Unauthorized
//	header not valid UTF-8 -> BadRequest
//	missing "<scheme> "    -> BadRequest
func ExtractBearer(c *fiber.Ctx, scheme string) (string, error) {
	raw := c.Request().Header.Peek(fiber.HeaderAuthorization)
	if raw == nil {
		return "", campus.Unauthorized("not authenticated")
	}
	return ParseAuthorization(string(raw), scheme)
}

// ParseAuthorization applies the header rules to a present header value.
func ParseAuthorization(header, scheme string) (string, error) {
	if scheme == "" {
		scheme = "Bearer"
	}

	if !utf8.ValidString(header) {
		return "", campus.BadRequest("authorization header is not valid UTF-8")
	}

	prefix := scheme + " "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", campus.BadRequest("authorization header must use the " + scheme + " scheme")
	}

	return header[len(prefix):], nil
}

func GetDefaultConfig[T any](config ...Config[T]) (cfg Config[T]) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Decoder == nil {
		panic("authgate: Decoder is required")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(_ *fiber.Ctx, err error) error {
			return err
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = campus.IdentityLocalsKey
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	cfg.Logger = campus.LoggerOrDefault(cfg.Logger)

	return cfg
}
