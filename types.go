package campus

import (
	"context"
	"log/slog"
)

// Logger is the logging surface every component depends on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Identity is the authenticated caller carried inside tokens and the
// request context.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Account is the stored credential record used to authenticate a caller.
type Account struct {
	ID           string
	Name         string
	PasswordHash string
}

// Identity returns the public part of the account.
func (a Account) Identity() Identity {
	return Identity{ID: a.ID, Name: a.Name}
}

// AccountFinder looks up accounts by identifier. Implementations return a
// NotFound error when the account does not exist.
type AccountFinder interface {
	FindAccount(ctx context.Context, id string) (*Account, error)
}

// TokenIssuer signs identities into bearer tokens.
type TokenIssuer interface {
	Generate(payload Identity) (string, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (defLogger) Debug(msg string, args ...any) { slog.Default().Debug(msg, args...) }
func (defLogger) Info(msg string, args ...any)  { slog.Default().Info(msg, args...) }
func (defLogger) Warn(msg string, args ...any)  { slog.Default().Warn(msg, args...) }
func (defLogger) Error(msg string, args ...any) { slog.Default().Error(msg, args...) }

// DefaultLogger returns the package fallback logger backed by slog.Default.
func DefaultLogger() Logger { return defLogger{} }

// LoggerOrDefault returns l, or the fallback logger when l is nil.
func LoggerOrDefault(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
