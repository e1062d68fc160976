package campus

import (
	"context"
	"time"
)

// ErrInvalidCredentials is returned for unknown accounts and wrong passwords
// alike so callers cannot probe which identifiers exist.
var ErrInvalidCredentials = Unauthorized("invalid credentials")

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Identity  Identity  `json:"identity"`
}

// Authenticator verifies credentials and issues bearer tokens.
type Authenticator struct {
	accounts     AccountFinder
	tokens       TokenIssuer
	passwords    PasswordAuthenticator
	ttl          time.Duration
	now          func() time.Time
	logger       Logger
	activitySink ActivitySink
}

// NewAuthenticator returns a new Authenticator. ttl is only used to report
// the expiry of issued tokens and should match the issuer lifetime.
func NewAuthenticator(accounts AccountFinder, tokens TokenIssuer, ttl time.Duration) *Authenticator {
	return &Authenticator{
		accounts:     accounts,
		tokens:       tokens,
		passwords:    BcryptPasswords(),
		ttl:          ttl,
		now:          time.Now,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	a.logger = LoggerOrDefault(logger)
	return a
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (a *Authenticator) WithActivitySink(sink ActivitySink) *Authenticator {
	a.activitySink = normalizeActivitySink(sink)
	return a
}

// WithPasswordAuthenticator swaps the password hashing strategy.
func (a *Authenticator) WithPasswordAuthenticator(p PasswordAuthenticator) *Authenticator {
	if p != nil {
		a.passwords = p
	}
	return a
}

// WithClock overrides the clock used to report expiry.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	if now != nil {
		a.now = now
	}
	return a
}

// Login checks the credentials and issues a token for the account identity.
func (a *Authenticator) Login(ctx context.Context, id, password string) (*LoginResult, error) {
	account, err := a.accounts.FindAccount(ctx, id)
	if err != nil {
		if IsKind(err, KindNotFound) {
			a.fail(ctx, id, "unknown account")
			return nil, ErrInvalidCredentials
		}
		a.logger.Error("Login find account error", "error", err)
		return nil, err
	}

	if err := a.passwords.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if IsKind(err, KindUnauthorized) {
			a.fail(ctx, id, "password mismatch")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	issuedAt := a.now()
	token, err := a.tokens.Generate(account.Identity())
	if err != nil {
		a.logger.Error("Login token generation error", "error", err)
		if KindOf(err) == KindInternal {
			return nil, err
		}
		return nil, Internal(err)
	}

	a.emit(ctx, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		UserID:    account.ID,
	})

	return &LoginResult{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: issuedAt.Add(a.ttl).UTC().Truncate(time.Second),
		Identity:  account.Identity(),
	}, nil
}

func (a *Authenticator) fail(ctx context.Context, id, reason string) {
	a.logger.Debug("Login rejected", "id", id, "reason", reason)
	a.emit(ctx, ActivityEvent{
		EventType: ActivityEventLoginFailure,
		UserID:    id,
		Metadata:  map[string]any{"reason": reason},
	})
}

func (a *Authenticator) emit(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = a.now().UTC()
	}
	if err := a.activitySink.Record(ctx, event); err != nil {
		a.logger.Warn("activity sink error", "event", string(event.EventType), "error", err)
	}
}
