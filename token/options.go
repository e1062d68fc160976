package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of tokens minted by Generate.
const DefaultTTL = 12 * time.Hour

// DefaultAlgorithm is the HMAC method used when none is configured.
const DefaultAlgorithm = "HS256"

// Validation controls the checks Decode performs after the signature.
type Validation struct {
	// ValidateExp rejects tokens whose exp, plus Leeway, is in the past.
	ValidateExp bool
	// Leeway tolerates clock skew when checking exp.
	Leeway time.Duration
}

// DefaultValidation checks expiry with no leeway.
func DefaultValidation() Validation {
	return Validation{ValidateExp: true}
}

type options struct {
	algorithm string
	ttl       time.Duration
	leeway    time.Duration
	now       func() time.Time
}

// Option configures a Codec.
type Option func(*options)

// WithAlgorithm selects the HMAC method by JWS name (HS256, HS384, HS512).
func WithAlgorithm(name string) Option {
	return func(o *options) {
		if name != "" {
			o.algorithm = name
		}
	}
}

// WithTTL overrides the lifetime used by Generate.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithLeeway sets the leeway of the codec default validation.
func WithLeeway(leeway time.Duration) Option {
	return func(o *options) {
		if leeway >= 0 {
			o.leeway = leeway
		}
	}
}

// WithClock injects the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func defaultOptions() options {
	return options{
		algorithm: DefaultAlgorithm,
		ttl:       DefaultTTL,
		now:       time.Now,
	}
}

func hmacMethod(name string) (*jwt.SigningMethodHMAC, bool) {
	m, ok := jwt.GetSigningMethod(name).(*jwt.SigningMethodHMAC)
	return m, ok
}
