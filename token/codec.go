package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-campus"
)

// Codec signs and verifies HMAC tokens carrying a payload of type T.
// A Codec is immutable after construction and safe for concurrent use.
type Codec[T any] struct {
	key        []byte
	method     *jwt.SigningMethodHMAC
	ttl        time.Duration
	validation Validation
	now        func() time.Time
}

// NewCodec builds a codec over a raw key.
func NewCodec[T any](key []byte, opts ...Option) (*Codec[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if len(key) == 0 {
		return nil, campus.Internal(errors.New("signing key must not be empty"))
	}

	method, ok := hmacMethod(o.algorithm)
	if !ok {
		return nil, campus.Internal(fmt.Errorf("algorithm %q does not match the symmetric key family", o.algorithm))
	}

	k := make([]byte, len(key))
	copy(k, key)

	return &Codec[T]{
		key:    k,
		method: method,
		ttl:    o.ttl,
		validation: Validation{
			ValidateExp: true,
			Leeway:      o.leeway,
		},
		now: o.now,
	}, nil
}

// NewCodecFromBase64 decodes a standard base64 secret once and builds a
// codec over it.
func NewCodecFromBase64[T any](secret string, opts ...Option) (*Codec[T], error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, campus.WrapError(campus.KindInternal, err, "secret key is not valid base64")
	}
	return NewCodec[T](key, opts...)
}

// TTL is the lifetime applied by Generate.
func (c *Codec[T]) TTL() time.Duration { return c.ttl }

// Algorithm is the JWS name of the signing method.
func (c *Codec[T]) Algorithm() string { return c.method.Alg() }

// DefaultValidation is the validation applied by Verify.
func (c *Codec[T]) DefaultValidation() Validation { return c.validation }

// Generate signs payload with the default lifetime.
func (c *Codec[T]) Generate(payload T) (string, error) {
	return c.GenerateWithTTL(payload, c.ttl)
}

// GenerateWithTTL signs payload expiring ttl from now.
func (c *Codec[T]) GenerateWithTTL(payload T, ttl time.Duration) (string, error) {
	return c.Encode(payload, c.now().Add(ttl))
}

// Encode signs payload with an explicit expiry. Identical inputs produce
// identical tokens.
func (c *Codec[T]) Encode(payload T, expiresAt time.Time) (string, error) {
	claims := envelope[T]{
		Payload:   payload,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", campus.WrapError(campus.KindInternal, err, "failed to sign token: "+err.Error())
	}
	return signed, nil
}

// Verify decodes tokenString with the codec default validation.
func (c *Codec[T]) Verify(tokenString string) (T, error) {
	return c.Decode(tokenString, c.validation)
}

// Decode checks signature and algorithm, then expiry when rules ask for
// it, and returns the payload. Expiry is compared in whole seconds, the
// resolution of the exp claim. Every failure is Unauthorized.
func (c *Codec[T]) Decode(tokenString string, rules Validation) (T, error) {
	var zero T

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
		jwt.WithStrictDecoding(),
	)

	claims := &envelope[T]{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		return zero, unauthorized(reason(err))
	}
	if !token.Valid {
		return zero, unauthorized("token is invalid")
	}

	if rules.ValidateExp {
		if claims.ExpiresAt == nil {
			return zero, unauthorized("token has no expiration")
		}
		if c.now().Unix() > claims.ExpiresAt.Unix()+int64(rules.Leeway/time.Second) {
			return zero, unauthorized("token is expired")
		}
	}

	return claims.Payload, nil
}

// IsExpired reports whether err is an expiry rejection from Decode.
func IsExpired(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Metadata == nil {
		return false
	}
	return richErr.Metadata["reason"] == "token is expired"
}

func unauthorized(why string) error {
	return campus.Unauthorized(why).WithMetadata(map[string]any{"reason": why})
}

func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "token is malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "token signature is invalid"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "token is unverifiable"
	default:
		return err.Error()
	}
}
