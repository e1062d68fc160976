package token

import (
	"encoding/json"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const expKey = "exp"

var errReservedExp = errors.New(`payload must not define an "exp" field`)

// envelope is the on-wire claim set: the payload fields flattened at the
// top level next to exp.
type envelope[T any] struct {
	Payload   T
	ExpiresAt *jwt.NumericDate
}

func (e envelope[T]) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.New("payload must encode as a JSON object")
	}
	if _, ok := fields[expKey]; ok {
		return nil, errReservedExp
	}

	if e.ExpiresAt != nil {
		exp, err := json.Marshal(e.ExpiresAt)
		if err != nil {
			return nil, err
		}
		fields[expKey] = exp
	}

	return json.Marshal(fields)
}

func (e *envelope[T]) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if exp, ok := fields[expKey]; ok {
		var date jwt.NumericDate
		if err := json.Unmarshal(exp, &date); err != nil {
			return jwt.ErrInvalidType
		}
		e.ExpiresAt = &date
		delete(fields, expKey)
	}

	rest, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(rest, &e.Payload)
}

func (e envelope[T]) GetExpirationTime() (*jwt.NumericDate, error) { return e.ExpiresAt, nil }
func (e envelope[T]) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (e envelope[T]) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (e envelope[T]) GetIssuer() (string, error)                   { return "", nil }
func (e envelope[T]) GetSubject() (string, error)                  { return "", nil }
func (e envelope[T]) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }
