// Package extract decodes request input from one channel into a typed value
// and validates it before the handler runs.
package extract

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-campus"
)

// Validatable is implemented by request types carrying their own ruleset.
type Validatable interface {
	Validate() error
}

// Defaulter pre-populates optional fields before decoding.
type Defaulter interface {
	Defaults()
}

// Ruleset validates a decoded value. It returns ozzo validation.Errors for
// field violations.
type Ruleset[T any] func(T) error

// Channel names an input source, its decode step and the error reported
// when decoding fails.
type Channel struct {
	Name   string
	Decode func(c *fiber.Ctx, out any) error
	Fail   func(err error) *goerrors.Error
}

var (
	QueryChannel = Channel{
		Name: "query",
		Decode: func(c *fiber.Ctx, out any) error {
			return c.QueryParser(out)
		},
		Fail: campus.BadQuery,
	}

	PathChannel = Channel{
		Name: "path",
		Decode: func(c *fiber.Ctx, out any) error {
			return c.ParamsParser(out)
		},
		Fail: campus.BadPath,
	}

	BodyChannel = Channel{
		Name:   "body",
		Decode: decodeJSON,
		Fail:   campus.BadJSON,
	}
)

var errContentType = errors.New("expected request with `Content-Type: application/json`")

func decodeJSON(c *fiber.Ctx, out any) error {
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	if !strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
		return errContentType
	}
	body := c.Body()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}
	return c.App().Config().JSONDecoder(body, out)
}

// Extract decodes channel input into T and applies rules. Decode failures
// map to the channel kind, rule violations to UnprocessableEntity listing
// every violating field.
func Extract[T any](c *fiber.Ctx, ch Channel, rules Ruleset[T]) (T, error) {
	var value T
	if d, ok := any(&value).(Defaulter); ok {
		d.Defaults()
	}

	if err := ch.Decode(c, &value); err != nil {
		var zero T
		return zero, ch.Fail(err)
	}

	if rules == nil {
		return value, nil
	}

	if err := rules(value); err != nil {
		var zero T
		return zero, classify(err)
	}
	return value, nil
}

// Rules returns the ruleset declared by T.
func Rules[T Validatable]() Ruleset[T] {
	return func(v T) error { return v.Validate() }
}

// Query extracts T from the query string.
func Query[T Validatable](c *fiber.Ctx) (T, error) {
	return Extract(c, QueryChannel, Rules[T]())
}

// Path extracts T from the route parameters.
func Path[T Validatable](c *fiber.Ctx) (T, error) {
	return Extract(c, PathChannel, Rules[T]())
}

// Body extracts T from a JSON request body.
func Body[T Validatable](c *fiber.Ctx) (T, error) {
	return Extract(c, BodyChannel, Rules[T]())
}

func classify(err error) error {
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return campus.Internal(internal.InternalError())
	}

	var fields validation.Errors
	if errors.As(err, &fields) {
		return campus.UnprocessableEntity(fields)
	}

	var richErr *goerrors.Error
	if errors.As(err, &richErr) {
		return err
	}
	return campus.UnprocessableFields(map[string]string{"_": err.Error()})
}
