package campus

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// ErrorEnvelope is the JSON body of every failed request.
type ErrorEnvelope struct {
	StatusCode  int    `json:"status_code"`
	Status      string `json:"status"`
	Error       string `json:"error"`
	ErrorDetail any    `json:"error_detail,omitempty"`
}

// ErrorRenderer turns errors into envelopes and serves as the fiber
// application error handler.
type ErrorRenderer struct {
	Logger Logger
	// ExposeInternalErrors echoes Internal and Database causes to clients.
	ExposeInternalErrors bool
}

// NewErrorRenderer returns a renderer that echoes internal causes.
func NewErrorRenderer(logger Logger) *ErrorRenderer {
	return &ErrorRenderer{Logger: LoggerOrDefault(logger), ExposeInternalErrors: true}
}

// Envelope builds the status code and body for err.
func (r *ErrorRenderer) Envelope(err error) (int, ErrorEnvelope) {
	err = fromFiberError(err)
	kind := KindOf(err)
	status := kind.Status()

	env := ErrorEnvelope{
		StatusCode: status,
		Status:     StatusLine(status),
		Error:      kind.String(),
	}

	switch kind {
	case KindUnprocessableEntity:
		if v := Violations(err); len(v) > 0 {
			env.ErrorDetail = v
		} else {
			env.ErrorDetail = Message(err)
		}
	case KindInternal, KindDatabase:
		if r.ExposeInternalErrors {
			env.ErrorDetail = Message(err)
		} else {
			env.ErrorDetail = http.StatusText(status)
		}
	default:
		if msg := Message(err); msg != "" {
			env.ErrorDetail = msg
		}
	}
	return status, env
}

// Handle implements fiber.ErrorHandler.
func (r *ErrorRenderer) Handle(c *fiber.Ctx, err error) error {
	status, env := r.Envelope(err)
	logger := LoggerOrDefault(r.Logger)

	if status >= http.StatusInternalServerError {
		args := []any{
			"method", c.Method(),
			"path", c.Path(),
			"kind", env.Error,
			"error", err,
		}
		var richErr *goerrors.Error
		if errors.As(err, &richErr) && len(richErr.Metadata) > 0 {
			args = append(args, "details", print.MaybePrettyJSON(richErr.Metadata))
		}
		logger.Error("request failed", args...)
	} else {
		logger.Debug("request rejected",
			"method", c.Method(),
			"path", c.Path(),
			"kind", env.Error,
			"error", Message(err),
		)
	}

	return c.Status(status).JSON(env)
}

// StatusLine renders a status as "401 Unauthorized".
func StatusLine(status int) string {
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}

// JSON writes a bare success body.
func JSON(c *fiber.Ctx, v any) error {
	return c.JSON(v)
}

// fromFiberError maps framework errors raised before any handler runs.
func fromFiberError(err error) error {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return err
	}
	switch fe.Code {
	case fiber.StatusNotFound:
		return NotFound(fe.Message)
	case fiber.StatusMethodNotAllowed:
		return MethodNotAllowed(fe.Message)
	case fiber.StatusUnauthorized:
		return Unauthorized(fe.Message)
	case fiber.StatusUnprocessableEntity:
		return NewError(KindUnprocessableEntity, fe.Message)
	}
	if fe.Code >= 400 && fe.Code < 500 {
		return BadRequest(fe.Message)
	}
	return Internal(fe)
}
