package campus

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Kind is the closed set of failure classes the service reports.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindMethodNotAllowed
	KindBadRequest
	KindBadQuery
	KindBadJSON
	KindBadPath
	KindUnauthorized
	KindUnprocessableEntity
	KindInternal
	KindDatabase
)

// Text codes attached to every taxonomy error.
const (
	TextCodeNotFound            = "NOT_FOUND"
	TextCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	TextCodeBadRequest          = "BAD_REQUEST"
	TextCodeBadQuery            = "BAD_QUERY"
	TextCodeBadJSON             = "BAD_JSON"
	TextCodeBadPath             = "BAD_PATH"
	TextCodeUnauthorized        = "UNAUTHORIZED"
	TextCodeUnprocessableEntity = "UNPROCESSABLE_ENTITY"
	TextCodeInternal            = "INTERNAL"
	TextCodeDatabase            = "DATABASE"
)

type kindInfo struct {
	name     string
	textCode string
	status   int
	category goerrors.Category
}

var kinds = map[Kind]kindInfo{
	KindNotFound:            {"NotFound", TextCodeNotFound, http.StatusNotFound, goerrors.CategoryNotFound},
	KindMethodNotAllowed:    {"MethodNotAllowed", TextCodeMethodNotAllowed, http.StatusMethodNotAllowed, goerrors.CategoryBadInput},
	KindBadRequest:          {"BadRequest", TextCodeBadRequest, http.StatusBadRequest, goerrors.CategoryBadInput},
	KindBadQuery:            {"BadQuery", TextCodeBadQuery, http.StatusBadRequest, goerrors.CategoryBadInput},
	KindBadJSON:             {"BadJson", TextCodeBadJSON, http.StatusBadRequest, goerrors.CategoryBadInput},
	KindBadPath:             {"BadPath", TextCodeBadPath, http.StatusBadRequest, goerrors.CategoryBadInput},
	KindUnauthorized:        {"Unauthorized", TextCodeUnauthorized, http.StatusUnauthorized, goerrors.CategoryAuth},
	KindUnprocessableEntity: {"UnprocessableEntity", TextCodeUnprocessableEntity, http.StatusUnprocessableEntity, goerrors.CategoryValidation},
	KindInternal:            {"Internal", TextCodeInternal, http.StatusInternalServerError, goerrors.CategoryInternal},
	KindDatabase:            {"Database", TextCodeDatabase, http.StatusInternalServerError, goerrors.CategoryInternal},
}

var kindsByTextCode = func() map[string]Kind {
	out := make(map[string]Kind, len(kinds))
	for k, info := range kinds {
		out[info.textCode] = k
	}
	return out
}()

func (k Kind) info() kindInfo {
	if info, ok := kinds[k]; ok {
		return info
	}
	return kinds[KindInternal]
}

// String returns the name rendered in the error envelope.
func (k Kind) String() string {
	if k == KindUnknown {
		return "Unknown"
	}
	return k.info().name
}

// Status is the HTTP status code for the kind. Unknown kinds report 500.
func (k Kind) Status() int { return k.info().status }

// TextCode is the stable machine readable code for the kind.
func (k Kind) TextCode() string { return k.info().textCode }

// NewError builds a taxonomy error of the given kind.
func NewError(kind Kind, message string) *goerrors.Error {
	info := kind.info()
	return goerrors.New(message, info.category).
		WithCode(info.status).
		WithTextCode(info.textCode)
}

// WrapError builds a taxonomy error of the given kind keeping err as source.
// A nil err behaves like NewError. Taxonomy errors are re-tagged in place
// of being nested.
func WrapError(kind Kind, err error, message string) *goerrors.Error {
	if err == nil {
		return NewError(kind, message)
	}
	info := kind.info()
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		out := richErr.Clone()
		out.Category = info.category
		if message != "" {
			out.Message = message
		}
		return out.WithCode(info.status).WithTextCode(info.textCode)
	}
	return goerrors.Wrap(err, info.category, message).
		WithCode(info.status).
		WithTextCode(info.textCode)
}

// KindOf recovers the taxonomy kind of err. Errors outside the taxonomy
// are Internal, nil is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		if k, ok := kindsByTextCode[richErr.TextCode]; ok {
			return k
		}
	}
	return KindInternal
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	return KindOf(err).Status()
}

// IsKind reports whether err belongs to kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the human readable detail carried by err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}
	return err.Error()
}

// Violations returns the field violations attached to an
// UnprocessableEntity error keyed by field name.
func Violations(err error) map[string]string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return nil
	}
	v := richErr.ValidationMap()
	if len(v) == 0 {
		return nil
	}
	return v
}

func NotFound(message string) *goerrors.Error {
	return NewError(KindNotFound, message)
}

func MethodNotAllowed(message string) *goerrors.Error {
	return NewError(KindMethodNotAllowed, message)
}

func BadRequest(message string) *goerrors.Error {
	return NewError(KindBadRequest, message)
}

// BadQuery, BadJSON and BadPath report input that could not be decoded
// from the named channel.
func BadQuery(err error) *goerrors.Error {
	return WrapError(KindBadQuery, err, errPrefix("invalid query", err))
}

func BadJSON(err error) *goerrors.Error {
	return WrapError(KindBadJSON, err, errPrefix("invalid body", err))
}

func BadPath(err error) *goerrors.Error {
	return WrapError(KindBadPath, err, errPrefix("invalid path", err))
}

func Unauthorized(message string) *goerrors.Error {
	return NewError(KindUnauthorized, message)
}

// UnprocessableEntity converts rule violations into a taxonomy error
// listing every violating field.
func UnprocessableEntity(violations error) *goerrors.Error {
	info := KindUnprocessableEntity.info()
	if violations == nil {
		return NewError(KindUnprocessableEntity, "validation failed")
	}
	return goerrors.FromOzzoValidation(violations, "validation failed").
		WithCode(info.status).
		WithTextCode(info.textCode)
}

// UnprocessableFields builds an UnprocessableEntity error from a field map.
func UnprocessableFields(violations map[string]string) *goerrors.Error {
	info := KindUnprocessableEntity.info()
	return goerrors.NewValidationFromMap("validation failed", violations).
		WithCode(info.status).
		WithTextCode(info.textCode)
}

func Internal(err error) *goerrors.Error {
	return WrapError(KindInternal, err, errText("internal error", err))
}

func Database(err error) *goerrors.Error {
	return WrapError(KindDatabase, err, errText("database error", err))
}

func errText(fallback string, err error) string {
	if err == nil {
		return fallback
	}
	return Message(err)
}

func errPrefix(prefix string, err error) string {
	if err == nil {
		return prefix
	}
	return prefix + ": " + Message(err)
}

// Errorf is a convenience for Internal errors with a formatted cause.
func Errorf(format string, args ...any) *goerrors.Error {
	return Internal(fmt.Errorf(format, args...))
}
