package campus_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-campus"
)

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func newRendererApp(renderer *campus.ErrorRenderer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: renderer.Handle})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return campus.NotFound("student not found")
	})
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return campus.UnprocessableEntity(validation.Errors{"name": errors.New("cannot be blank")})
	})
	app.Get("/db", func(c *fiber.Ctx) error {
		return campus.Database(errors.New("relation \"student\" does not exist"))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("unexpected")
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return campus.JSON(c, []string{"a"})
	})
	return app
}

func TestErrorRenderer_Envelopes(t *testing.T) {
	app := newRendererApp(campus.NewErrorRenderer(nil))

	tests := []struct {
		name   string
		method string
		path   string
		status int
		kind   string
		detail any
	}{
		{"not found", http.MethodGet, "/missing", 404, "NotFound", "student not found"},
		{"unprocessable", http.MethodGet, "/invalid", 422, "UnprocessableEntity", map[string]any{"name": "cannot be blank"}},
		{"database", http.MethodGet, "/db", 500, "Database", "relation \"student\" does not exist"},
		{"plain error", http.MethodGet, "/plain", 500, "Internal", "unexpected"},
		{"unknown route", http.MethodGet, "/nowhere", 404, "NotFound", nil},
		{"wrong method", http.MethodDelete, "/missing", 405, "MethodNotAllowed", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			env := decodeEnvelope(t, resp)
			assert.EqualValues(t, tt.status, env["status_code"])
			assert.Equal(t, campus.StatusLine(tt.status), env["status"])
			assert.Equal(t, tt.kind, env["error"])
			if tt.detail != nil {
				assert.Equal(t, tt.detail, env["error_detail"])
			}
		})
	}
}

func TestErrorRenderer_RedactsInternalDetail(t *testing.T) {
	renderer := campus.NewErrorRenderer(nil)
	renderer.ExposeInternalErrors = false

	status, env := renderer.Envelope(campus.Database(errors.New("password=hunter2")))
	assert.Equal(t, 500, status)
	assert.Equal(t, "Internal Server Error", env.ErrorDetail)

	status, env = renderer.Envelope(campus.Unauthorized("not authenticated"))
	assert.Equal(t, 401, status)
	assert.Equal(t, "401 Unauthorized", env.Status)
	assert.Equal(t, "not authenticated", env.ErrorDetail)
}

func TestJSON_SuccessIsBare(t *testing.T) {
	app := newRendererApp(campus.NewErrorRenderer(nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(body))
}
