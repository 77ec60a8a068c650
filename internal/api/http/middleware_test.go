package http_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/api/dto"
	httptransport "github.com/spec-kit/auth-service/internal/api/http"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/pkg/util"
)

func newDispatchApp() (*fiber.App, *observability.Metrics) {
	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	return app, metrics
}

func getErrorResponse(t *testing.T, app *fiber.App, path string) (int, dto.ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error payload: %v", err)
	}
	return resp.StatusCode, body
}

func TestDispatch_NamedKinds(t *testing.T) {
	t.Parallel()
	app, metrics := newDispatchApp()

	app.Get("/denied", func(c *fiber.Ctx) error { return util.NewAuthorizationDenied("no rights") })
	app.Get("/refresh", func(c *fiber.Ctx) error { return util.NewRefreshTokenInvalid("bad refresh") })
	app.Get("/token-user", func(c *fiber.Ctx) error { return util.NewTokenUserNotFound("user gone") })
	app.Get("/login-user", func(c *fiber.Ctx) error { return util.NewLoginUserNotFound("no such login") })
	app.Get("/password", func(c *fiber.Ctx) error { return util.NewPasswordIncorrect("wrong password") })

	cases := []struct {
		path    string
		code    int
		message string
	}{
		{"/denied", 300, "no rights"},
		{"/refresh", 301, "bad refresh"},
		{"/token-user", 302, "user gone"},
		{"/login-user", 303, "no such login"},
		{"/password", 304, "wrong password"},
	}
	for _, tc := range cases {
		status, body := getErrorResponse(t, app, tc.path)
		if status != 401 {
			t.Errorf("%s: status = %d, want 401", tc.path, status)
		}
		if body.ErrorCode != tc.code {
			t.Errorf("%s: errorCode = %d, want %d", tc.path, body.ErrorCode, tc.code)
		}
		if body.Message != tc.message {
			t.Errorf("%s: message = %q, want %q", tc.path, body.Message, tc.message)
		}
		if body.Time.IsZero() {
			t.Errorf("%s: missing response time", tc.path)
		}
		if body.ValidErrors != nil {
			t.Errorf("%s: validErrors should be absent", tc.path)
		}
		if metrics.ErrorCount(tc.path, "GET", tc.code) != 1 {
			t.Errorf("%s: error counter not recorded", tc.path)
		}
	}
}

func TestDispatch_ValidationKind(t *testing.T) {
	t.Parallel()
	app, _ := newDispatchApp()

	app.Get("/invalid", func(c *fiber.Ctx) error {
		return util.NewValidationError([]util.FieldViolation{
			{Field: "name", Message: "blank"},
			{Field: "email", Message: "invalid"},
		})
	})

	status, body := getErrorResponse(t, app, "/invalid")
	if status != 422 {
		t.Errorf("status = %d, want 422", status)
	}
	if body.ErrorCode != 200 {
		t.Errorf("errorCode = %d, want 200", body.ErrorCode)
	}
	if body.Message != util.ValidationMessage {
		t.Errorf("message = %q, want fixed validation message", body.Message)
	}
	// field list keeps the reported order
	if len(body.ValidErrors) != 2 ||
		body.ValidErrors[0].Field != "name" ||
		body.ValidErrors[1].Field != "email" {
		t.Errorf("validErrors = %v", body.ValidErrors)
	}
}

func TestDispatch_UnclassifiedHidesCause(t *testing.T) {
	t.Parallel()
	app, _ := newDispatchApp()

	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("connection string with password")
	})

	status, body := getErrorResponse(t, app, "/boom")
	if status != 500 {
		t.Errorf("status = %d, want 500", status)
	}
	if body.ErrorCode != 100 {
		t.Errorf("errorCode = %d, want 100", body.ErrorCode)
	}
	if body.Message != util.UnclassifiedMessage {
		t.Errorf("message = %q, internal detail must not leak", body.Message)
	}
}

func TestDispatch_PanicRecovered(t *testing.T) {
	t.Parallel()
	app, _ := newDispatchApp()

	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("kaboom")
	})

	status, body := getErrorResponse(t, app, "/panic")
	if status != 500 {
		t.Errorf("status = %d, want 500", status)
	}
	if body.ErrorCode != 100 {
		t.Errorf("errorCode = %d, want 100", body.ErrorCode)
	}
}
