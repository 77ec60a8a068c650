package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/api/dto"
	httptransport "github.com/spec-kit/auth-service/internal/api/http"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/observability"
)

type staticUsers struct {
	users map[string]*domain.User
}

func (r *staticUsers) Create(context.Context, *domain.User) error { return nil }
func (r *staticUsers) Update(context.Context, *domain.User) error { return nil }

func (r *staticUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *staticUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (r *staticUsers) List(context.Context) ([]*domain.User, error) { return nil, nil }

type flowEnv struct {
	app   *fiber.App
	codec *auth.Codec
}

func setupFlowEnv(t *testing.T) *flowEnv {
	t.Helper()

	repo := &staticUsers{users: map[string]*domain.User{
		"member-1": {ID: "member-1", Name: "alice", Email: "alice@example.com", Role: domain.RoleMember},
		"admin-1":  {ID: "admin-1", Name: "root", Email: "root@example.com", Role: domain.RoleAdmin},
	}}

	codec := auth.NewCodec(auth.NewSigningKey("test-secret"), time.Hour, 24*time.Hour)
	validator := auth.NewValidator(codec, zap.NewNop())
	entry := httptransport.NewAuthenticationEntryPoint(zap.NewNop())
	middleware := auth.NewMiddleware(validator, repo, entry)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	users := app.Group("/users", middleware.Handle)
	users.Get("/me", func(c *fiber.Ctx) error {
		principal, _ := auth.PrincipalFromContext(c)
		return c.JSON(fiber.Map{"id": principal.User.ID})
	})
	users.Get("/", auth.RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	return &flowEnv{app: app, codec: codec}
}

func (e *flowEnv) get(t *testing.T, path, token string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return resp.StatusCode, body
}

func decodeError(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decoding error payload %q: %v", body, err)
	}
	return out
}

func TestProtectedRoute_NoToken(t *testing.T) {
	t.Parallel()
	env := setupFlowEnv(t)

	// no authenticated context: entry point writes the envelope directly
	status, body := env.get(t, "/users/me", "")
	if status != 401 {
		t.Errorf("status = %d, want 401", status)
	}
	if out := decodeError(t, body); out.ErrorCode != 305 {
		t.Errorf("errorCode = %d, want 305", out.ErrorCode)
	}
}

func TestProtectedRoute_GarbageToken(t *testing.T) {
	t.Parallel()
	env := setupFlowEnv(t)

	status, body := env.get(t, "/users/me", "not.a.token")
	if status != 401 {
		t.Errorf("status = %d, want 401", status)
	}
	if out := decodeError(t, body); out.ErrorCode != 305 {
		t.Errorf("errorCode = %d, want 305", out.ErrorCode)
	}
}

func TestProtectedRoute_ExpiredToken(t *testing.T) {
	t.Parallel()
	env := setupFlowEnv(t)

	expired, _, err := env.codec.Generate("member-1", -time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	status, body := env.get(t, "/users/me", expired)
	if status != 401 {
		t.Errorf("status = %d, want 401", status)
	}
	if out := decodeError(t, body); out.ErrorCode != 305 {
		t.Errorf("errorCode = %d, want 305", out.ErrorCode)
	}
}

func TestProtectedRoute_UserNoLongerExists(t *testing.T) {
	t.Parallel()
	env := setupFlowEnv(t)

	token, _, err := env.codec.Generate("deleted-user", time.Hour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// verified token, unresolvable id: taxonomy code 302 via the dispatcher
	status, body := env.get(t, "/users/me", token)
	if status != 401 {
		t.Errorf("status = %d, want 401", status)
	}
	if out := decodeError(t, body); out.ErrorCode != 302 {
		t.Errorf("errorCode = %d, want 302", out.ErrorCode)
	}
}

func TestProtectedRoute_ValidToken(t *testing.T) {
	t.Parallel()
	env := setupFlowEnv(t)

	token, _, err := env.codec.Generate("member-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	status, body := env.get(t, "/users/me", token)
	if status != 200 {
		t.Fatalf("status = %d, want 200, body %s", status, body)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if out.ID != "member-1" {
		t.Errorf("principal id = %q, want member-1", out.ID)
	}
}

func TestAdminRoute_MemberDenied(t *testing.T) {
	t.Parallel()
	env := setupFlowEnv(t)

	token, _, err := env.codec.Generate("member-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// authenticated but insufficient rights: code 300, not unauthenticated
	status, body := env.get(t, "/users/", token)
	if status != 401 {
		t.Errorf("status = %d, want 401", status)
	}
	if out := decodeError(t, body); out.ErrorCode != 300 {
		t.Errorf("errorCode = %d, want 300", out.ErrorCode)
	}
}

func TestAdminRoute_AdminAllowed(t *testing.T) {
	t.Parallel()
	env := setupFlowEnv(t)

	token, _, err := env.codec.Generate("admin-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	status, _ := env.get(t, "/users/", token)
	if status != 200 {
		t.Errorf("status = %d, want 200", status)
	}
}
