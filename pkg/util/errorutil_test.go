package util_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/spec-kit/auth-service/pkg/util"
)

func TestKind_CodeAndStatusPairs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind   util.Kind
		code   int
		status int
	}{
		{util.KindUnclassified, 100, http.StatusInternalServerError},
		{util.KindValidation, 200, http.StatusUnprocessableEntity},
		{util.KindAuthorizationDenied, 300, http.StatusUnauthorized},
		{util.KindRefreshTokenInvalid, 301, http.StatusUnauthorized},
		{util.KindTokenUserNotFound, 302, http.StatusUnauthorized},
		{util.KindLoginUserNotFound, 303, http.StatusUnauthorized},
		{util.KindPasswordIncorrect, 304, http.StatusUnauthorized},
		{util.KindUnauthenticated, 305, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		if got := tc.kind.ErrorCode(); got != tc.code {
			t.Errorf("%s: ErrorCode = %d, want %d", tc.kind, got, tc.code)
		}
		if got := tc.kind.HTTPStatus(); got != tc.status {
			t.Errorf("%s: HTTPStatus = %d, want %d", tc.kind, got, tc.status)
		}
	}
}

func TestConstructors_CarryMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		kind util.Kind
	}{
		{util.NewAuthorizationDenied("denied"), util.KindAuthorizationDenied},
		{util.NewRefreshTokenInvalid("denied"), util.KindRefreshTokenInvalid},
		{util.NewTokenUserNotFound("denied"), util.KindTokenUserNotFound},
		{util.NewLoginUserNotFound("denied"), util.KindLoginUserNotFound},
		{util.NewPasswordIncorrect("denied"), util.KindPasswordIncorrect},
		{util.NewUnauthenticated("denied"), util.KindUnauthenticated},
	}
	for _, tc := range cases {
		authErr := util.ToAuthError(tc.err)
		if authErr.Kind != tc.kind {
			t.Errorf("kind = %v, want %v", authErr.Kind, tc.kind)
		}
		if authErr.Message != "denied" {
			t.Errorf("message = %q, want the constructor's message", authErr.Message)
		}
	}
}

func TestToAuthError_WrapsUnknownAsUnclassified(t *testing.T) {
	t.Parallel()

	cause := errors.New("pool exhausted")
	authErr := util.ToAuthError(cause)

	if authErr.Kind != util.KindUnclassified {
		t.Errorf("kind = %v, want unclassified", authErr.Kind)
	}
	// client-facing message is generic; the cause stays reachable for logs
	if authErr.Message != util.UnclassifiedMessage {
		t.Errorf("message = %q, want generic", authErr.Message)
	}
	if !errors.Is(authErr, cause) {
		t.Error("unclassified error should unwrap to its cause")
	}
}

func TestValidationError_PreservesOrder(t *testing.T) {
	t.Parallel()

	err := util.NewValidationError([]util.FieldViolation{
		{Field: "name", Message: "blank"},
		{Field: "email", Message: "invalid"},
		{Field: "password", Message: "short"},
	})
	authErr := util.ToAuthError(err)

	if authErr.Message != util.ValidationMessage {
		t.Errorf("message = %q, want fixed validation message", authErr.Message)
	}
	want := []string{"name", "email", "password"}
	if len(authErr.Violations) != len(want) {
		t.Fatalf("violations = %d, want %d", len(authErr.Violations), len(want))
	}
	for i, field := range want {
		if authErr.Violations[i].Field != field {
			t.Errorf("violation[%d].Field = %q, want %q", i, authErr.Violations[i].Field, field)
		}
	}
}
