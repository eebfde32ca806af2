package middleware

import (
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/memory-care/errors"
	"github.com/johnquangdev/memory-care/pkg/jwt"
)

func runAuth(t *testing.T, m *jwt.Manager, setup func(*http.Request)) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/recordings", nil)
	setup(req)
	c := e.NewContext(req, httptest.NewRecorder())

	err := EchoAuth(m)(func(c echo.Context) error { return nil })(c)
	return c, err
}

func TestEchoAuth_ValidToken(t *testing.T) {
	m := jwt.NewManager("secret", "", time.Minute)
	userID := uuid.New()
	token, _ := m.GenerateAccessToken(userID, "a@example.com", "authenticated")

	c, err := runAuth(t, m, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := GetUserID(c)
	if !ok || got != userID {
		t.Fatalf("user id = %v (%v), want %v", got, ok, userID)
	}
}

func TestEchoAuth_CookieFallback(t *testing.T) {
	m := jwt.NewManager("secret", "", time.Minute)
	token, _ := m.GenerateAccessToken(uuid.New(), "", "")

	_, err := runAuth(t, m, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEchoAuth_Rejections(t *testing.T) {
	m := jwt.NewManager("secret", "", time.Minute)
	expired, _ := jwt.NewManager("secret", "", -time.Minute).GenerateAccessToken(uuid.New(), "", "")

	tests := []struct {
		name   string
		header string
		code   errors.ErrorCode
	}{
		{"missing", "", errors.ErrorCode_UNAUTHENTICATED},
		{"garbage", "Bearer not-a-jwt", errors.ErrorCode_AUTH_INVALID_TOKEN},
		{"expired", "Bearer " + expired, errors.ErrorCode_AUTH_TOKEN_EXPIRED},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runAuth(t, m, func(r *http.Request) {
				if tt.header != "" {
					r.Header.Set("Authorization", tt.header)
				}
			})
			var appErr errors.AppError
			if !stdErrors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != tt.code || appErr.HTTPCode != http.StatusUnauthorized {
				t.Fatalf("got %s/%d, want %s/401", appErr.Code, appErr.HTTPCode, tt.code)
			}
		})
	}
}
