package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func issue(t *testing.T, v *TokenVerifier, session *domain.Session) string {
	t.Helper()
	token, err := v.Issue(session, time.Now(), time.Hour)
	require.NoError(t, err)
	return token
}

func sessionEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("X-User", session.UserID)
		w.Header().Set("X-Role", string(session.Role))
		w.WriteHeader(http.StatusOK)
	})
}

func TestVerify_RoundTripsSession(t *testing.T) {
	v := NewTokenVerifier(testSecret, "auth.barbershop")
	in := &domain.Session{UserID: "u1", Role: domain.RoleCustomer, Name: "Dana", Phone: "0501234567"}

	got, err := v.Verify(issue(t, v, in))
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestVerify_Rejects(t *testing.T) {
	v := NewTokenVerifier(testSecret, "auth.barbershop")
	now := time.Now()

	sign := func(method jwt.SigningMethod, key interface{}, claims Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() Claims {
		return Claims{
			Role: "customer",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				Issuer:    "auth.barbershop",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))

	noExp := valid()
	noExp.ExpiresAt = nil

	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"

	badRole := valid()
	badRole.Role = "root"

	noSubject := valid()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: sign(jwt.SigningMethodHS256, []byte("other"), valid())},
		{name: "wrong algorithm", token: sign(jwt.SigningMethodHS512, []byte(testSecret), valid())},
		{name: "expired", token: sign(jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{name: "no expiration", token: sign(jwt.SigningMethodHS256, []byte(testSecret), noExp)},
		{name: "wrong issuer", token: sign(jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer)},
		{name: "unknown role", token: sign(jwt.SigningMethodHS256, []byte(testSecret), badRole)},
		{name: "empty subject", token: sign(jwt.SigningMethodHS256, []byte(testSecret), noSubject)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuth(t *testing.T) {
	v := NewTokenVerifier(testSecret, "")
	h := Auth(v, nopLogger{})(sessionEcho())

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, v, &domain.Session{UserID: "u7", Role: domain.RoleAdmin}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u7", rec.Header().Get("X-User"))
		assert.Equal(t, "admin", rec.Header().Get("X-Role"))
	})
}

func TestOptionalAuth_AllowsAnonymous(t *testing.T) {
	v := NewTokenVerifier(testSecret, "")
	h := OptionalAuth(v, nopLogger{})(sessionEcho())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slots", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/slots", nil)
	req.Header.Set("Authorization", "Bearer broken")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	v := NewTokenVerifier(testSecret, "")
	h := Auth(v, nopLogger{})(RequireAdmin(sessionEcho()))

	tests := []struct {
		name string
		role domain.Role
		want int
	}{
		{name: "admin", role: domain.RoleAdmin, want: http.StatusOK},
		{name: "customer", role: domain.RoleCustomer, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/admin/bookings/1", nil)
			req.Header.Set("Authorization", "Bearer "+issue(t, v, &domain.Session{UserID: "u1", Role: tt.role}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	RequireAdmin(sessionEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/expenses", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
