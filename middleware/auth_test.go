package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func protected(roles ...string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetUserIDFromContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return Authenticate(testSecret)(Authorize(roles...)(ok))
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	valid := jwt.MapClaims{"user_id": 7, "role": RoleOrganizer, "exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other"), valid), http.StatusUnauthorized},
		{"expired", signToken(t, jwt.SigningMethodHS256, testSecret,
			jwt.MapClaims{"user_id": 7, "role": RoleOrganizer, "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"wrong algorithm", signToken(t, jwt.SigningMethodHS512, testSecret, valid), http.StatusUnauthorized},
		{"player role", signToken(t, jwt.SigningMethodHS256, testSecret,
			jwt.MapClaims{"user_id": 7, "role": "player"}), http.StatusForbidden},
		{"organizer", signToken(t, jwt.SigningMethodHS256, testSecret, valid), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(protected(RoleOrganizer, RoleAdmin), tt.token)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	id, err := GetUserIDFromContext(WithClaims(context.Background(), jwt.MapClaims{"user_id": float64(12)}))
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	id, err = GetUserIDFromContext(WithClaims(context.Background(), jwt.MapClaims{"user_id": "15"}))
	require.NoError(t, err)
	assert.Equal(t, 15, id)

	_, err = GetUserIDFromContext(WithClaims(context.Background(), jwt.MapClaims{"user_id": 1.5}))
	assert.Error(t, err)

	_, err = GetUserIDFromContext(context.Background())
	assert.Error(t, err)
}
