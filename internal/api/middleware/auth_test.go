package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"pizza-storefront/internal/models"
)

type fakeSessions struct {
	tokens map[string]string
}

func (f *fakeSessions) UserIDForSession(_ context.Context, token string) (string, error) {
	id, ok := f.tokens[token]
	if !ok {
		return "", models.ErrNotFound
	}
	return id, nil
}

func TestProtect(t *testing.T) {
	sessions := &fakeSessions{tokens: map[string]string{"tok-valid": "user-1"}}

	var seenUserID string
	handler := Protect(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token passes the user ID through", func(t *testing.T) {
		seenUserID = ""
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set("Authorization", "Bearer tok-valid")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", seenUserID)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success": false, "message": "not authorized"}`, rec.Body.String())
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set("Authorization", "Bearer tok-ghost")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set("Authorization", "tok-valid")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserIDWithoutSession(t *testing.T) {
	assert.Empty(t, UserID(context.Background()))
}
