package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"marketplace-console/internal/core/auth"
	mdw "marketplace-console/internal/transport/http/middleware"
)

type listRevoker struct{ revoked map[string]bool }

func (r listRevoker) IsRevoked(_ *gin.Context, jti string) bool { return r.revoked[jti] }

func sessionRouter(j *auth.JWTer, rev mdw.Revoker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mdw.Session(j, "mc_session", rev))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uid":  c.GetString("userId"),
			"role": c.GetString("role"),
		})
	})
	return r
}

func TestSession(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "mc", TTL: time.Hour}

	t.Run("bearer token accepted", func(t *testing.T) {
		tok, _, err := j.Issue("u1", "vendor", "v@example.com", false)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		sessionRouter(j, nil).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"uid":"u1"`)
		require.Contains(t, w.Body.String(), `"role":"vendor"`)
	})

	t.Run("cookie accepted when no bearer", func(t *testing.T) {
		tok, _, err := j.Issue("u2", "owner", "o@example.com", true)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "mc_session", Value: tok})
		sessionRouter(j, nil).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"uid":"u2"`)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		sessionRouter(j, nil).ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer nope")
		sessionRouter(j, nil).ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked jti rejected", func(t *testing.T) {
		tok, jti, err := j.Issue("u3", "vendor", "x@example.com", false)
		require.NoError(t, err)

		rev := listRevoker{revoked: map[string]bool{jti: true}}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		sessionRouter(j, rev).ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "session revoked")
	})
}
