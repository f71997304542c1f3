package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"marketplace-console/internal/core/auth"
	mdw "marketplace-console/internal/transport/http/middleware"
)

func gateRouter(portal auth.Portal, sessionRole string, meta mdw.RoleMetaLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "u1")
		c.Set("role", sessionRole)
	})
	r.Use(mdw.PortalGate(portal, meta))
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"banner": c.GetString("portalBanner")})
	})
	return r
}

func doGet(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestPortalGate(t *testing.T) {
	t.Run("owner claim passes without metadata lookup", func(t *testing.T) {
		meta := func(c *gin.Context, userID string) (auth.Role, bool) {
			t.Fatal("metadata lookup must not run when the claim is sufficient")
			return "", false
		}
		w := doGet(gateRouter(auth.PortalOwner, "owner", meta))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("vendor denied from owner portal with structured decision", func(t *testing.T) {
		w := doGet(gateRouter(auth.PortalOwner, "vendor", nil))
		require.Equal(t, http.StatusForbidden, w.Code)

		var body struct {
			Error    string        `json:"error"`
			Decision auth.Decision `json:"decision"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "portal access denied", body.Error)
		require.False(t, body.Decision.Allowed)
		require.NotNil(t, body.Decision.Toast)
	})

	t.Run("owner sees banner on vendor portal", func(t *testing.T) {
		w := doGet(gateRouter(auth.PortalVendor, "owner", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Banner string `json:"banner"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotEmpty(t, body.Banner)
	})

	t.Run("empty claim falls back to metadata", func(t *testing.T) {
		meta := func(c *gin.Context, userID string) (auth.Role, bool) {
			require.Equal(t, "u1", userID)
			return auth.RoleOwner, true
		}
		w := doGet(gateRouter(auth.PortalOwner, "", meta))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty claim and missing metadata rejected", func(t *testing.T) {
		meta := func(c *gin.Context, userID string) (auth.Role, bool) { return "", false }
		w := doGet(gateRouter(auth.PortalOwner, "", meta))
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
