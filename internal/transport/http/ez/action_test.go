package ez_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	httpez "marketplace-console/internal/transport/http/ez"
)

func dummyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	require.NoError(t, err)
	return db
}

type echoIn struct {
	Name string `json:"name" binding:"required"`
}
type echoOut struct {
	Greeting string `json:"greeting"`
}

func actionRouter(t *testing.T, a httpez.Action[echoIn, echoOut], pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api")
	g.Use(pre...)
	httpez.RegisterAction[echoIn, echoOut](httpez.New(g), dummyDB(t), a)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAction(t *testing.T) {
	base := httpez.Action[echoIn, echoOut]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *echoIn) (echoOut, error) {
			return echoOut{Greeting: "hi " + in.Name}, nil
		},
	}

	t.Run("success returns the payload directly", func(t *testing.T) {
		w := post(actionRouter(t, base), "/api/echo", `{"name":"ann"}`)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"greeting":"hi ann"}`, w.Body.String())
	})

	t.Run("binding failure maps to 400", func(t *testing.T) {
		w := post(actionRouter(t, base), "/api/echo", `{}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "error")
	})

	t.Run("AErr code carried to the response", func(t *testing.T) {
		a := base
		a.Handler = func(c *gin.Context, _ *gorm.DB, _ *echoIn) (echoOut, error) {
			return echoOut{}, httpez.Conflict("already done")
		}
		w := post(actionRouter(t, a), "/api/echo", `{"name":"x"}`)
		require.Equal(t, http.StatusConflict, w.Code)
		require.JSONEq(t, `{"error":"already done"}`, w.Body.String())
	})

	t.Run("auth required without session is 401", func(t *testing.T) {
		a := base
		a.Auth = true
		w := post(actionRouter(t, a), "/api/echo", `{"name":"x"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("role restriction enforced", func(t *testing.T) {
		a := base
		a.Auth = true
		a.Roles = []string{"owner"}
		setVendor := func(c *gin.Context) {
			c.Set("userId", "u1")
			c.Set("role", "vendor")
		}
		w := post(actionRouter(t, a, setVendor), "/api/echo", `{"name":"x"}`)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("handler may write its own response", func(t *testing.T) {
		a := base
		a.Handler = func(c *gin.Context, _ *gorm.DB, _ *echoIn) (echoOut, error) {
			c.JSON(http.StatusForbidden, gin.H{"error": "denied", "detail": "custom"})
			return echoOut{}, nil
		}
		w := post(actionRouter(t, a), "/api/echo", `{"name":"x"}`)
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Contains(t, w.Body.String(), "custom")
	})
}
