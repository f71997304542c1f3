package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	resp "marketplace-console/internal/transport/http/response"
)

func record(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/t", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	return w
}

func TestList(t *testing.T) {
	t.Run("envelope keyed by entity name", func(t *testing.T) {
		w := record(func(c *gin.Context) {
			resp.List(c, "payouts", []string{"a", "b"}, 5, true, nil)
		})
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body["payouts"], 2)
		require.EqualValues(t, 5, body["total"])
		require.Equal(t, true, body["has_more"])
	})

	t.Run("extra block merged in", func(t *testing.T) {
		w := record(func(c *gin.Context) {
			resp.List(c, "tickets", []int{}, 0, false, gin.H{"unread": 3})
		})
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.EqualValues(t, 3, body["unread"])
		require.Equal(t, false, body["has_more"])
	})
}

func TestErr(t *testing.T) {
	t.Run("message and status carried through", func(t *testing.T) {
		w := record(func(c *gin.Context) { resp.Err(c, http.StatusConflict, "already held") })
		require.Equal(t, http.StatusConflict, w.Code)
		require.JSONEq(t, `{"error":"already held"}`, w.Body.String())
	})

	t.Run("empty message falls back to default", func(t *testing.T) {
		w := record(func(c *gin.Context) { resp.Err(c, http.StatusForbidden, "") })
		require.Equal(t, http.StatusForbidden, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotEmpty(t, body["error"])
	})
}
