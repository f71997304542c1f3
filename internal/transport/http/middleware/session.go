package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace-console/internal/core/auth"
	resp "marketplace-console/internal/transport/http/response"
)

// Revoker 登出后的会话吊销名单（redis 实现）
type Revoker interface {
	IsRevoked(c *gin.Context, jti string) bool
}

// Session 解析会话：优先 Authorization: Bearer，其次会话 Cookie
// （面板请求都带 cookie 凭证）。解析成功后写入 userId/role/email/super。
func Session(j *auth.JWTer, cookieName string, rev Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
			token = strings.TrimPrefix(ah, "Bearer ")
		} else if ck, err := c.Cookie(cookieName); err == nil {
			token = ck
		}
		if token == "" {
			resp.AbortErr(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(token)
		if err != nil {
			resp.AbortErr(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if rev != nil && rev.IsRevoked(c, claims.ID) {
			resp.AbortErr(c, http.StatusUnauthorized, "session revoked")
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Set("email", claims.Email)
		c.Set("super", claims.Super)
		c.Next()
	}
}
