package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-console/internal/core/auth"
	resp "marketplace-console/internal/transport/http/response"
)

// RoleMetaLookup 次级角色元数据（会话声明不够用时才查）
type RoleMetaLookup func(c *gin.Context, userID string) (auth.Role, bool)

// PortalGate 门户门禁。关键时序约定：会话声明里已带足够角色时
// 直接放行，不等元数据查询——不能让有效会话卡在慢的次级查询后面。
// 声明不足时才回查元数据；确认缺失则按查表结果拒绝。
func PortalGate(portal auth.Portal, meta RoleMetaLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleStr := c.GetString("role")
		role, ok := auth.ParseRole(roleStr)
		if !ok && meta != nil {
			role, ok = meta(c, c.GetString("userId"))
		}
		if !ok {
			resp.AbortErr(c, http.StatusForbidden, "unknown role")
			return
		}

		d := auth.PortalAccess(role, portal)
		if !d.Allowed {
			// 拒绝不是故障：结构化决策交给前端分别应用
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "portal access denied",
				"decision": d,
			})
			return
		}
		if d.Banner != "" {
			c.Set("portalBanner", d.Banner)
		}
		c.Set("portalRole", string(role))
		c.Next()
	}
}
