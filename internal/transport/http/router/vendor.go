package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	"marketplace-console/internal/core/auth"
	"marketplace-console/internal/domain"
	mdw "marketplace-console/internal/transport/http/middleware"
	resp "marketplace-console/internal/transport/http/response"
)

// NewVendorEngine 商家后台（/api/vendor）
func NewVendorEngine(d *Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(50, 100),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.Ginzap(d.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		corsFor(d),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	mountAuthActions(r.Group("/api/auth"), d, auth.PortalVendor)

	vendor := r.Group("/api/vendor")
	vendor.Use(
		mdw.Session(d.JWT, d.Cfg.JWT.CookieName, sessionRevoker{d.Cache}),
		mdw.PortalGate(auth.PortalVendor, roleMetaLookup(d)),
		vendorCtx(d),
	)
	MountAllVendor(vendor, d)

	return r
}

// vendorCtx 解析当前账号对应的商家，后续面板都用 vendorId 过滤。
// 运营身份进来排查问题时没有商家档案，vendorId 留空、各面板按空集处理。
func vendorCtx(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("portalRole") == string(auth.RoleOwner) {
			c.Next()
			return
		}
		var v domain.Vendor
		err := d.DB.WithContext(c).Where("user_id = ?", c.GetString("userId")).First(&v).Error
		if err != nil {
			resp.AbortErr(c, http.StatusForbidden, "vendor profile not found")
			return
		}
		c.Set("vendorId", v.ID)
		c.Set("storeName", v.StoreName)
		c.Next()
	}
}
