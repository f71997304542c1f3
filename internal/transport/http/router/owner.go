package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketplace-console/internal/core/auth"
	"marketplace-console/internal/core/cache"
	mdw "marketplace-console/internal/transport/http/middleware"
)

// NewOwnerEngine 运营后台（/api/admin），统一 owner 门禁
func NewOwnerEngine(d *Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		corsFor(d),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 登录态无关的认证入口
	mountAuthActions(r.Group("/api/auth"), d, auth.PortalOwner)

	// 管理端（统一会话 + owner 门禁）
	admin := r.Group("/api/admin")
	admin.Use(
		mdw.Session(d.JWT, d.Cfg.JWT.CookieName, sessionRevoker{d.Cache}),
		mdw.PortalGate(auth.PortalOwner, roleMetaLookup(d)),
	)
	MountAllOwner(admin, d)

	return r
}

func corsFor(d *Deps) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowCredentials = false
	if d.Cfg.App.Env == "prod" {
		// 生产环境带 cookie 凭证，必须收紧来源
		cfg.AllowAllOrigins = false
		cfg.AllowOriginFunc = func(origin string) bool { return origin != "" }
		cfg.AllowCredentials = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cors.New(cfg)
}

// roleMetaLookup 次级角色元数据：会话声明不带角色时兜底查库。
// 声明已带角色时门禁不会走到这里。查库结果在 redis 短暂缓存，
// 避免声明异常的会话每个请求都打一次库。
func roleMetaLookup(d *Deps) mdw.RoleMetaLookup {
	ttl := time.Duration(d.Cfg.Cache.SessionTTLMin) * time.Minute
	return func(c *gin.Context, userID string) (auth.Role, bool) {
		if userID == "" {
			return "", false
		}
		roleStr, err := cache.GetOrLoadJSON[string](d.Cache, c, "rolemeta:"+userID, ttl,
			func(ctx context.Context) (*string, error) {
				u, err := d.Users.FindByID(userID)
				if err != nil {
					return nil, err
				}
				if u == nil {
					return nil, errors.New("user not found")
				}
				return &u.Role, nil
			})
		if err != nil || roleStr == nil {
			return "", false
		}
		return auth.ParseRole(*roleStr)
	}
}
