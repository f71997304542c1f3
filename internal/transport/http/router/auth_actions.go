package router

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/core/auth"
	"marketplace-console/internal/core/cache"
	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
	mdw "marketplace-console/internal/transport/http/middleware"
	"marketplace-console/pkg/utils"
)

// sessionRevoker 登出吊销名单（redis，按 jti）
type sessionRevoker struct{ c *cache.Cache }

func (r sessionRevoker) IsRevoked(c *gin.Context, jti string) bool {
	if jti == "" {
		return false
	}
	return r.c.Exists(c, revokedKey(jti))
}

func revokedKey(jti string) string { return "session:revoked:" + jti }

type profileOut struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	IsSuperAdmin     bool   `json:"is_super_admin"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

func toProfile(u *domain.User) profileOut {
	return profileOut{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             u.Role,
		IsSuperAdmin:     u.IsSuperAdmin,
		TwoFactorEnabled: u.TwoFactorEnabled,
	}
}

type loginOut struct {
	Token             string        `json:"token,omitempty"`
	User              *profileOut   `json:"user,omitempty"`
	Decision          auth.Decision `json:"decision"`
	TwoFactorRequired bool          `json:"two_factor_required,omitempty"`
	ChallengeID       string        `json:"challenge_id,omitempty"`
	UserID            string        `json:"user_id,omitempty"`
}

func mountAuthActions(g *gin.RouterGroup, d *Deps, portal auth.Portal) {
	ez := httpez.New(g)

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	httpez.RegisterAction[loginIn, loginOut](ez, d.DB, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *loginIn) (loginOut, error) {
			email := strings.ToLower(strings.TrimSpace(in.Email))

			var u domain.User
			err := tx.Where("email = ?", email).First(&u).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loginOut{}, httpez.Unauthorized("invalid credentials")
			}
			if err != nil {
				return loginOut{}, httpez.Internal("login failed", err)
			}
			if !utils.CheckPassword(in.Password, u.PasswordHash) {
				return loginOut{}, httpez.Unauthorized("invalid credentials")
			}
			if u.Status == domain.UserSuspended {
				return loginOut{}, httpez.Forbidden("account suspended")
			}

			role, ok := auth.ParseRole(u.Role)
			if !ok {
				return loginOut{}, httpez.Forbidden("unknown role")
			}

			// 门禁查表；拒绝时把 decision 一并带回去，前端照着渲染
			decision := auth.PortalAccess(role, portal)
			if !decision.Allowed {
				c.JSON(http.StatusForbidden, gin.H{
					"error":    "portal access denied",
					"decision": decision,
				})
				return loginOut{}, nil
			}

			// 资料同步没就绪：明确可重试，不发会话
			if !u.ProfileSynced {
				return loginOut{}, httpez.Conflict("profile not ready, retry shortly")
			}

			// 按角色要求二次验证；强制但账号未开启 → 封死登录
			if d.Cfg.RoleNeeds2FA(string(role)) {
				decision.Requires2FA = true
				chID, err := d.TwoFactor.Require(c, u.ID, u.Email, u.Name, u.TwoFactorEnabled)
				if errors.Is(err, auth.ErrTwoFactorUnavailable) {
					return loginOut{}, httpez.Forbidden(
						"two-factor authentication is mandatory for this account but not enabled; enable it in account security first")
				}
				if err != nil {
					return loginOut{}, httpez.Internal("issue 2fa challenge failed", err)
				}
				d.Audit.Record(c, u.ID, domain.AuditCategoryAuth, "login.2fa_challenged", u.ID, string(portal))
				return loginOut{
					Decision:          decision,
					TwoFactorRequired: true,
					ChallengeID:       chID,
					UserID:            u.ID, // 会话尚未建立，verify 必须显式带 uid
				}, nil
			}

			out, err := issueSession(c, d, &u, decision)
			if err != nil {
				return loginOut{}, err
			}
			d.Audit.Record(c, u.ID, domain.AuditCategoryAuth, "login", u.ID, string(portal))
			return out, nil
		},
	})

	// 重发挑战码。未认证接口：只允许续发登录已产生的挑战，且带冷却，
	// 不然拿着别人的 user_id 就能刷邮件
	type requireIn struct {
		UserID string `json:"user_id" binding:"required"`
	}
	type requireOut struct {
		ChallengeID string `json:"challenge_id"`
	}
	httpez.RegisterAction[requireIn, requireOut](ez, d.DB, httpez.Action[requireIn, requireOut]{
		Method: http.MethodPost,
		Path:   "/2fa/require",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *requireIn) (requireOut, error) {
			var u domain.User
			if err := tx.Where("id = ?", in.UserID).First(&u).Error; err != nil {
				return requireOut{}, httpez.NotFound("user not found")
			}
			chID, err := d.TwoFactor.Resend(c, u.ID, u.Email, u.Name)
			switch {
			case errors.Is(err, auth.ErrNoPendingChallenge):
				return requireOut{}, httpez.NotFound("no pending two-factor challenge, log in first")
			case errors.Is(err, auth.ErrResendCooldown):
				return requireOut{}, httpez.TooMany("code already sent, retry in a minute")
			case err != nil:
				return requireOut{}, httpez.Internal("issue 2fa challenge failed", err)
			}
			return requireOut{ChallengeID: chID}, nil
		},
	})

	type verifyIn struct {
		UserID string `json:"user_id" binding:"required"`
		Code   string `json:"code"    binding:"required,len=6"`
	}
	httpez.RegisterAction[verifyIn, loginOut](ez, d.DB, httpez.Action[verifyIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/2fa/verify",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *verifyIn) (loginOut, error) {
			if err := d.TwoFactor.Verify(c, in.UserID, in.Code); err != nil {
				return loginOut{}, httpez.Unauthorized("invalid or expired code")
			}
			var u domain.User
			if err := tx.Where("id = ?", in.UserID).First(&u).Error; err != nil {
				return loginOut{}, httpez.NotFound("user not found")
			}
			role, ok := auth.ParseRole(u.Role)
			if !ok {
				return loginOut{}, httpez.Forbidden("unknown role")
			}
			decision := auth.PortalAccess(role, portal)
			if !decision.Allowed {
				return loginOut{}, httpez.Forbidden("portal access denied")
			}
			out, err := issueSession(c, d, &u, decision)
			if err != nil {
				return loginOut{}, err
			}
			d.Audit.Record(c, u.ID, domain.AuditCategoryAuth, "login.2fa_verified", u.ID, string(portal))
			return out, nil
		},
	})

	// /me 与 /logout 走会话
	authed := g.Group("")
	authed.Use(mdw.Session(d.JWT, d.Cfg.JWT.CookieName, sessionRevoker{d.Cache}))

	authed.GET("/me", func(c *gin.Context) {
		u, err := d.Users.FindByID(c.GetString("userId"))
		if err != nil || u == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, toProfile(u))
	})

	// 吊销 jti 并清 cookie；客户端随后整页跳回 /
	authed.POST("/logout", func(c *gin.Context) {
		if v, ok := c.Get("claims"); ok {
			if cl, ok := v.(*auth.Claims); ok && cl.ID != "" {
				if ttl := time.Until(cl.ExpiresAt.Time); ttl > 0 {
					_ = d.Cache.Set(c, revokedKey(cl.ID), []byte("1"), ttl)
				}
				d.Audit.Record(c, cl.UID, domain.AuditCategoryAuth, "logout", cl.UID, "")
			}
		}
		c.SetCookie(d.Cfg.JWT.CookieName, "", -1, "/", "", d.Cfg.JWT.CookieSecure, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

func issueSession(c *gin.Context, d *Deps, u *domain.User, decision auth.Decision) (loginOut, error) {
	role, _ := auth.ParseRole(u.Role)
	tok, _, err := d.JWT.Issue(u.ID, string(role), u.Email, u.IsSuperAdmin)
	if err != nil {
		return loginOut{}, httpez.Internal("issue token failed", err)
	}
	maxAge := int(d.JWT.TTL / time.Second)
	c.SetCookie(d.Cfg.JWT.CookieName, tok, maxAge, "/", "", d.Cfg.JWT.CookieSecure, true)
	p := toProfile(u)
	return loginOut{Token: tok, User: &p, Decision: decision}, nil
}
