package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/core/auth"
	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
)

func init() { RegisterVendor(60, mountVendorSecurity) }

// mountVendorSecurity 账号安全：开启/关闭二次验证。
// 开启走 挑战-验证 两步，证明邮箱真的能收到码再落库。
func mountVendorSecurity(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	type empty struct{}
	type challengeOut struct {
		ChallengeID string `json:"challenge_id"`
	}
	httpez.RegisterAction[empty, challengeOut](ez, d.DB, httpez.Action[empty, challengeOut]{
		Method: http.MethodPost,
		Path:   "/security/2fa/enable",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *empty) (challengeOut, error) {
			uid := c.GetString("userId")
			u, err := d.Users.FindByID(uid)
			if err != nil || u == nil {
				return challengeOut{}, httpez.NotFound("user not found")
			}
			if u.TwoFactorEnabled {
				return challengeOut{}, httpez.Conflict("two-factor already enabled")
			}
			// 这里账号还没开启，挑战按"开启中"下发
			chID, err := d.TwoFactor.Require(c, u.ID, u.Email, u.Name, true)
			if err != nil {
				return challengeOut{}, httpez.Internal("issue 2fa challenge failed", err)
			}
			return challengeOut{ChallengeID: chID}, nil
		},
	})

	type verifyIn struct {
		Code string `json:"code" binding:"required,len=6"`
	}
	type stateOut struct {
		TwoFactorEnabled bool `json:"two_factor_enabled"`
	}
	httpez.RegisterAction[verifyIn, stateOut](ez, d.DB, httpez.Action[verifyIn, stateOut]{
		Method: http.MethodPost,
		Path:   "/security/2fa/verify",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *verifyIn) (stateOut, error) {
			uid := c.GetString("userId")
			if err := d.TwoFactor.Verify(c, uid, in.Code); err != nil {
				return stateOut{}, httpez.Unauthorized("invalid or expired code")
			}
			if err := d.Users.SetTwoFactor(uid, true); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return stateOut{}, httpez.NotFound("user not found")
				}
				return stateOut{}, httpez.Internal("enable two-factor failed", err)
			}
			d.Audit.Record(c, uid, domain.AuditCategoryAuth, "2fa.enabled", uid, "")
			return stateOut{TwoFactorEnabled: true}, nil
		},
	})

	httpez.RegisterAction[empty, stateOut](ez, d.DB, httpez.Action[empty, stateOut]{
		Method: http.MethodPost,
		Path:   "/security/2fa/disable",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *empty) (stateOut, error) {
			uid := c.GetString("userId")
			// 该角色强制二次验证时不允许自行关闭
			role, _ := auth.ParseRole(c.GetString("role"))
			if d.Cfg.RoleNeeds2FA(string(role)) {
				return stateOut{}, httpez.Forbidden("two-factor is mandatory for this role")
			}
			if err := d.Users.SetTwoFactor(uid, false); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return stateOut{}, httpez.NotFound("user not found")
				}
				return stateOut{}, httpez.Internal("disable two-factor failed", err)
			}
			d.Audit.Record(c, uid, domain.AuditCategoryAuth, "2fa.disabled", uid, "")
			return stateOut{TwoFactorEnabled: false}, nil
		},
	})
}
