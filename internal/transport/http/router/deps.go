package router

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-console/internal/core/auth"
	"marketplace-console/internal/core/cache"
	"marketplace-console/internal/core/config"
	"marketplace-console/internal/email"
	"marketplace-console/internal/repo"
	"marketplace-console/internal/service"
)

// Deps 各面板挂载时共用的依赖
type Deps struct {
	Log       *zap.Logger
	DB        *gorm.DB
	Cfg       *config.Config
	JWT       *auth.JWTer
	Cache     *cache.Cache
	TwoFactor *auth.TwoFactor
	Mailer    *email.Client // 未配置邮件 key 时为 nil，相关通知降级为日志
	Audit     *service.AuditRecorder
	Analytics *service.Analytics
	Health    *service.VendorHealth
	Users     *repo.UserRepo
}
