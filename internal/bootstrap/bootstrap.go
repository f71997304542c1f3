package bootstrap

import (
	"log"
	"time"

	"go.uber.org/zap"

	"marketplace-console/internal/core/auth"
	"marketplace-console/internal/core/cache"
	"marketplace-console/internal/core/config"
	"marketplace-console/internal/core/database"
	"marketplace-console/internal/core/logger"
	"marketplace-console/internal/domain"
	"marketplace-console/internal/email"
	"marketplace-console/internal/repo"
	"marketplace-console/internal/service"
	"marketplace-console/internal/transport/http/router"
)

// Build 装配两个后台共用的依赖。cleanup 负责冲刷日志。
func Build(configPath string) (*router.Deps, func()) {
	cfg := config.Load(configPath)

	var zl *zap.Logger
	var flush func()
	if cfg.Log.File != "" {
		zl, flush = logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
			cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	} else {
		zl, flush = logger.New(cfg.Log.Level, cfg.Log.JSON)
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{}, &domain.Vendor{}, &domain.Product{}, &domain.Order{},
			&domain.Payout{}, &domain.Dispute{}, &domain.DisputeEvidence{}, &domain.DisputeEvent{},
			&domain.FeatureFlag{}, &domain.SupportTicket{}, &domain.Message{}, &domain.Notification{},
			&domain.AuditEvent{}, &domain.Activity{}, &domain.SavedFilter{}, &domain.OnboardingMark{},
		); err != nil {
			log.Fatalf("auto migrate: %v", err)
		}
	}

	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 邮件没配 key 时降级：验证码只进日志（本地联调用）
	var mailer *email.Client
	var sender auth.CodeSender
	if m, err := email.NewClient(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName); err == nil {
		mailer = m
		sender = m
	} else {
		zl.Warn("email client disabled", zap.Error(err))
		sender = logCodeSender{zl}
	}

	twoFactor := &auth.TwoFactor{
		Store:  &auth.RedisChallengeStore{C: rc},
		Sender: sender,
		TTL:    time.Duration(cfg.TwoFactor.CodeTTLSec) * time.Second,
	}

	d := &router.Deps{
		Log:       zl,
		DB:        db,
		Cfg:       cfg,
		JWT:       jwter,
		Cache:     rc,
		TwoFactor: twoFactor,
		Mailer:    mailer,
		Audit:     service.NewAuditRecorder(db, zl),
		Analytics: service.NewAnalytics(db,
			time.Duration(cfg.Cache.AnalyticsTTLSec)*time.Second,
			time.Duration(cfg.Cache.AnalyticsMaxAgeSec)*time.Second),
		Health: service.NewVendorHealth(db),
		Users:  repo.NewUserRepo(db),
	}
	return d, flush
}

type logCodeSender struct{ l *zap.Logger }

func (s logCodeSender) SendTwoFactorCode(to, name, code string) error {
	s.l.Info("2fa code (email disabled)", zap.String("to", to), zap.String("code", code))
	return nil
}
