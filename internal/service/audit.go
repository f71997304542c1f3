package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	"marketplace-console/pkg/utils"
)

// AuditRecorder 每个写操作都要过一遍。
// 记录失败只打日志，绝不让业务操作跟着失败。
type AuditRecorder struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuditRecorder(db *gorm.DB, log *zap.Logger) *AuditRecorder {
	return &AuditRecorder{db: db, log: log}
}

func (a *AuditRecorder) Record(ctx context.Context, actorID, category, eventType, targetID, detail string) {
	ev := domain.AuditEvent{
		ID:        utils.NewID(),
		ActorID:   actorID,
		Category:  category,
		EventType: eventType,
		TargetID:  targetID,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err := a.db.WithContext(ctx).Create(&ev).Error; err != nil {
		a.log.Error("audit record failed",
			zap.String("category", category),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

// Feed 同步丢一条到动态流（给总览面板的 activity-feed）
func (a *AuditRecorder) Feed(ctx context.Context, actorID, kind, message string) {
	act := domain.Activity{
		ID:        utils.NewID(),
		ActorID:   actorID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := a.db.WithContext(ctx).Create(&act).Error; err != nil {
		a.log.Error("activity record failed", zap.String("kind", kind), zap.Error(err))
	}
}
