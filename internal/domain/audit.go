package domain

import "time"

// 审计事件分类
const (
	AuditCategoryUser    = "user"
	AuditCategoryVendor  = "vendor"
	AuditCategoryPayout  = "payout"
	AuditCategoryDispute = "dispute"
	AuditCategoryFlag    = "feature_flag"
	AuditCategoryAuth    = "auth"
	AuditCategorySupport = "support"
)

type AuditEvent struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ActorID   string    `gorm:"index;size:36" json:"actor_id"`
	Category  string    `gorm:"size:32;index" json:"category"`
	EventType string    `gorm:"size:64;index" json:"event_type"`
	TargetID  string    `gorm:"size:36;index" json:"target_id,omitempty"`
	Detail    string    `gorm:"size:1024" json:"detail,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Activity 给仪表盘动态流用的轻量条目（与审计日志分开，保留期更短）
type Activity struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ActorID   string    `gorm:"index;size:36" json:"actor_id"`
	Kind      string    `gorm:"size:32;index" json:"kind"`
	Message   string    `gorm:"size:512" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
