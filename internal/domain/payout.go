package domain

import "time"

// 结算单状态是服务端拥有的枚举，客户端只请求状态迁移
const (
	PayoutPending  = "pending"
	PayoutHeld     = "held"
	PayoutReleased = "released"
	PayoutPaid     = "paid"
)

type Payout struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	VendorID    string     `gorm:"index;size:36" json:"vendor_id"`
	AmountCents int64      `json:"amount_cents"`
	Status      string     `gorm:"size:16;index" json:"status"`
	HoldReason  string     `gorm:"size:255" json:"hold_reason,omitempty"`
	HeldBy      string     `gorm:"size:36" json:"held_by,omitempty"`
	HeldAt      *time.Time `json:"held_at,omitempty"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PayoutStats 列表附带的汇总块
type PayoutStats struct {
	TotalCents   int64 `json:"total_cents"`
	PendingCents int64 `json:"pending_cents"`
	HeldCents    int64 `json:"held_cents"`
	HeldCount    int64 `json:"held_count"`
}
