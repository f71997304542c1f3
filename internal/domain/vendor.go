package domain

import "time"

const (
	VendorActive    = "active"
	VendorSuspended = "suspended"
	VendorPending   = "pending"
)

type Vendor struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"uniqueIndex;size:36" json:"user_id"`
	StoreName string     `gorm:"size:128" json:"store_name"`
	Status    string     `gorm:"size:16;index;default:pending" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	// 健康分由服务端计算，客户端只展示
	HealthScore        int        `json:"health_score"`
	HealthGrade        string     `gorm:"size:2" json:"health_grade"` // A/B/C/D
	HealthCalculatedAt *time.Time `json:"health_calculated_at,omitempty"`
}

const (
	ProductDraft    = "draft"
	ProductActive   = "active"
	ProductDelisted = "delisted"
)

type Product struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	VendorID   string     `gorm:"index;size:36" json:"vendor_id"`
	Title      string     `gorm:"size:191" json:"title"`
	PriceCents int64      `json:"price_cents"`
	Stock      int        `json:"stock"`
	Status     string     `gorm:"size:16;index;default:draft" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `gorm:"index" json:"-"`
}

const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
	OrderRefunded  = "refunded"
)

type Order struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	VendorID   string    `gorm:"index;size:36" json:"vendor_id"`
	BuyerID    string    `gorm:"index;size:36" json:"buyer_id"`
	Status     string    `gorm:"size:16;index" json:"status"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
