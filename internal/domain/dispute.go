package domain

import "time"

const (
	DisputeOpen        = "open"
	DisputeUnderReview = "under_review"
	DisputeResolved    = "resolved"
)

const (
	ResolutionRefundBuyer = "refund_buyer"
	ResolutionFavorVendor = "favor_vendor"
	ResolutionSplit       = "split"
)

type Dispute struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	OrderID    string     `gorm:"index;size:36" json:"order_id"`
	VendorID   string     `gorm:"index;size:36" json:"vendor_id"`
	BuyerID    string     `gorm:"index;size:36" json:"buyer_id"`
	Status     string     `gorm:"size:16;index" json:"status"`
	Priority   string     `gorm:"size:8;index" json:"priority"` // low/normal/high
	Reason     string     `gorm:"size:255" json:"reason"`
	Resolution string     `gorm:"size:32" json:"resolution,omitempty"`
	Note       string     `gorm:"size:1024" json:"note,omitempty"`
	ResolvedBy string     `gorm:"size:36" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type DisputeEvidence struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	DisputeID  string    `gorm:"index;size:36" json:"dispute_id"`
	UploaderID string    `gorm:"size:36" json:"uploader_id"`
	Kind       string    `gorm:"size:16" json:"kind"` // image/document/text
	URL        string    `gorm:"size:512" json:"url"`
	Note       string    `gorm:"size:512" json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DisputeEvent 时间线条目，记录状态流转
type DisputeEvent struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	DisputeID  string    `gorm:"index;size:36" json:"dispute_id"`
	ActorID    string    `gorm:"size:36" json:"actor_id"`
	Action     string    `gorm:"size:32" json:"action"`
	FromStatus string    `gorm:"size:16" json:"from_status,omitempty"`
	ToStatus   string    `gorm:"size:16" json:"to_status,omitempty"`
	Note       string    `gorm:"size:512" json:"note,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
