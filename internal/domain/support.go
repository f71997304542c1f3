package domain

import "time"

const (
	TicketOpen    = "open"
	TicketPending = "pending"
	TicketClosed  = "closed"
)

type SupportTicket struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36" json:"user_id"`
	Subject   string    `gorm:"size:191" json:"subject"`
	Body      string    `gorm:"size:4096" json:"body"`
	Status    string    `gorm:"size:16;index" json:"status"`
	Priority  string    `gorm:"size:8;index" json:"priority"`
	Read      bool      `gorm:"column:is_read;index" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message 商家与平台的站内信
type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"index;size:36" json:"owner_id"` // 归属商家账号
	Sender    string    `gorm:"size:16" json:"sender"`         // vendor / platform
	Body      string    `gorm:"size:4096" json:"body"`
	Read      bool      `gorm:"column:is_read" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36" json:"user_id"`
	Kind      string    `gorm:"size:32" json:"kind"`
	Title     string    `gorm:"size:191" json:"title"`
	Body      string    `gorm:"size:1024" json:"body"`
	Read      bool      `gorm:"column:is_read;index" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
