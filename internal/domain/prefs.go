package domain

import "time"

// SavedFilter 保存的搜索条件，合同：{id, filter_name, filters}
type SavedFilter struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID    string    `gorm:"index;size:36" json:"-"`
	FilterName string    `gorm:"size:64" json:"filter_name"`
	Filters    string    `gorm:"size:2048" json:"filters"` // 序列化后的键值对
	CreatedAt  time.Time `json:"created_at"`
}

// OnboardingMark 新手引导的按用户布尔标记
type OnboardingMark struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index:idx_onboarding_user_step,unique;size:36" json:"user_id"`
	Step      string    `gorm:"index:idx_onboarding_user_step,unique;size:64" json:"step"`
	Dismissed bool      `json:"dismissed"`
	UpdatedAt time.Time `json:"updated_at"`
}
