package domain

import "time"

type FeatureFlag struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Key         string    `gorm:"column:flag_key;uniqueIndex;size:64" json:"key"`
	Description string    `gorm:"size:255" json:"description"`
	Enabled     bool      `json:"enabled"`
	Rollout     int       `json:"rollout"` // 0~100 灰度百分比
	UpdatedBy   string    `gorm:"size:36" json:"updated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
