package domain

import "time"

const (
	UserActive    = "active"
	UserSuspended = "suspended"
)

type User struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Email            string     `gorm:"uniqueIndex;size:191" json:"email"`
	Name             string     `gorm:"size:64" json:"name"`
	PasswordHash     string     `gorm:"size:191" json:"-"`
	Role             string     `gorm:"size:16;index" json:"role"` // user/vendor/owner
	Status           string     `gorm:"size:16;index;default:active" json:"status"`
	IsSuperAdmin     bool       `json:"is_super_admin"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	ProfileSynced    bool       `gorm:"default:true" json:"profile_synced"` // 资料同步未完成时登录要求重试
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `gorm:"index" json:"-"`
}

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	Update(u *User) error
	SetStatus(id, status string) error
}
