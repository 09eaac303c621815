package entity

import (
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// User is a back-office account (cashier, manager or admin)
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Username   *string        `gorm:"size:100;uniqueIndex" json:"username,omitempty"`
	Email      string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password   string         `gorm:"size:255" json:"-"`
	Role       enum.Role      `gorm:"size:20;not null;default:'cashier'" json:"role"`
	Branch     string         `gorm:"size:100;index" json:"branch"`
	Provider   string         `gorm:"size:50;default:'local'" json:"provider"`
	ProviderID *string        `gorm:"size:255" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// HasRole checks if the user has one of the given roles
func (u *User) HasRole(roles ...enum.Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
