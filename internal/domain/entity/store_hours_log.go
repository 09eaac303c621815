package entity

import (
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/enum"
)

// StoreHoursLog is an append-only record of a store being opened or closed
type StoreHoursLog struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	UserEmail string           `gorm:"size:255;not null;index" json:"user_email"`
	Action    enum.StoreAction `gorm:"size:10;not null" json:"action"`
	Timestamp time.Time        `gorm:"not null;index" json:"timestamp"`
	Branch    string           `gorm:"size:100;index" json:"branch"`
}

func (StoreHoursLog) TableName() string {
	return "store_hours_logs"
}
