package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the single source of truth for XP, level and premium entitlement.
// Identity resolution happens upstream at the gateway; this service only
// ever sees the user id it is handed.
type User struct {
	ID         string  `gorm:"primaryKey;type:uuid" json:"id"`
	TelegramID int64   `gorm:"uniqueIndex;not null" json:"telegram_id"`
	Username   *string `gorm:"size:100" json:"username,omitempty"`
	FullName   string  `gorm:"size:255;not null" json:"full_name"`
	PhotoURL   *string `gorm:"size:500" json:"photo_url,omitempty"`

	// Gamification. Level is cached and re-derived on every XP mutation.
	TotalXP      int64      `json:"total_xp" gorm:"default:0"`
	Level        int        `json:"level" gorm:"default:1"`
	StreakDays   int        `json:"streak_days" gorm:"default:0"`
	LastActivity *time.Time `json:"last_activity,omitempty"`

	// Premium entitlement window
	IsPremium    bool       `json:"is_premium" gorm:"default:false"`
	PremiumUntil *time.Time `json:"premium_until,omitempty"`

	// Status
	IsAdmin  bool `json:"is_admin" gorm:"default:false"`
	IsActive bool `json:"is_active" gorm:"default:true"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
