package models

import (
	"time"
)

// XPSource tags which subsystem produced a ledger entry
type XPSource string

const (
	XPSourceLesson         XPSource = "lesson"
	XPSourceQuiz           XPSource = "quiz"
	XPSourceDailyChallenge XPSource = "daily_challenge"
)

// XPHistory is the append-only reward ledger. One row per awarding event;
// rows are never updated or deleted. The daily-challenge idempotency check
// reads this table ("is there already a daily_challenge row today?").
type XPHistory struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Source      XPSource  `gorm:"size:50;not null;index" json:"source"`
	SourceID    *string   `gorm:"type:uuid" json:"source_id,omitempty"` // lesson or quiz id
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
