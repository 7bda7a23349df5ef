package models

import (
	"time"
)

// UserProgress tracks per-(user, lesson) completion and best quiz score.
// At most one row per pair — the unique index backs the find-or-create
// in ProgressionService.
type UserProgress struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string     `gorm:"uniqueIndex:idx_user_lesson;not null" json:"user_id"`
	LessonID     string     `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lesson_id"`
	IsCompleted  bool       `gorm:"default:false" json:"is_completed"`
	QuizScore    *float64   `json:"quiz_score,omitempty"` // best-of, only ever increases
	QuizAttempts int        `gorm:"default:0" json:"quiz_attempts"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
