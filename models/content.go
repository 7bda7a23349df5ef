package models

import (
	"time"
)

// Module groups an ordered list of lessons. Content is authored through the
// admin API; the progression core only ever reads it.
type Module struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"uniqueIndex;size:255" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Emoji       string    `gorm:"size:10;default:'📚'" json:"emoji"`
	ImageURL    *string   `gorm:"size:500" json:"image_url,omitempty"`
	OrderIndex  int       `gorm:"default:0" json:"order_index"`
	IsPremium   bool      `gorm:"default:false" json:"is_premium"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Lesson struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	ModuleID    string    `gorm:"index;not null" json:"module_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"index;size:255" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Content     string    `gorm:"type:text" json:"content"`
	VideoURL    *string   `gorm:"size:500" json:"video_url,omitempty"`
	XPReward    int64     `gorm:"default:50" json:"xp_reward"`
	OrderIndex  int       `gorm:"default:0" json:"order_index"`
	IsPremium   bool      `gorm:"default:false" json:"is_premium"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	DurationMin int       `gorm:"default:10" json:"duration_min"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Quiz belongs to exactly one lesson. Passing it marks the lesson completed.
type Quiz struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	LessonID       string    `gorm:"uniqueIndex;not null" json:"lesson_id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	XPReward       int64     `gorm:"default:100" json:"xp_reward"`
	PassPercentage float64   `gorm:"default:70" json:"pass_percentage"`
	TimeLimitSec   int       `gorm:"default:300" json:"time_limit_sec"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Question carries the canonical answer. CorrectAnswer must never be
// serialized on the listing path — only submission results echo it back.
type Question struct {
	ID            string   `gorm:"primaryKey;type:uuid" json:"id"`
	QuizID        string   `gorm:"index;not null" json:"quiz_id"`
	QuestionText  string   `gorm:"size:1000;not null" json:"question_text"`
	QuestionType  string   `gorm:"size:50;default:'multiple_choice'" json:"question_type"`
	Options       []string `gorm:"serializer:json" json:"options"`
	CorrectAnswer string   `gorm:"size:255;not null" json:"-"`
	Explanation   string   `gorm:"type:text" json:"-"`
	OrderIndex    int      `gorm:"default:0" json:"order_index"`
}
