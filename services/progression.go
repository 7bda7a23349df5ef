package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"edulearn-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressionService struct {
	DB *gorm.DB
	XP XPConfig
}

func NewProgressionService(db *gorm.DB, xp XPConfig) *ProgressionService {
	return &ProgressionService{DB: db, XP: xp}
}

// CompleteLessonResult is returned from lesson completion and mirrors the
// fields the client animates (XP popup, level-up modal).
type CompleteLessonResult struct {
	XPGained int64     `json:"xp_gained"`
	TotalXP  int64     `json:"total_xp"`
	LevelUp  bool      `json:"level_up"`
	OldLevel int       `json:"old_level"`
	NewLevel int       `json:"new_level"`
	Info     LevelInfo `json:"level_info"`
}

type DailyChallengeResult struct {
	XPGained   int64     `json:"xp_gained"`
	StreakDays int       `json:"streak_days"`
	TotalXP    int64     `json:"total_xp"`
	LevelUp    bool      `json:"level_up"`
	Info       LevelInfo `json:"level_info"`
}

// EnsureProgress finds or lazily creates the (user, lesson) progress row
// inside the caller's transaction. The unique index guarantees at most one
// row per pair.
func (s *ProgressionService) EnsureProgress(tx *gorm.DB, userID, lessonID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prog = models.UserProgress{
			ID:       uuid.NewString(),
			UserID:   userID,
			LessonID: lessonID,
		}
		if err := tx.Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// lockUser reads the user row FOR UPDATE. Every transaction that mutates
// XP goes through this read, so concurrent awards for the same user
// serialize on the row lock instead of overwriting each other's total.
// The SQLite driver drops the clause; its single writer gives the same
// guarantee.
func lockUser(tx *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// awardXP applies an XP delta to the user aggregate and appends the matching
// ledger entry. It must run inside the transaction of the event that earned
// the XP — the aggregate update and the ledger append commit together or
// not at all. The cached level is re-derived from the new total.
func (s *ProgressionService) awardXP(tx *gorm.DB, user *models.User, amount int64, source models.XPSource, sourceID *string, description string) error {
	now := time.Now().UTC()
	user.TotalXP += amount
	user.Level = CalculateLevel(user.TotalXP)
	user.LastActivity = &now

	if err := tx.Save(user).Error; err != nil {
		return err
	}

	entry := models.XPHistory{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Amount:      amount,
		Source:      source,
		SourceID:    sourceID,
		Description: description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	log.Printf("🎮 XP awarded: user=%s +%d (source: %s) → total=%d lvl=%d",
		user.ID, amount, source, user.TotalXP, user.Level)
	return nil
}

// CompleteLesson marks a lesson completed and awards its XP. Completing an
// already-completed lesson is a zero-XP no-op — a lesson can only ever be
// rewarded once.
func (s *ProgressionService) CompleteLesson(userID, lessonID string) (*CompleteLessonResult, error) {
	var result CompleteLessonResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}

		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		prog, err := s.EnsureProgress(tx, userID, lessonID)
		if err != nil {
			return err
		}

		if prog.IsCompleted {
			result = CompleteLessonResult{
				TotalXP:  user.TotalXP,
				OldLevel: user.Level,
				NewLevel: user.Level,
				Info:     GetLevelInfo(user.TotalXP),
			}
			return nil
		}

		now := time.Now().UTC()
		prog.IsCompleted = true
		prog.CompletedAt = &now
		if err := tx.Save(prog).Error; err != nil {
			return err
		}

		amount := s.XP.LessonXP(lesson.XPReward)
		oldLevel := user.Level
		if err := s.awardXP(tx, user, amount, models.XPSourceLesson, &lesson.ID,
			fmt.Sprintf("Lesson completed: %s", lesson.Title)); err != nil {
			return err
		}

		result = CompleteLessonResult{
			XPGained: amount,
			TotalXP:  user.TotalXP,
			LevelUp:  user.Level > oldLevel,
			OldLevel: oldLevel,
			NewLevel: user.Level,
			Info:     GetLevelInfo(user.TotalXP),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ClaimDailyChallenge grants the daily bonus once per UTC calendar day.
// The ledger is the idempotency witness: an existing daily_challenge entry
// created today means it was already claimed.
func (s *ProgressionService) ClaimDailyChallenge(userID string) (*DailyChallengeResult, error) {
	var result DailyChallengeResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// The row lock comes before the claimed check so two concurrent
		// claims serialize and the second one sees the first's ledger row.
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		todayStart := time.Now().UTC().Truncate(24 * time.Hour)
		var claimed int64
		if err := tx.Model(&models.XPHistory{}).
			Where("user_id = ? AND source = ? AND created_at >= ?",
				userID, models.XPSourceDailyChallenge, todayStart).
			Count(&claimed).Error; err != nil {
			return err
		}
		if claimed > 0 {
			return ErrAlreadyClaimed
		}

		// The streak bonus reflects the streak coming into today.
		amount := s.XP.DailyChallengeXP(user.StreakDays)
		user.StreakDays++

		oldLevel := user.Level
		if err := s.awardXP(tx, user, amount, models.XPSourceDailyChallenge, nil,
			fmt.Sprintf("Daily bonus (streak: %d days)", user.StreakDays)); err != nil {
			return err
		}

		result = DailyChallengeResult{
			XPGained:   amount,
			StreakDays: user.StreakDays,
			TotalXP:    user.TotalXP,
			LevelUp:    user.Level > oldLevel,
			Info:       GetLevelInfo(user.TotalXP),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// LessonListEntry is one row of a module's lesson list with the lock state
// resolved for the requesting user.
type LessonListEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DurationMin int      `json:"duration_min"`
	XPReward    int64    `json:"xp_reward"`
	IsPremium   bool     `json:"is_premium"`
	IsCompleted bool     `json:"is_completed"`
	IsLocked    bool     `json:"is_locked"`
	LockReason  *string  `json:"lock_reason,omitempty"`
	HasQuiz     bool     `json:"has_quiz"`
	QuizID      *string  `json:"quiz_id,omitempty"`
	QuizScore   *float64 `json:"quiz_score,omitempty"`
}

const (
	LockPreviousIncomplete = "previous_incomplete"
	LockPremiumRequired    = "premium_required"
)

// BuildLessonList resolves lock state over an ordered lesson list. It is a
// left fold carrying one flag: whether the previous lesson was completed,
// seeded true so the first lesson is always reachable. Premium gating only
// applies to a lesson the sequence has actually reached.
func BuildLessonList(lessons []models.Lesson, progress map[string]*models.UserProgress, quizByLesson map[string]string, isPremium, isAdmin bool) []LessonListEntry {
	entries := make([]LessonListEntry, 0, len(lessons))
	previousCompleted := true

	for _, lesson := range lessons {
		var completed bool
		var score *float64
		if p, ok := progress[lesson.ID]; ok {
			completed = p.IsCompleted
			score = p.QuizScore
		}

		entry := LessonListEntry{
			ID:          lesson.ID,
			Title:       lesson.Title,
			Description: lesson.Description,
			DurationMin: lesson.DurationMin,
			XPReward:    lesson.XPReward,
			IsPremium:   lesson.IsPremium,
			IsCompleted: completed,
			QuizScore:   score,
		}

		if !previousCompleted {
			reason := LockPreviousIncomplete
			entry.IsLocked = true
			entry.LockReason = &reason
		} else if lesson.IsPremium && !isPremium && !isAdmin {
			reason := LockPremiumRequired
			entry.IsLocked = true
			entry.LockReason = &reason
		}

		if quizID, ok := quizByLesson[lesson.ID]; ok {
			entry.HasQuiz = true
			id := quizID
			entry.QuizID = &id
		}

		entries = append(entries, entry)
		previousCompleted = completed
	}

	return entries
}

// UserStats is the gamification profile payload.
type UserStats struct {
	Level            LevelInfo `json:"level"`
	CompletedLessons int64     `json:"completed_lessons"`
	StreakDays       int       `json:"streak_days"`
	WeeklyXP         int64     `json:"weekly_xp"`
	TodayXP          int64     `json:"today_xp"`
}

// GetStats assembles level info plus activity counters for the profile page.
func (s *ProgressionService) GetStats(user *models.User) (*UserStats, error) {
	stats := UserStats{
		Level:      GetLevelInfo(user.TotalXP),
		StreakDays: user.StreakDays,
	}

	if err := s.DB.Model(&models.UserProgress{}).
		Where("user_id = ? AND is_completed = ?", user.ID, true).
		Count(&stats.CompletedLessons).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	weekAgo := now.AddDate(0, 0, -7)
	todayStart := now.Truncate(24 * time.Hour)

	var weekly, today *int64
	if err := s.DB.Model(&models.XPHistory{}).
		Where("user_id = ? AND created_at >= ?", user.ID, weekAgo).
		Select("SUM(amount)").Scan(&weekly).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.XPHistory{}).
		Where("user_id = ? AND created_at >= ?", user.ID, todayStart).
		Select("SUM(amount)").Scan(&today).Error; err != nil {
		return nil, err
	}

	if weekly != nil {
		stats.WeeklyXP = *weekly
	}
	if today != nil {
		stats.TodayXP = *today
	}

	return &stats, nil
}

// GetXPHistory returns the newest ledger entries for a user.
func (s *ProgressionService) GetXPHistory(userID string, limit int) ([]models.XPHistory, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var history []models.XPHistory
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&history).Error
	return history, err
}
