package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLessonXP(t *testing.T) {
	cfg := DefaultXPConfig()
	assert.EqualValues(t, 75, cfg.LessonXP(75))
	assert.EqualValues(t, 50, cfg.LessonXP(0), "falls back to base when unset")
}

func TestQuizXP(t *testing.T) {
	cfg := DefaultXPConfig()

	assert.EqualValues(t, 80, cfg.QuizXP(8, 10, 100))
	assert.EqualValues(t, 150, cfg.QuizXP(10, 10, 100), "perfect bonus applied")
	assert.EqualValues(t, 0, cfg.QuizXP(0, 0, 100), "degenerate quiz")
	assert.EqualValues(t, 0, cfg.QuizXP(5, 0, 100))
	assert.EqualValues(t, 100, cfg.QuizXP(5, 10, 200), "lesson-specific reward")
	assert.EqualValues(t, 80, cfg.QuizXP(8, 10, 0), "default base when reward unset")
}

func TestQuizXPBreakdown(t *testing.T) {
	cfg := DefaultXPConfig()

	b := cfg.QuizXPBreakdown(8, 10, 100)
	assert.EqualValues(t, 80, b.Base)
	assert.EqualValues(t, 0, b.Bonus)
	assert.EqualValues(t, 80, b.Total)
	assert.Equal(t, 80.0, b.Percentage)

	b = cfg.QuizXPBreakdown(10, 10, 100)
	assert.EqualValues(t, 100, b.Base)
	assert.EqualValues(t, 50, b.Bonus)
	assert.EqualValues(t, 150, b.Total)
	assert.Equal(t, 100.0, b.Percentage)

	b = cfg.QuizXPBreakdown(1, 3, 100)
	assert.EqualValues(t, 33, b.Base, "base XP floors")
	assert.Equal(t, 33.3, b.Percentage)
}

func TestDailyChallengeXP(t *testing.T) {
	cfg := DefaultXPConfig()

	assert.EqualValues(t, 25, cfg.DailyChallengeXP(0))
	assert.EqualValues(t, 50, cfg.DailyChallengeXP(5))
	assert.EqualValues(t, 75, cfg.DailyChallengeXP(10))
	assert.EqualValues(t, 75, cfg.DailyChallengeXP(100), "streak bonus capped")
}

func TestXPConfig_AlternateConstants(t *testing.T) {
	cfg := XPConfig{
		LessonBaseXP:       10,
		QuizBaseXP:         20,
		QuizPerfectBonus:   5,
		DailyChallengeBase: 1,
		StreakBonusPerDay:  1,
		MaxStreakBonus:     3,
	}
	assert.EqualValues(t, 10, cfg.LessonXP(0))
	assert.EqualValues(t, 25, cfg.QuizXP(4, 4, 0))
	assert.EqualValues(t, 4, cfg.DailyChallengeXP(100))
}
