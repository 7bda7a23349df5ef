package services

import "math"

// XPConfig holds the tunable XP constants. It is passed explicitly into
// the services that award XP so tests can swap alternate values in.
type XPConfig struct {
	LessonBaseXP       int64
	QuizBaseXP         int64
	QuizPerfectBonus   int64
	DailyChallengeBase int64
	StreakBonusPerDay  int64
	MaxStreakBonus     int64
}

// DefaultXPConfig returns the production XP constants.
func DefaultXPConfig() XPConfig {
	return XPConfig{
		LessonBaseXP:       50,
		QuizBaseXP:         100,
		QuizPerfectBonus:   50,
		DailyChallengeBase: 25,
		StreakBonusPerDay:  5,
		MaxStreakBonus:     50,
	}
}

// QuizBreakdown is the per-submission XP breakdown. The same struct feeds
// both the award amount and the client display so the two can never diverge.
type QuizBreakdown struct {
	Base       int64   `json:"base"`
	Bonus      int64   `json:"bonus"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
}

// LessonXP returns the XP for completing a lesson. The lesson's configured
// reward wins; zero falls back to the base constant.
func (c XPConfig) LessonXP(lessonReward int64) int64 {
	if lessonReward > 0 {
		return lessonReward
	}
	return c.LessonBaseXP
}

// QuizXP computes XP for a quiz result:
// floor((correct/total) * base) plus the perfect-score bonus on a full score.
// A quiz with zero questions yields zero.
func (c XPConfig) QuizXP(correct, total int, quizReward int64) int64 {
	return c.QuizXPBreakdown(correct, total, quizReward).Total
}

// QuizXPBreakdown exposes the base/bonus split behind QuizXP.
func (c XPConfig) QuizXPBreakdown(correct, total int, quizReward int64) QuizBreakdown {
	if total == 0 {
		return QuizBreakdown{}
	}

	base := quizReward
	if base <= 0 {
		base = c.QuizBaseXP
	}

	ratio := float64(correct) / float64(total)
	baseXP := int64(ratio * float64(base))

	var bonus int64
	if correct == total {
		bonus = c.QuizPerfectBonus
	}

	return QuizBreakdown{
		Base:       baseXP,
		Bonus:      bonus,
		Total:      baseXP + bonus,
		Percentage: roundOneDecimal(ratio * 100),
	}
}

// DailyChallengeXP returns the daily bonus: base plus a streak bonus
// that caps at MaxStreakBonus (day 10 with default constants).
func (c XPConfig) DailyChallengeXP(streakDays int) int64 {
	bonus := int64(streakDays) * c.StreakBonusPerDay
	if bonus > c.MaxStreakBonus {
		bonus = c.MaxStreakBonus
	}
	return c.DailyChallengeBase + bonus
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
