package services

import (
	"testing"

	"edulearn-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizFixture(t *testing.T) (*QuizService, *models.User, *models.Quiz, []models.Question) {
	t.Helper()

	db := newTestDB(t)
	progression := NewProgressionService(db, DefaultXPConfig())
	svc := NewQuizService(db, DefaultXPConfig(), progression)

	user := createTestUser(t, db)
	module := createTestModule(t, db, false)
	lesson := createTestLesson(t, db, module.ID, 0)
	questions := []models.Question{
		{QuestionText: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4", Explanation: "basic arithmetic"},
		{QuestionText: "capital of France?", Options: []string{"Paris", "Lyon"}, CorrectAnswer: "Paris"},
		{QuestionText: "Go mascot?", Options: []string{"Gopher", "Crab"}, CorrectAnswer: "Gopher"},
		{QuestionText: "HTTP default port?", Options: []string{"80", "443"}, CorrectAnswer: "80"},
	}
	quiz := createTestQuiz(t, db, lesson.ID, questions)

	var stored []models.Question
	require.NoError(t, db.Where("quiz_id = ?", quiz.ID).Order("order_index ASC").Find(&stored).Error)

	return svc, user, quiz, stored
}

func TestGetQuiz_OmitsAnswers(t *testing.T) {
	svc, user, quiz, _ := newQuizFixture(t)

	view, err := svc.GetQuiz(user, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, view.TotalQuestions)
	require.Len(t, view.Questions, 4)
	assert.NotEmpty(t, view.Questions[0].Options)
}

func TestGetQuiz_NotFound(t *testing.T) {
	svc, user, _, _ := newQuizFixture(t)

	_, err := svc.GetQuiz(user, "missing")
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSubmit_PassAwardsXP(t *testing.T) {
	svc, user, quiz, questions := newQuizFixture(t)

	answers := []Answer{
		{QuestionID: questions[0].ID, Answer: "4"},
		{QuestionID: questions[1].ID, Answer: "Paris"},
		{QuestionID: questions[2].ID, Answer: "Gopher"},
		{QuestionID: questions[3].ID, Answer: "443"}, // wrong
	}

	result, err := svc.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 75.0, result.Score)
	assert.Equal(t, 3, result.CorrectAnswers)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.EqualValues(t, 75, result.XPGained)
	assert.EqualValues(t, 75, result.XPBreakdown.Base)
	assert.EqualValues(t, 0, result.XPBreakdown.Bonus)
	assert.Equal(t, 1, result.Attempts)
	require.Len(t, result.Results, 4)
	assert.False(t, result.Results[3].IsCorrect)
	assert.Equal(t, "80", result.Results[3].CorrectAnswer)
}

func TestSubmit_PerfectScoreBonus(t *testing.T) {
	svc, user, quiz, questions := newQuizFixture(t)

	answers := []Answer{
		{QuestionID: questions[0].ID, Answer: "4"},
		{QuestionID: questions[1].ID, Answer: "Paris"},
		{QuestionID: questions[2].ID, Answer: "Gopher"},
		{QuestionID: questions[3].ID, Answer: "80"},
	}

	result, err := svc.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
	assert.EqualValues(t, 150, result.XPGained, "100 base + 50 perfect bonus")
	assert.EqualValues(t, 50, result.XPBreakdown.Bonus)
}

func TestSubmit_FailAwardsNothing(t *testing.T) {
	svc, user, quiz, questions := newQuizFixture(t)

	answers := []Answer{
		{QuestionID: questions[0].ID, Answer: "3"},
		{QuestionID: questions[1].ID, Answer: "Lyon"},
	}

	result, err := svc.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 0.0, result.Score)
	assert.EqualValues(t, 0, result.XPGained)
	assert.Equal(t, 1, result.Attempts, "failed submissions still count attempts")

	// No ledger entry on a fail.
	db := svc.DB
	var count int64
	db.Model(&models.XPHistory{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestSubmit_CaseSensitiveExactMatch(t *testing.T) {
	svc, user, quiz, questions := newQuizFixture(t)

	result, err := svc.Submit(user.ID, quiz.ID, []Answer{
		{QuestionID: questions[1].ID, Answer: "paris"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.CorrectAnswers, "no normalization on comparison")
}

func TestSubmit_UnknownQuestionIDsIgnored(t *testing.T) {
	svc, user, quiz, questions := newQuizFixture(t)

	answers := []Answer{
		{QuestionID: "phantom", Answer: "4"},
		{QuestionID: questions[0].ID, Answer: "4"},
	}

	result, err := svc.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 4, result.TotalQuestions, "denominator is the quiz size, not the answer count")
	assert.Len(t, result.Results, 1, "phantom answer dropped")
}

func TestSubmit_BestScoreRetained(t *testing.T) {
	svc, user, quiz, questions := newQuizFixture(t)

	// 100% first.
	_, err := svc.Submit(user.ID, quiz.ID, []Answer{
		{QuestionID: questions[0].ID, Answer: "4"},
		{QuestionID: questions[1].ID, Answer: "Paris"},
		{QuestionID: questions[2].ID, Answer: "Gopher"},
		{QuestionID: questions[3].ID, Answer: "80"},
	})
	require.NoError(t, err)

	// Then a worse run.
	result, err := svc.Submit(user.ID, quiz.ID, []Answer{
		{QuestionID: questions[0].ID, Answer: "4"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempts)

	var prog models.UserProgress
	require.NoError(t, svc.DB.Where("user_id = ?", user.ID).First(&prog).Error)
	require.NotNil(t, prog.QuizScore)
	assert.Equal(t, 100.0, *prog.QuizScore, "lower score never overwrites the best")
}

func TestSubmit_RepeatPassReAwardsXP(t *testing.T) {
	svc, user, quiz, questions := newQuizFixture(t)

	answers := []Answer{
		{QuestionID: questions[0].ID, Answer: "4"},
		{QuestionID: questions[1].ID, Answer: "Paris"},
		{QuestionID: questions[2].ID, Answer: "Gopher"},
		{QuestionID: questions[3].ID, Answer: "80"},
	}

	first, err := svc.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)
	second, err := svc.Submit(user.ID, quiz.ID, answers)
	require.NoError(t, err)

	assert.EqualValues(t, 150, first.XPGained)
	assert.EqualValues(t, 150, second.XPGained, "re-passing rewards mastery again")

	var count int64
	svc.DB.Model(&models.XPHistory{}).
		Where("user_id = ? AND source = ?", user.ID, models.XPSourceQuiz).
		Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestSubmit_PassMarksLessonCompleted(t *testing.T) {
	svc, user, quiz, questions := newQuizFixture(t)

	_, err := svc.Submit(user.ID, quiz.ID, []Answer{
		{QuestionID: questions[0].ID, Answer: "4"},
		{QuestionID: questions[1].ID, Answer: "Paris"},
		{QuestionID: questions[2].ID, Answer: "Gopher"},
		{QuestionID: questions[3].ID, Answer: "80"},
	})
	require.NoError(t, err)

	var prog models.UserProgress
	require.NoError(t, svc.DB.Where("user_id = ? AND lesson_id = ?", user.ID, quiz.LessonID).First(&prog).Error)
	assert.True(t, prog.IsCompleted)
	assert.NotNil(t, prog.CompletedAt)

	// Only quiz XP in the ledger — no retroactive lesson XP.
	var lessonEntries int64
	svc.DB.Model(&models.XPHistory{}).
		Where("user_id = ? AND source = ?", user.ID, models.XPSourceLesson).
		Count(&lessonEntries)
	assert.EqualValues(t, 0, lessonEntries)
}

func TestSubmit_LocksUserRow(t *testing.T) {
	svc, user, quiz, questions := newQuizFixture(t)

	locked := userRowLockRecorder(t, svc.DB)

	_, err := svc.Submit(user.ID, quiz.ID, []Answer{
		{QuestionID: questions[0].ID, Answer: "4"},
	})
	require.NoError(t, err)
	assert.True(t, *locked, "the user read inside the grading transaction must take the row lock")
}

func TestGetQuiz_PremiumGated(t *testing.T) {
	db := newTestDB(t)
	progression := NewProgressionService(db, DefaultXPConfig())
	svc := NewQuizService(db, DefaultXPConfig(), progression)

	user := createTestUser(t, db)
	module := createTestModule(t, db, true)
	lesson := createTestLesson(t, db, module.ID, 0, func(l *models.Lesson) { l.IsPremium = true })
	quiz := createTestQuiz(t, db, lesson.ID, []models.Question{
		{QuestionText: "q", Options: []string{"a"}, CorrectAnswer: "a"},
	})

	_, err := svc.GetQuiz(user, quiz.ID)
	assert.ErrorIs(t, err, ErrPremiumRequired)

	admin := createTestUser(t, db, func(u *models.User) { u.IsAdmin = true })
	_, err = svc.GetQuiz(admin, quiz.ID)
	assert.NoError(t, err)
}
