package services

import (
	"errors"
	"fmt"
	"time"

	"edulearn-backend/models"

	"gorm.io/gorm"
)

type QuizService struct {
	DB          *gorm.DB
	XP          XPConfig
	Progression *ProgressionService
}

func NewQuizService(db *gorm.DB, xp XPConfig, progression *ProgressionService) *QuizService {
	return &QuizService{DB: db, XP: xp, Progression: progression}
}

// QuizView is the pre-submission quiz payload. Canonical answers are never
// part of it — they only surface in post-submission results.
type QuizView struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	XPReward       int64          `json:"xp_reward"`
	PassPercentage float64        `json:"pass_percentage"`
	TimeLimitSec   int            `json:"time_limit_sec"`
	TotalQuestions int            `json:"total_questions"`
	Questions      []QuestionView `json:"questions"`
}

type QuestionView struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
}

// Answer is one submitted answer keyed by question id.
type Answer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// AnswerResult echoes the canonical answer and explanation after grading.
type AnswerResult struct {
	QuestionID    string `json:"question_id"`
	YourAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// SubmitResult is the full grading outcome for one submission.
type SubmitResult struct {
	Passed         bool           `json:"passed"`
	Score          float64        `json:"score"`
	CorrectAnswers int            `json:"correct_answers"`
	TotalQuestions int            `json:"total_questions"`
	PassPercentage float64        `json:"pass_percentage"`
	XPGained       int64          `json:"xp_gained"`
	XPBreakdown    QuizBreakdown  `json:"xp_breakdown"`
	LevelUp        bool           `json:"level_up"`
	OldLevel       int            `json:"old_level"`
	NewLevel       int            `json:"new_level"`
	Info           LevelInfo      `json:"level_info"`
	Results        []AnswerResult `json:"results"`
	Attempts       int            `json:"attempts"`
}

func (s *QuizService) getQuiz(db *gorm.DB, quizID string) (*models.Quiz, []models.Question, error) {
	var quiz models.Quiz
	if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrQuizNotFound
		}
		return nil, nil, err
	}

	var questions []models.Question
	if err := db.Where("quiz_id = ?", quizID).
		Order("order_index ASC").
		Find(&questions).Error; err != nil {
		return nil, nil, err
	}
	return &quiz, questions, nil
}

// GetQuiz returns the quiz with its questions, stripped of answers.
// Premium gating follows the owning lesson.
func (s *QuizService) GetQuiz(user *models.User, quizID string) (*QuizView, error) {
	quiz, questions, err := s.getQuiz(s.DB, quizID)
	if err != nil {
		return nil, err
	}

	if err := s.checkLessonAccess(user, quiz.LessonID); err != nil {
		return nil, err
	}

	view := QuizView{
		ID:             quiz.ID,
		Title:          quiz.Title,
		Description:    quiz.Description,
		XPReward:       quiz.XPReward,
		PassPercentage: quiz.PassPercentage,
		TimeLimitSec:   quiz.TimeLimitSec,
		TotalQuestions: len(questions),
		Questions:      make([]QuestionView, 0, len(questions)),
	}
	for _, q := range questions {
		view.Questions = append(view.Questions, QuestionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      q.Options,
		})
	}
	return &view, nil
}

func (s *QuizService) checkLessonAccess(user *models.User, lessonID string) error {
	var lesson models.Lesson
	if err := s.DB.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}
	if lesson.IsPremium && !user.IsPremium && !user.IsAdmin {
		return ErrPremiumRequired
	}
	return nil
}

// Submit grades an answer set against the canonical answers. Comparison is
// exact string equality; answers for unknown question ids are dropped
// without affecting the score denominator, which is always the quiz's full
// question count. Every submission counts an attempt; only a strictly
// better score replaces the stored one. XP is awarded on every passing
// submission — re-passing is allowed to reward mastery.
func (s *QuizService) Submit(userID, quizID string, answers []Answer) (*SubmitResult, error) {
	var result SubmitResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		quiz, questions, err := s.getQuiz(tx, quizID)
		if err != nil {
			return err
		}

		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		byID := make(map[string]*models.Question, len(questions))
		for i := range questions {
			byID[questions[i].ID] = &questions[i]
		}

		correct := 0
		total := len(questions)
		results := make([]AnswerResult, 0, len(answers))

		for _, answer := range answers {
			question, ok := byID[answer.QuestionID]
			if !ok {
				continue
			}
			isCorrect := answer.Answer == question.CorrectAnswer
			if isCorrect {
				correct++
			}
			results = append(results, AnswerResult{
				QuestionID:    question.ID,
				YourAnswer:    answer.Answer,
				CorrectAnswer: question.CorrectAnswer,
				IsCorrect:     isCorrect,
				Explanation:   question.Explanation,
			})
		}

		var score float64
		if total > 0 {
			score = roundOneDecimal(float64(correct) / float64(total) * 100)
		}
		passed := score >= quiz.PassPercentage

		prog, err := s.Progression.EnsureProgress(tx, userID, quiz.LessonID)
		if err != nil {
			return err
		}

		prog.QuizAttempts++
		if prog.QuizScore == nil || score > *prog.QuizScore {
			prog.QuizScore = &score
		}

		oldLevel := user.Level
		var xpGained int64
		breakdown := s.XP.QuizXPBreakdown(correct, total, quiz.XPReward)

		if passed {
			xpGained = breakdown.Total

			// Passing the quiz implies the lesson is done; no separate
			// lesson-completion XP is granted retroactively.
			if !prog.IsCompleted {
				now := time.Now().UTC()
				prog.IsCompleted = true
				prog.CompletedAt = &now
			}

			if err := s.Progression.awardXP(tx, user, xpGained, models.XPSourceQuiz, &quiz.ID,
				fmt.Sprintf("Quiz: %s (%.1f%%)", quiz.Title, score)); err != nil {
				return err
			}
		}

		if err := tx.Save(prog).Error; err != nil {
			return err
		}

		result = SubmitResult{
			Passed:         passed,
			Score:          score,
			CorrectAnswers: correct,
			TotalQuestions: total,
			PassPercentage: quiz.PassPercentage,
			XPGained:       xpGained,
			XPBreakdown:    breakdown,
			LevelUp:        user.Level > oldLevel,
			OldLevel:       oldLevel,
			NewLevel:       user.Level,
			Info:           GetLevelInfo(user.TotalXP),
			Results:        results,
			Attempts:       prog.QuizAttempts,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
