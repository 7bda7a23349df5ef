package services

import (
	"errors"

	"edulearn-backend/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ContentService owns the course catalog reads plus the admin CRUD over it.
// The progression core only talks to it through id-based lookups.
type ContentService struct {
	DB *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{DB: db}
}

// ModuleSummary is one course module with the user's completion slice.
type ModuleSummary struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Slug             string  `json:"slug"`
	Description      string  `json:"description"`
	Emoji            string  `json:"emoji"`
	ImageURL         *string `json:"image_url,omitempty"`
	IsPremium        bool    `json:"is_premium"`
	IsLocked         bool    `json:"is_locked"`
	TotalLessons     int     `json:"total_lessons"`
	CompletedLessons int     `json:"completed_lessons"`
	Progress         float64 `json:"progress"`
}

// ListModules returns active modules in order with per-module completion.
func (s *ContentService) ListModules(user *models.User) ([]ModuleSummary, error) {
	var modules []models.Module
	if err := s.DB.Where("is_active = ?", true).
		Order("order_index ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}

	progress, err := s.userProgressMap(user.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ModuleSummary, 0, len(modules))
	for _, module := range modules {
		var lessons []models.Lesson
		if err := s.DB.Where("module_id = ? AND is_active = ?", module.ID, true).
			Find(&lessons).Error; err != nil {
			return nil, err
		}

		completed := 0
		for _, lesson := range lessons {
			if p, ok := progress[lesson.ID]; ok && p.IsCompleted {
				completed++
			}
		}

		var pct float64
		if len(lessons) > 0 {
			pct = roundOneDecimal(float64(completed) / float64(len(lessons)) * 100)
		}

		summaries = append(summaries, ModuleSummary{
			ID:               module.ID,
			Title:            module.Title,
			Slug:             module.Slug,
			Description:      module.Description,
			Emoji:            module.Emoji,
			ImageURL:         module.ImageURL,
			IsPremium:        module.IsPremium,
			IsLocked:         module.IsPremium && !user.IsPremium && !user.IsAdmin,
			TotalLessons:     len(lessons),
			CompletedLessons: completed,
			Progress:         pct,
		})
	}
	return summaries, nil
}

// ModuleLessons returns the ordered lesson list with lock state resolved.
func (s *ContentService) ModuleLessons(user *models.User, moduleID string) (*models.Module, []LessonListEntry, error) {
	var module models.Module
	if err := s.DB.Where("id = ?", moduleID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrModuleNotFound
		}
		return nil, nil, err
	}

	if module.IsPremium && !user.IsPremium && !user.IsAdmin {
		return nil, nil, ErrPremiumRequired
	}

	var lessons []models.Lesson
	if err := s.DB.Where("module_id = ? AND is_active = ?", moduleID, true).
		Order("order_index ASC").
		Find(&lessons).Error; err != nil {
		return nil, nil, err
	}

	progress, err := s.userProgressMap(user.ID)
	if err != nil {
		return nil, nil, err
	}

	quizByLesson, err := s.quizMap(lessons)
	if err != nil {
		return nil, nil, err
	}

	entries := BuildLessonList(lessons, progress, quizByLesson, user.IsPremium, user.IsAdmin)
	return &module, entries, nil
}

// LessonDetail is the full lesson payload with the user's progress mixed in.
type LessonDetail struct {
	models.Lesson
	Module      models.Module `json:"module"`
	HasQuiz     bool          `json:"has_quiz"`
	QuizID      *string       `json:"quiz_id,omitempty"`
	IsCompleted bool          `json:"is_completed"`
	QuizScore   *float64      `json:"quiz_score,omitempty"`
}

// GetLesson loads one lesson with its module context, premium gated.
func (s *ContentService) GetLesson(user *models.User, lessonID string) (*LessonDetail, error) {
	var lesson models.Lesson
	if err := s.DB.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	if lesson.IsPremium && !user.IsPremium && !user.IsAdmin {
		return nil, ErrPremiumRequired
	}

	var module models.Module
	if err := s.DB.Where("id = ?", lesson.ModuleID).First(&module).Error; err != nil {
		return nil, err
	}

	detail := LessonDetail{Lesson: lesson, Module: module}

	var quiz models.Quiz
	err := s.DB.Where("lesson_id = ?", lessonID).First(&quiz).Error
	if err == nil {
		detail.HasQuiz = true
		detail.QuizID = &quiz.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var prog models.UserProgress
	err = s.DB.Where("user_id = ? AND lesson_id = ?", user.ID, lessonID).First(&prog).Error
	if err == nil {
		detail.IsCompleted = prog.IsCompleted
		detail.QuizScore = prog.QuizScore
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &detail, nil
}

func (s *ContentService) userProgressMap(userID string) (map[string]*models.UserProgress, error) {
	var rows []models.UserProgress
	if err := s.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	m := make(map[string]*models.UserProgress, len(rows))
	for i := range rows {
		m[rows[i].LessonID] = &rows[i]
	}
	return m, nil
}

func (s *ContentService) quizMap(lessons []models.Lesson) (map[string]string, error) {
	if len(lessons) == 0 {
		return map[string]string{}, nil
	}
	ids := make([]string, 0, len(lessons))
	for _, lesson := range lessons {
		ids = append(ids, lesson.ID)
	}
	var quizzes []models.Quiz
	if err := s.DB.Where("lesson_id IN ?", ids).Find(&quizzes).Error; err != nil {
		return nil, err
	}
	m := make(map[string]string, len(quizzes))
	for _, quiz := range quizzes {
		m[quiz.LessonID] = quiz.ID
	}
	return m, nil
}

// --- Admin CRUD ---

type ModuleInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Emoji       string  `json:"emoji"`
	ImageURL    *string `json:"image_url"`
	IsPremium   bool    `json:"is_premium"`
	OrderIndex  int     `json:"order_index"`
}

func (s *ContentService) CreateModule(in ModuleInput) (*models.Module, error) {
	module := models.Module{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Slug:        slug.Make(in.Title),
		Description: in.Description,
		Emoji:       in.Emoji,
		ImageURL:    in.ImageURL,
		OrderIndex:  in.OrderIndex,
		IsPremium:   in.IsPremium,
		IsActive:    true,
	}
	if module.Emoji == "" {
		module.Emoji = "📚"
	}
	if err := s.DB.Create(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (s *ContentService) ListAllModules() ([]models.Module, error) {
	var modules []models.Module
	err := s.DB.Order("order_index ASC").Find(&modules).Error
	return modules, err
}

func (s *ContentService) DeleteModule(moduleID string) error {
	res := s.DB.Where("id = ?", moduleID).Delete(&models.Module{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrModuleNotFound
	}
	return nil
}

type LessonInput struct {
	ModuleID    string  `json:"module_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Content     string  `json:"content"`
	VideoURL    *string `json:"video_url"`
	XPReward    int64   `json:"xp_reward"`
	OrderIndex  int     `json:"order_index"`
	IsPremium   bool    `json:"is_premium"`
	DurationMin int     `json:"duration_min"`
}

func (s *ContentService) CreateLesson(in LessonInput) (*models.Lesson, error) {
	var module models.Module
	if err := s.DB.Where("id = ?", in.ModuleID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}

	lesson := models.Lesson{
		ID:          uuid.NewString(),
		ModuleID:    in.ModuleID,
		Title:       in.Title,
		Slug:        slug.Make(in.Title),
		Description: in.Description,
		Content:     in.Content,
		VideoURL:    in.VideoURL,
		XPReward:    in.XPReward,
		OrderIndex:  in.OrderIndex,
		IsPremium:   in.IsPremium,
		IsActive:    true,
		DurationMin: in.DurationMin,
	}
	if lesson.XPReward <= 0 {
		lesson.XPReward = 50
	}
	if lesson.DurationMin <= 0 {
		lesson.DurationMin = 10
	}
	if err := s.DB.Create(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *ContentService) DeleteLesson(lessonID string) error {
	res := s.DB.Where("id = ?", lessonID).Delete(&models.Lesson{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLessonNotFound
	}
	return nil
}

type QuizInput struct {
	LessonID       string  `json:"lesson_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	XPReward       int64   `json:"xp_reward"`
	PassPercentage float64 `json:"pass_percentage"`
	TimeLimitSec   int     `json:"time_limit_sec"`
}

func (s *ContentService) CreateQuiz(in QuizInput) (*models.Quiz, error) {
	var lesson models.Lesson
	if err := s.DB.Where("id = ?", in.LessonID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	quiz := models.Quiz{
		ID:             uuid.NewString(),
		LessonID:       in.LessonID,
		Title:          in.Title,
		Description:    in.Description,
		XPReward:       in.XPReward,
		PassPercentage: in.PassPercentage,
		TimeLimitSec:   in.TimeLimitSec,
	}
	if quiz.XPReward <= 0 {
		quiz.XPReward = 100
	}
	if quiz.PassPercentage <= 0 {
		quiz.PassPercentage = 70
	}
	if quiz.TimeLimitSec <= 0 {
		quiz.TimeLimitSec = 300
	}
	if err := s.DB.Create(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

type QuestionInput struct {
	QuestionText  string   `json:"question_text"`
	QuestionType  string   `json:"question_type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	OrderIndex    int      `json:"order_index"`
}

func (s *ContentService) AddQuestion(quizID string, in QuestionInput) (*models.Question, error) {
	var quiz models.Quiz
	if err := s.DB.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	question := models.Question{
		ID:            uuid.NewString(),
		QuizID:        quizID,
		QuestionText:  in.QuestionText,
		QuestionType:  in.QuestionType,
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
		Explanation:   in.Explanation,
		OrderIndex:    in.OrderIndex,
	}
	if question.QuestionType == "" {
		question.QuestionType = "multiple_choice"
	}
	if err := s.DB.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}
