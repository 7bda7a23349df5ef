package services

import (
	"fmt"
	"strings"
	"testing"

	"edulearn-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Module{},
		&models.Lesson{},
		&models.Quiz{},
		&models.Question{},
		&models.UserProgress{},
		&models.XPHistory{},
		&models.Payment{},
		&models.News{},
	))
	return db
}

// userRowLockRecorder flags whether a query against users carried a
// row-locking clause. The SQLite driver drops the clause when rendering
// SQL, so the built statement is inspected instead of the query text.
func userRowLockRecorder(t *testing.T, db *gorm.DB) *bool {
	t.Helper()

	locked := false
	err := db.Callback().Query().After("gorm:query").Register("record_user_row_lock", func(tx *gorm.DB) {
		if tx.Statement.Table != "users" {
			return
		}
		if _, ok := tx.Statement.Clauses["FOR"]; ok {
			locked = true
		}
	})
	require.NoError(t, err)
	return &locked
}

func createTestUser(t *testing.T, db *gorm.DB, mutate ...func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		ID:         uuid.NewString(),
		TelegramID: int64(uuid.New().ID()),
		FullName:   "Test User",
		Level:      1,
		IsActive:   true,
	}
	for _, m := range mutate {
		m(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestModule(t *testing.T, db *gorm.DB, premium bool) *models.Module {
	t.Helper()

	module := &models.Module{
		ID:        uuid.NewString(),
		Title:     "Go Basics",
		Slug:      "go-basics",
		Emoji:     "📚",
		IsPremium: premium,
		IsActive:  true,
	}
	require.NoError(t, db.Create(module).Error)
	return module
}

func createTestLesson(t *testing.T, db *gorm.DB, moduleID string, order int, mutate ...func(*models.Lesson)) *models.Lesson {
	t.Helper()

	lesson := &models.Lesson{
		ID:          uuid.NewString(),
		ModuleID:    moduleID,
		Title:       fmt.Sprintf("Lesson %d", order),
		XPReward:    50,
		OrderIndex:  order,
		IsActive:    true,
		DurationMin: 10,
	}
	for _, m := range mutate {
		m(lesson)
	}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

func createTestQuiz(t *testing.T, db *gorm.DB, lessonID string, questions []models.Question) *models.Quiz {
	t.Helper()

	quiz := &models.Quiz{
		ID:             uuid.NewString(),
		LessonID:       lessonID,
		Title:          "Checkpoint",
		XPReward:       100,
		PassPercentage: 70,
		TimeLimitSec:   300,
	}
	require.NoError(t, db.Create(quiz).Error)

	for i := range questions {
		questions[i].ID = uuid.NewString()
		questions[i].QuizID = quiz.ID
		questions[i].OrderIndex = i
		if questions[i].QuestionType == "" {
			questions[i].QuestionType = "multiple_choice"
		}
		require.NoError(t, db.Create(&questions[i]).Error)
	}
	return quiz
}
