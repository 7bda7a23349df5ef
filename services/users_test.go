package services

import (
	"testing"

	"edulearn-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureUser_ProvisionsOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	username := "gopher"
	created, err := svc.EnsureUser(42, &username, "Gopher Dev")
	require.NoError(t, err)
	assert.Equal(t, 1, created.Level)
	assert.EqualValues(t, 0, created.TotalXP)
	assert.True(t, created.IsActive)

	again, err := svc.EnsureUser(42, nil, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID, "second call returns the existing row")
	assert.Equal(t, "Gopher Dev", again.FullName)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEnsureUser_LostProvisionRace(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	// A competing request inserts the row between EnsureUser's read and
	// its create, so the create hits the unique index.
	raced := false
	err := db.Callback().Create().Before("gorm:begin_transaction").Register("competing_provision", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "users" {
			return
		}
		raced = true
		first := models.User{
			ID:         uuid.NewString(),
			TelegramID: 777,
			FullName:   "First Writer",
			Level:      1,
			IsActive:   true,
		}
		require.NoError(t, db.Create(&first).Error)
	})
	require.NoError(t, err)

	user, err := svc.EnsureUser(777, nil, "Second Writer")
	require.NoError(t, err)
	assert.Equal(t, "First Writer", user.FullName, "the loser returns the winner's row")

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetUser_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.GetUser("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestToggleAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	admin := createTestUser(t, db, func(u *models.User) { u.IsAdmin = true })
	target := createTestUser(t, db)

	isAdmin, err := svc.ToggleAdmin(admin.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = svc.ToggleAdmin(admin.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestToggleAdmin_SelfGuard(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	admin := createTestUser(t, db, func(u *models.User) { u.IsAdmin = true })

	_, err := svc.ToggleAdmin(admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrSelfAdminToggle)
}

func TestGetDashboardStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	payments := NewPaymentService(db, testPlanConfig())

	admin := createTestUser(t, db, func(u *models.User) { u.IsAdmin = true })
	premium := createTestUser(t, db, func(u *models.User) { u.IsPremium = true })
	free := createTestUser(t, db)

	module := createTestModule(t, db, false)
	lesson := createTestLesson(t, db, module.ID, 0)
	createTestQuiz(t, db, lesson.ID, nil)

	// One approved payment and one still pending.
	p1, err := payments.CreateRequest(premium.ID, models.PlanMonthly, "")
	require.NoError(t, err)
	_, err = payments.Review(p1.ID, admin.ID, true, nil)
	require.NoError(t, err)
	_, err = payments.CreateRequest(free.ID, models.PlanYearly, "")
	require.NoError(t, err)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.PremiumUsers)
	assert.EqualValues(t, 2, stats.FreeUsers)
	assert.EqualValues(t, 1, stats.TotalModules)
	assert.EqualValues(t, 1, stats.TotalLessons)
	assert.EqualValues(t, 1, stats.TotalQuizzes)
	assert.EqualValues(t, 1, stats.PendingPayments)
	assert.EqualValues(t, 50000, stats.TotalRevenue)
}
