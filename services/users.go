package services

import (
	"errors"
	"time"

	"edulearn-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// GetUser loads the user aggregate by id.
func (s *UserService) GetUser(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUser finds the user by telegram id or provisions a fresh aggregate.
// The gateway performs the actual authentication; we only keep the row.
func (s *UserService) EnsureUser(telegramID int64, username *string, fullName string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:         uuid.NewString(),
			TelegramID: telegramID,
			Username:   username,
			FullName:   fullName,
			Level:      1,
			IsActive:   true,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			// Two first requests for the same telegram id can race past
			// the read; the unique index rejects the loser, whose row
			// already exists and is returned instead.
			var existing models.User
			if lookupErr := s.DB.Where("telegram_id = ?", telegramID).First(&existing).Error; lookupErr == nil {
				return &existing, nil
			}
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns users newest-first for the admin panel.
func (s *UserService) ListUsers(offset, limit int) ([]models.User, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var users []models.User
	err := s.DB.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// ToggleAdmin flips a user's admin flag. Admins cannot toggle themselves —
// that would make it possible to lock the last admin out.
func (s *UserService) ToggleAdmin(adminID, userID string) (bool, error) {
	if adminID == userID {
		return false, ErrSelfAdminToggle
	}

	var isAdmin bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		user.IsAdmin = !user.IsAdmin
		isAdmin = user.IsAdmin
		return tx.Save(&user).Error
	})
	return isAdmin, err
}

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	TotalUsers      int64 `json:"total_users"`
	PremiumUsers    int64 `json:"premium_users"`
	FreeUsers       int64 `json:"free_users"`
	ActiveToday     int64 `json:"active_today"`
	TotalModules    int64 `json:"total_modules"`
	TotalLessons    int64 `json:"total_lessons"`
	TotalQuizzes    int64 `json:"total_quizzes"`
	PendingPayments int64 `json:"pending_payments"`
	TotalRevenue    int64 `json:"total_revenue"`
}

// GetDashboardStats aggregates the counters shown on the admin dashboard.
func (s *UserService) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := s.DB.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	s.DB.Model(&models.User{}).Where("is_premium = ?", true).Count(&stats.PremiumUsers)
	stats.FreeUsers = stats.TotalUsers - stats.PremiumUsers

	todayStart := time.Now().UTC().Truncate(24 * time.Hour)
	s.DB.Model(&models.User{}).Where("last_activity >= ?", todayStart).Count(&stats.ActiveToday)

	s.DB.Model(&models.Module{}).Count(&stats.TotalModules)
	s.DB.Model(&models.Lesson{}).Count(&stats.TotalLessons)
	s.DB.Model(&models.Quiz{}).Count(&stats.TotalQuizzes)

	s.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusPending).
		Count(&stats.PendingPayments)

	var revenue *int64
	s.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusApproved).
		Select("SUM(amount)").
		Scan(&revenue)
	if revenue != nil {
		stats.TotalRevenue = *revenue
	}

	return &stats, nil
}
