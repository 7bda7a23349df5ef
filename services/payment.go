package services

import (
	"errors"
	"log"
	"time"

	"edulearn-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanConfig carries the purchasable plans and the manual-payment details
// shown to the user. Prices come from the environment; durations are fixed
// product policy.
type PlanConfig struct {
	MonthlyPrice int64
	YearlyPrice  int64
	CardNumber   string
	CardHolder   string
	AdminContact string
}

var planDurations = map[models.PlanType]int{
	models.PlanMonthly: 30,
	models.PlanYearly:  365,
}

// Price returns the plan's price, or false for an unknown plan.
func (p PlanConfig) Price(plan models.PlanType) (int64, bool) {
	switch plan {
	case models.PlanMonthly:
		return p.MonthlyPrice, true
	case models.PlanYearly:
		return p.YearlyPrice, true
	default:
		return 0, false
	}
}

type PaymentService struct {
	DB    *gorm.DB
	Plans PlanConfig
}

func NewPaymentService(db *gorm.DB, plans PlanConfig) *PaymentService {
	return &PaymentService{DB: db, Plans: plans}
}

// CreateRequest opens a pending payment request. Only one unresolved
// request per user may exist at a time.
func (s *PaymentService) CreateRequest(userID string, plan models.PlanType, proofURL string) (*models.Payment, error) {
	price, ok := s.Plans.Price(plan)
	if !ok {
		return nil, ErrUnknownPlan
	}

	var payment models.Payment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.Model(&models.Payment{}).
			Where("user_id = ? AND status = ?", userID, models.PaymentStatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return ErrPendingPayment
		}

		payment = models.Payment{
			ID:       uuid.NewString(),
			UserID:   userID,
			Amount:   price,
			PlanType: plan,
			ProofURL: proofURL,
			Status:   models.PaymentStatusPending,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Review resolves a pending request. Approval flips the user to premium for
// a fresh now+duration window in the same transaction as the status change;
// an interrupted commit leaves neither. Approving does not stack onto
// remaining premium time — each approval starts the window over.
func (s *PaymentService) Review(paymentID, reviewerID string, approved bool, note *string) (*models.Payment, error) {
	var payment models.Payment

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", paymentID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		if payment.Status != models.PaymentStatusPending {
			return ErrAlreadyReviewed
		}

		now := time.Now().UTC()
		payment.ReviewedBy = &reviewerID
		payment.ReviewedAt = &now
		payment.AdminNote = note

		if approved {
			payment.Status = models.PaymentStatusApproved

			var user models.User
			if err := tx.Where("id = ?", payment.UserID).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return err
			}

			until := now.AddDate(0, 0, planDurations[payment.PlanType])
			user.IsPremium = true
			user.PremiumUntil = &until
			if err := tx.Save(&user).Error; err != nil {
				return err
			}
			log.Printf("💳 Premium granted: user=%s plan=%s until=%s",
				user.ID, payment.PlanType, until.Format(time.RFC3339))
		} else {
			payment.Status = models.PaymentStatusRejected
		}

		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// PremiumStatus is the self-service view of the user's entitlement.
type PremiumStatus struct {
	IsPremium     bool            `json:"is_premium"`
	PremiumUntil  *time.Time      `json:"premium_until,omitempty"`
	DaysRemaining int             `json:"days_remaining"`
	ExpiringSoon  bool            `json:"expiring_soon"`
	LatestPayment *models.Payment `json:"latest_payment,omitempty"`
}

// Status reports the user's premium state. Reads self-heal: an expired
// window flips is_premium off right here, independent of the sweep.
func (s *PaymentService) Status(userID string) (*PremiumStatus, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	if user.IsPremium && user.PremiumUntil != nil && user.PremiumUntil.Before(now) {
		user.IsPremium = false
		if err := s.DB.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("is_premium", false).Error; err != nil {
			return nil, err
		}
	}

	status := PremiumStatus{
		IsPremium:    user.IsPremium,
		PremiumUntil: user.PremiumUntil,
	}
	if user.IsPremium && user.PremiumUntil != nil {
		days := int(user.PremiumUntil.Sub(now).Hours() / 24)
		if days < 0 {
			days = 0
		}
		status.DaysRemaining = days
		status.ExpiringSoon = days > 0 && days <= 3
	}

	var latest models.Payment
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&latest).Error
	if err == nil {
		status.LatestPayment = &latest
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &status, nil
}

// PendingPayments lists unresolved requests for the review queue.
func (s *PaymentService) PendingPayments() ([]models.Payment, error) {
	var payments []models.Payment
	err := s.DB.Where("status = ?", models.PaymentStatusPending).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// GrantPremium manually grants a premium window (admin action).
func (s *PaymentService) GrantPremium(userID string, days int) (*models.User, error) {
	var user models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		until := time.Now().UTC().AddDate(0, 0, days)
		user.IsPremium = true
		user.PremiumUntil = &until
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RevokePremium removes a user's premium entitlement (admin action).
func (s *PaymentService) RevokePremium(userID string) error {
	res := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"is_premium": false, "premium_until": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RunExpirySweep downgrades every user whose premium window has lapsed and
// returns the downgrade count. premium_until is left in place as a record
// of the last grant. A second immediate run matches nothing — the sweep is
// idempotent, and reads self-heal independently anyway.
func (s *PaymentService) RunExpirySweep() (int, error) {
	now := time.Now().UTC()
	res := s.DB.Model(&models.User{}).
		Where("is_premium = ? AND premium_until < ?", true, now).
		Update("is_premium", false)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("⏰ Premium expiry sweep: %d user(s) downgraded", res.RowsAffected)
	}
	return int(res.RowsAffected), nil
}
