package models

import (
	"time"
)

// PaymentStatus is the payment request lifecycle state.
// pending -> approved | rejected; terminal states are immutable.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// PlanType identifies a premium subscription plan
type PlanType string

const (
	PlanMonthly PlanType = "monthly"
	PlanYearly  PlanType = "yearly"
)

// Payment is a manually-reviewed payment request backed by an uploaded
// proof screenshot. At most one pending request per user at any time.
type Payment struct {
	ID         string        `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string        `gorm:"index;not null" json:"user_id"`
	Amount     int64         `gorm:"not null" json:"amount"`
	PlanType   PlanType      `gorm:"size:20;not null" json:"plan_type"`
	ProofURL   string        `gorm:"size:500;not null" json:"proof_url"`
	Status     PaymentStatus `gorm:"size:20;default:'pending';index" json:"status"`
	AdminNote  *string       `gorm:"type:text" json:"admin_note,omitempty"`
	ReviewedBy *string       `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
}
