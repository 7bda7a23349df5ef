package services

import "errors"

// Business-rule outcomes surfaced to the caller. None of these warrant a
// retry — they are definite answers, not transient failures. Handlers map
// them onto HTTP statuses in one place.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrModuleNotFound  = errors.New("module not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrNewsNotFound    = errors.New("news not found")

	// ErrPremiumRequired carries a structured reason so the client can
	// render an upsell instead of a generic failure.
	ErrPremiumRequired = errors.New("premium_required")

	ErrAlreadyClaimed  = errors.New("daily challenge already claimed today")
	ErrPendingPayment  = errors.New("a pending payment request already exists")
	ErrAlreadyReviewed = errors.New("payment has already been reviewed")
	ErrUnknownPlan     = errors.New("unknown plan type")
	ErrSelfAdminToggle = errors.New("cannot change your own admin status")
)
