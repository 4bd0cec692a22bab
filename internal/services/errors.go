package services

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrProviderNotFound     = errors.New("provider not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrJobNotFound          = errors.New("job not found")
	ErrMilestoneNotFound    = errors.New("milestone not found")
	ErrEscrowNotFound       = errors.New("escrow not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrForbidden           = errors.New("you do not have permission to perform this action")
	ErrAlreadyFunded       = errors.New("milestone already funded")
	ErrInsufficientFunds   = errors.New("insufficient wallet balance")
	ErrMilestoneLocked     = errors.New("amount cannot change after the milestone is funded")
	ErrMilestoneIncomplete = errors.New("milestone must be completed before release")
	ErrEscrowNotHeld       = errors.New("escrow is no longer held")
	ErrInvalidStatus       = errors.New("invalid job status")
	ErrInvalidAmount       = errors.New("amount must be a positive value")
	ErrInvalidRole         = errors.New("role must be customer or provider")
	ErrBookingConfirmed    = errors.New("booking already confirmed")
	ErrDepositNotPending   = errors.New("deposit is not pending")
	ErrPaymentNotVerified  = errors.New("payment could not be verified")
	ErrEmptyMessage        = errors.New("message text is required")

	ErrUsernameTaken  = errors.New("a user with that username already exists")
	ErrEmailTaken     = errors.New("a user with that email already exists")
	ErrBookingExists  = errors.New("a booking already exists for this job")
	ErrServiceExists  = errors.New("you already offer a service with this title in this category")
	ErrCategoryExists = errors.New("category already exists")

	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrInvalidToken       = errors.New("token is invalid or expired")

	ErrMediaUnavailable = errors.New("media storage is not configured")
)
