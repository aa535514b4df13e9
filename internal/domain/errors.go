package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Every failure here
// is local and recoverable by re-submission.

var (
	// Ledger errors
	ErrInsufficientFunds = errors.New("insufficient coin balance")
	ErrAccountNotFound   = errors.New("account not found")

	// Campaign errors
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrNotOwner         = errors.New("campaign belongs to another account")
	ErrOwnCampaign      = errors.New("cannot fulfill your own campaign")
	ErrCampaignClosed   = errors.New("campaign is no longer accepting actions")

	// Validation errors
	ErrRewardTooLow     = errors.New("reward below the configured minimum")
	ErrEmptyDescription = errors.New("description must not be empty")
	ErrEmptyURL         = errors.New("target URL must not be empty")
	ErrInvalidTotal     = errors.New("total action count must be at least 1")
	ErrInvalidPlatform  = errors.New("unknown platform")
	ErrInvalidKind      = errors.New("unknown action kind")

	// Identity errors
	ErrEmptyUsername   = errors.New("username must not be empty")
	ErrSessionNotFound = errors.New("session not found")
	ErrNotAdmin        = errors.New("administrator role required")

	// Storefront errors
	ErrPackageNotFound      = errors.New("coin package not found")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
)
