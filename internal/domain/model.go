// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the architecture — it depends on nothing.
package domain

import "time"

// ─── Account Types ──────────────────────────────────────────────────────────

// Role tags an account's privilege level.
type Role string

const (
	RoleStandard      Role = "standard"
	RoleAdministrator Role = "administrator"
)

// Account is an identity holding a coin balance.
// Accounts are created at sign-in and never deleted. The balance is intended
// to stay non-negative, but the ledger itself does not enforce it — call
// sites pre-check before debiting.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Coins    int64  `json:"coins"`
}

// IsAdmin reports whether the account holds the administrator role.
func (a Account) IsAdmin() bool { return a.Role == RoleAdministrator }

// Session ties an opaque token to an account. Sessions are explicit records
// passed into every operation — there is no ambient "current user".
type Session struct {
	Token     string    `json:"token"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ─── Campaign Types ─────────────────────────────────────────────────────────

// Platform is the social network a campaign targets.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformSpotify   Platform = "spotify"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
	PlatformKwai      Platform = "kwai"
)

// Platforms lists every supported platform.
func Platforms() []Platform {
	return []Platform{
		PlatformYouTube, PlatformSpotify, PlatformInstagram,
		PlatformFacebook, PlatformTikTok, PlatformKwai,
	}
}

// ValidPlatform reports whether p is a known platform.
func ValidPlatform(p Platform) bool {
	for _, known := range Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

// ActionKind classifies the engagement a campaign requests.
// View-class actions (watch, like, visit) are passive; follow-class actions
// (subscribe, follow) require commitment and complete more slowly.
type ActionKind string

const (
	ActionView   ActionKind = "view"
	ActionFollow ActionKind = "follow"
)

// ValidActionKind reports whether k is a known action kind.
func ValidActionKind(k ActionKind) bool {
	return k == ActionView || k == ActionFollow
}

// Campaign is a funded request for a fixed number of engagement actions at a
// fixed per-action reward. Funds for reward×total are reserved (debited from
// the owner) at creation.
type Campaign struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"owner_id"`
	Platform         Platform   `json:"platform"`
	Kind             ActionKind `json:"kind"`
	URL              string     `json:"url"`
	Description      string     `json:"description"`
	RewardPerAction  int64      `json:"reward_per_action"`
	TotalActions     int64      `json:"total_actions"`
	CompletedActions int64      `json:"completed_actions"`
	Active           bool       `json:"active"`
}

// Cost returns the total coin reservation for the campaign.
func (c Campaign) Cost() int64 { return c.RewardPerAction * c.TotalActions }

// Remaining returns the number of unfulfilled actions.
func (c Campaign) Remaining() int64 { return c.TotalActions - c.CompletedActions }

// Fulfillable reports whether the campaign can still accept a fulfillment.
func (c Campaign) Fulfillable() bool {
	return c.Active && c.CompletedActions < c.TotalActions
}

// ProgressPct returns completion as a 0–100 percentage.
func (c Campaign) ProgressPct() float64 {
	if c.TotalActions == 0 {
		return 0
	}
	pct := float64(c.CompletedActions) / float64(c.TotalActions) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// ─── Ledger Types ───────────────────────────────────────────────────────────

// TransactionKind is the business reason for a balance mutation.
type TransactionKind string

const (
	TxEarn     TransactionKind = "earn"
	TxSpend    TransactionKind = "spend"
	TxPurchase TransactionKind = "purchase"
	TxBonus    TransactionKind = "bonus"
)

// Transaction is an immutable append-only ledger record. Records are never
// mutated or deleted; history reads sort by timestamp descending.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Amount      int64           `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// ─── Store Catalog Types ────────────────────────────────────────────────────

// CoinPackage is a purchasable coin SKU. Prices are in cents to keep the
// arithmetic integral.
type CoinPackage struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Coins      int64  `json:"coins"`
	PriceCents int64  `json:"price_cents"`
	Featured   bool   `json:"featured,omitempty"`
}

// PaymentMethod identifies the mocked payment rail used for a purchase.
type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "pix"
	PaymentCreditCard PaymentMethod = "credit_card"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentPix || m == PaymentCreditCard
}

// ─── System Configuration ───────────────────────────────────────────────────

// SystemConfig holds the process-wide tunables administrators can edit at
// runtime. CoinPriceMultiplier scales displayed package prices; the coins
// credited per package are unaffected. TaskFeePercent is advisory only.
type SystemConfig struct {
	MinRewardPerAction  int64   `json:"min_reward_per_action"`
	TaskFeePercent      int64   `json:"task_fee_percent"`
	CoinPriceMultiplier float64 `json:"coin_price_multiplier"`
}

// DefaultSystemConfig returns the seed configuration.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		MinRewardPerAction:  5,
		TaskFeePercent:      10,
		CoinPriceMultiplier: 1.0,
	}
}
