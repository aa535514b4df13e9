package domain

import (
	"testing"
)

// ─── Campaign Tests ─────────────────────────────────────────────────────────

func TestCampaign_Cost(t *testing.T) {
	tests := []struct {
		name string
		c    Campaign
		want int64
	}{
		{
			name: "standard campaign",
			c:    Campaign{RewardPerAction: 10, TotalActions: 100},
			want: 1000,
		},
		{
			name: "single action",
			c:    Campaign{RewardPerAction: 5, TotalActions: 1},
			want: 5,
		},
		{
			name: "completed actions do not change cost",
			c:    Campaign{RewardPerAction: 10, TotalActions: 100, CompletedActions: 50},
			want: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Cost(); got != tt.want {
				t.Errorf("Cost() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCampaign_Remaining(t *testing.T) {
	c := Campaign{TotalActions: 100, CompletedActions: 45}
	if got := c.Remaining(); got != 55 {
		t.Errorf("Remaining() = %d, want 55", got)
	}
}

func TestCampaign_Fulfillable(t *testing.T) {
	tests := []struct {
		name string
		c    Campaign
		want bool
	}{
		{"active with room", Campaign{Active: true, TotalActions: 10, CompletedActions: 5}, true},
		{"inactive", Campaign{Active: false, TotalActions: 10, CompletedActions: 5}, false},
		{"finished", Campaign{Active: true, TotalActions: 10, CompletedActions: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Fulfillable(); got != tt.want {
				t.Errorf("Fulfillable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCampaign_ProgressPct(t *testing.T) {
	c := Campaign{TotalActions: 200, CompletedActions: 150}
	if got := c.ProgressPct(); got != 75.0 {
		t.Errorf("ProgressPct() = %v, want 75.0", got)
	}
	zero := Campaign{}
	if got := zero.ProgressPct(); got != 0 {
		t.Errorf("ProgressPct() on empty campaign = %v, want 0", got)
	}
}

// ─── Account Tests ──────────────────────────────────────────────────────────

func TestAccount_IsAdmin(t *testing.T) {
	if (Account{Role: RoleStandard}).IsAdmin() {
		t.Error("standard account should not be admin")
	}
	if !(Account{Role: RoleAdministrator}).IsAdmin() {
		t.Error("administrator account should be admin")
	}
}

// ─── Validation Tests ───────────────────────────────────────────────────────

func TestValidPlatform(t *testing.T) {
	for _, p := range Platforms() {
		if !ValidPlatform(p) {
			t.Errorf("ValidPlatform(%q) = false, want true", p)
		}
	}
	for _, p := range []Platform{"", "myspace", "YouTube"} {
		if ValidPlatform(p) {
			t.Errorf("ValidPlatform(%q) = true, want false", p)
		}
	}
}

func TestValidActionKind(t *testing.T) {
	for _, k := range []ActionKind{ActionView, ActionFollow} {
		if !ValidActionKind(k) {
			t.Errorf("ValidActionKind(%q) = false, want true", k)
		}
	}
	if ValidActionKind("like") {
		t.Error("ValidActionKind(like) = true, want false")
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentPix, PaymentCreditCard} {
		if !ValidPaymentMethod(m) {
			t.Errorf("ValidPaymentMethod(%q) = false, want true", m)
		}
	}
	if ValidPaymentMethod("barter") {
		t.Error("ValidPaymentMethod(barter) = true, want false")
	}
}

func TestDefaultSystemConfig(t *testing.T) {
	cfg := DefaultSystemConfig()
	if cfg.MinRewardPerAction != 5 {
		t.Errorf("MinRewardPerAction = %d, want 5", cfg.MinRewardPerAction)
	}
	if cfg.TaskFeePercent != 10 {
		t.Errorf("TaskFeePercent = %d, want 10", cfg.TaskFeePercent)
	}
	if cfg.CoinPriceMultiplier != 1.0 {
		t.Errorf("CoinPriceMultiplier = %v, want 1.0", cfg.CoinPriceMultiplier)
	}
}
