package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/boostly-network/boostly/internal/domain"
)

// Seed populates an empty store with the initial catalog, configuration,
// an administrator account, and a handful of demo campaigns so the earn
// feed and the bot simulator have material on first run.
// Seeding an already-populated store is a no-op.
func (s *Store) Seed() error {
	n, err := s.db.CountDocs(colAccounts)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if err := s.PutSystemConfig(domain.DefaultSystemConfig(), 0); err != nil {
		return fmt.Errorf("seed config: %w", err)
	}

	for _, pkg := range seedPackages() {
		if err := s.PutPackage(pkg, 0); err != nil {
			return fmt.Errorf("seed package %s: %w", pkg.Name, err)
		}
	}

	admin := domain.Account{
		ID:       uuid.NewString(),
		Username: "admin",
		Role:     domain.RoleAdministrator,
		Coins:    999999,
	}
	if err := s.PutAccount(admin, 0); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	for i, sc := range seedCampaigns() {
		owner := domain.Account{
			ID:       uuid.NewString(),
			Username: fmt.Sprintf("demo_creator_%d", i+1),
			Role:     domain.RoleStandard,
			Coins:    500,
		}
		if err := s.PutAccount(owner, 0); err != nil {
			return fmt.Errorf("seed demo account: %w", err)
		}
		sc.ID = uuid.NewString()
		sc.OwnerID = owner.ID
		if err := s.PutCampaign(sc, 0); err != nil {
			return fmt.Errorf("seed campaign: %w", err)
		}
	}

	return nil
}

func seedPackages() []domain.CoinPackage {
	return []domain.CoinPackage{
		{ID: uuid.NewString(), Name: "Starter Pack", Coins: 500, PriceCents: 499},
		{ID: uuid.NewString(), Name: "Pro Boost", Coins: 1200, PriceCents: 999, Featured: true},
		{ID: uuid.NewString(), Name: "Influencer", Coins: 5000, PriceCents: 3999},
	}
}

func seedCampaigns() []domain.Campaign {
	return []domain.Campaign{
		{
			Platform:         domain.PlatformYouTube,
			Kind:             domain.ActionView,
			URL:              "https://youtube.com/watch?v=dQw4w9WgXcQ",
			Description:      "Watch my new music video!",
			RewardPerAction:  10,
			TotalActions:     100,
			CompletedActions: 45,
			Active:           true,
		},
		{
			Platform:         domain.PlatformInstagram,
			Kind:             domain.ActionFollow,
			URL:              "https://instagram.com/instagram",
			Description:      "Follow my official profile",
			RewardPerAction:  15,
			TotalActions:     50,
			CompletedActions: 12,
			Active:           true,
		},
		{
			Platform:         domain.PlatformTikTok,
			Kind:             domain.ActionView,
			URL:              "https://tiktok.com/@user/video/123",
			Description:      "Duet this trend!",
			RewardPerAction:  8,
			TotalActions:     200,
			CompletedActions: 150,
			Active:           true,
		},
		{
			Platform:         domain.PlatformKwai,
			Kind:             domain.ActionFollow,
			URL:              "https://kwai.com/@influencer",
			Description:      "Help me hit 10k on Kwai",
			RewardPerAction:  12,
			TotalActions:     80,
			CompletedActions: 20,
			Active:           true,
		},
	}
}
