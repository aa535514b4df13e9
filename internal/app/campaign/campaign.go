// Package campaign implements the engagement campaign lifecycle: creation
// with upfront cost escrow, reward edits with delta settlement, action
// fulfillment, and deletion.
package campaign

import (
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/boostly-network/boostly/internal/app/ledger"
	"github.com/boostly-network/boostly/internal/domain"
	"github.com/boostly-network/boostly/internal/infra/observability"
	"github.com/boostly-network/boostly/internal/store"
)

// Service coordinates campaign state with the coin ledger.
type Service struct {
	store  *store.Store
	ledger *ledger.Service
}

// NewService creates a campaign service.
func NewService(st *store.Store, lg *ledger.Service) *Service {
	return &Service{store: st, ledger: lg}
}

// CreateParams carries the owner-supplied fields of a new campaign.
type CreateParams struct {
	OwnerID         string
	Platform        domain.Platform
	Kind            domain.ActionKind
	URL             string
	Description     string
	RewardPerAction int64
	TotalActions    int64
}

// Create validates the parameters, charges the owner the full campaign cost
// (reward × total) up front, and persists the campaign as active.
//
// The full cost is escrowed at creation; deleting the campaign later does
// NOT refund the unspent remainder.
func (s *Service) Create(p CreateParams) (domain.Campaign, error) {
	if !domain.ValidPlatform(p.Platform) {
		return domain.Campaign{}, domain.ErrInvalidPlatform
	}
	if !domain.ValidActionKind(p.Kind) {
		return domain.Campaign{}, domain.ErrInvalidKind
	}
	if p.URL == "" {
		return domain.Campaign{}, domain.ErrEmptyURL
	}
	if p.Description == "" {
		return domain.Campaign{}, domain.ErrEmptyDescription
	}
	if p.TotalActions <= 0 {
		return domain.Campaign{}, domain.ErrInvalidTotal
	}

	cfg, _, err := s.store.GetSystemConfig()
	if err != nil {
		return domain.Campaign{}, err
	}
	if p.RewardPerAction < cfg.MinRewardPerAction {
		return domain.Campaign{}, domain.ErrRewardTooLow
	}

	owner, _, err := s.store.GetAccount(p.OwnerID)
	if err != nil {
		return domain.Campaign{}, err
	}
	cost := p.RewardPerAction * p.TotalActions
	if owner.Coins < cost {
		observability.RejectedOperations.WithLabelValues("insufficient_funds").Inc()
		return domain.Campaign{}, domain.ErrInsufficientFunds
	}

	c := domain.Campaign{
		ID:              uuid.NewString(),
		OwnerID:         p.OwnerID,
		Platform:        p.Platform,
		Kind:            p.Kind,
		URL:             p.URL,
		Description:     p.Description,
		RewardPerAction: p.RewardPerAction,
		TotalActions:    p.TotalActions,
		Active:          true,
	}

	// Campaign first, ledger second: a failed write must not move coins.
	if err := s.store.PutCampaign(c, 0); err != nil {
		return domain.Campaign{}, err
	}
	if _, err := s.ledger.Debit(p.OwnerID, cost); err != nil {
		return domain.Campaign{}, err
	}
	if _, err := s.ledger.Append(p.OwnerID, -cost, domain.TxSpend,
		fmt.Sprintf("Campaign created: %s", p.Description)); err != nil {
		return domain.Campaign{}, err
	}

	observability.CampaignsCreated.Inc()
	log.Printf("[campaign] created %s (%s/%s, %d x %d coins) for %s",
		c.ID, c.Platform, c.Kind, c.TotalActions, c.RewardPerAction, c.OwnerID)
	return c, nil
}

// Edit changes a campaign's reward per action and description. Only the
// owner may edit, and only while the campaign still accepts actions.
// The cost delta over the REMAINING actions is settled
// immediately: raising the reward charges the owner, lowering it refunds
// the difference. Total actions cannot be changed.
func (s *Service) Edit(actorID, campaignID string, newReward int64, newDescription string) (domain.Campaign, error) {
	c, version, err := s.store.GetCampaign(campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	if c.OwnerID != actorID {
		return domain.Campaign{}, domain.ErrNotOwner
	}
	if !c.Fulfillable() {
		return domain.Campaign{}, domain.ErrCampaignClosed
	}
	if newDescription == "" {
		return domain.Campaign{}, domain.ErrEmptyDescription
	}

	cfg, _, err := s.store.GetSystemConfig()
	if err != nil {
		return domain.Campaign{}, err
	}
	if newReward < cfg.MinRewardPerAction {
		return domain.Campaign{}, domain.ErrRewardTooLow
	}

	delta := (newReward - c.RewardPerAction) * c.Remaining()
	if delta > 0 {
		owner, _, err := s.store.GetAccount(actorID)
		if err != nil {
			return domain.Campaign{}, err
		}
		if owner.Coins < delta {
			observability.RejectedOperations.WithLabelValues("insufficient_funds").Inc()
			return domain.Campaign{}, domain.ErrInsufficientFunds
		}
	}

	// Write the campaign before settling the ledger: the bot simulator may
	// have bumped the document version since the read above, and a version
	// conflict must leave the owner's balance and history untouched. The
	// delta stays accurate because the write only succeeds against the
	// exact state it was computed from.
	c.RewardPerAction = newReward
	c.Description = newDescription
	if err := s.store.PutCampaign(c, version); err != nil {
		return domain.Campaign{}, err
	}

	if delta > 0 {
		if _, err := s.ledger.Debit(actorID, delta); err != nil {
			return domain.Campaign{}, err
		}
		if _, err := s.ledger.Append(actorID, -delta, domain.TxSpend,
			fmt.Sprintf("Campaign reward raised: %s", newDescription)); err != nil {
			return domain.Campaign{}, err
		}
	} else if delta < 0 {
		refund := -delta
		if _, err := s.ledger.Credit(actorID, refund); err != nil {
			return domain.Campaign{}, err
		}
		if _, err := s.ledger.Append(actorID, refund, domain.TxEarn,
			fmt.Sprintf("Campaign reward lowered: %s", newDescription)); err != nil {
			return domain.Campaign{}, err
		}
	}

	return c, nil
}

// Fulfill records one completed action by actorID on the campaign. The
// actor is credited the reward and an earn transaction is logged. Owners
// cannot fulfill their own campaigns. The final action deactivates the
// campaign.
//
// There is no guard against the same account fulfilling a campaign twice;
// each call advances the counter and pays the reward.
func (s *Service) Fulfill(actorID, campaignID string) (domain.Campaign, error) {
	c, version, err := s.store.GetCampaign(campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	if c.OwnerID == actorID {
		return domain.Campaign{}, domain.ErrOwnCampaign
	}
	if !c.Fulfillable() {
		observability.RejectedOperations.WithLabelValues("campaign_closed").Inc()
		return domain.Campaign{}, domain.ErrCampaignClosed
	}

	if _, _, err := s.store.GetAccount(actorID); err != nil {
		return domain.Campaign{}, err
	}

	c.CompletedActions++
	if c.CompletedActions >= c.TotalActions {
		c.Active = false
	}
	if err := s.store.PutCampaign(c, version); err != nil {
		return domain.Campaign{}, err
	}

	if _, err := s.ledger.Credit(actorID, c.RewardPerAction); err != nil {
		return domain.Campaign{}, err
	}
	if _, err := s.ledger.Append(actorID, c.RewardPerAction, domain.TxEarn,
		fmt.Sprintf("Action reward: %s", c.Description)); err != nil {
		return domain.Campaign{}, err
	}

	observability.Fulfillments.WithLabelValues("user").Inc()
	return c, nil
}

// Delete removes a campaign. Only the owner may delete, and the unspent
// escrow is forfeited, not refunded.
func (s *Service) Delete(actorID, campaignID string) error {
	c, _, err := s.store.GetCampaign(campaignID)
	if err != nil {
		return err
	}
	if c.OwnerID != actorID {
		return domain.ErrNotOwner
	}
	if err := s.store.DeleteCampaign(campaignID); err != nil {
		return err
	}
	observability.CampaignsDeleted.Inc()
	log.Printf("[campaign] deleted %s by owner %s", campaignID, actorID)
	return nil
}

// Get returns one campaign by id.
func (s *Service) Get(campaignID string) (domain.Campaign, error) {
	c, _, err := s.store.GetCampaign(campaignID)
	return c, err
}

// Filter narrows Available listings. Zero values match everything.
type Filter struct {
	Platform domain.Platform
	Kind     domain.ActionKind
}

// Mine returns every campaign owned by the account, active or not.
func (s *Service) Mine(ownerID string) ([]domain.Campaign, error) {
	all, err := s.store.ListCampaigns()
	if err != nil {
		return nil, err
	}
	var out []domain.Campaign
	for _, c := range all {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Available returns fulfillable campaigns the viewer does not own, best
// reward first, optionally filtered by platform and action kind.
func (s *Service) Available(viewerID string, f Filter) ([]domain.Campaign, error) {
	all, err := s.store.ListCampaigns()
	if err != nil {
		return nil, err
	}
	var out []domain.Campaign
	for _, c := range all {
		if !c.Fulfillable() || c.OwnerID == viewerID {
			continue
		}
		if f.Platform != "" && c.Platform != f.Platform {
			continue
		}
		if f.Kind != "" && c.Kind != f.Kind {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RewardPerAction > out[j].RewardPerAction
	})
	return out, nil
}
