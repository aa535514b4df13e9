package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boostly-network/boostly/internal/app/campaign"
	"github.com/boostly-network/boostly/internal/domain"
)

// ─── Campaign API ───────────────────────────────────────────────────────────
// GET    /api/campaigns              — available feed (filter + reward sort)
// POST   /api/campaigns              — create (charges cost up front)
// GET    /api/campaigns/mine         — caller's own campaigns
// GET    /api/campaigns/{id}         — single campaign
// PATCH  /api/campaigns/{id}         — edit reward/description (owner only)
// DELETE /api/campaigns/{id}         — delete, escrow forfeited (owner only)
// POST   /api/campaigns/{id}/fulfill — complete one action, earn the reward

type createCampaignRequest struct {
	Platform        string `json:"platform"`
	Kind            string `json:"kind"`
	URL             string `json:"url"`
	Description     string `json:"description"`
	RewardPerAction int64  `json:"rewardPerAction"`
	TotalActions    int64  `json:"totalActions"`
}

type editCampaignRequest struct {
	RewardPerAction int64  `json:"rewardPerAction"`
	Description     string `json:"description"`
}

// handleAvailableCampaigns returns the fulfillable feed for the caller.
// GET /api/campaigns?platform=youtube&kind=view
func (s *Server) handleAvailableCampaigns(w http.ResponseWriter, r *http.Request) {
	account, err := s.authenticate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	filter := campaign.Filter{
		Platform: domain.Platform(r.URL.Query().Get("platform")),
		Kind:     domain.ActionKind(r.URL.Query().Get("kind")),
	}
	campaigns, err := s.campaigns.Available(account.ID, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns": campaigns,
	})
}

// handleMyCampaigns returns every campaign the caller owns.
// GET /api/campaigns/mine
func (s *Server) handleMyCampaigns(w http.ResponseWriter, r *http.Request) {
	account, err := s.authenticate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	campaigns, err := s.campaigns.Mine(account.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns": campaigns,
	})
}

// handleCreateCampaign creates a campaign, charging the full cost.
// POST /api/campaigns
func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	account, err := s.authenticate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.campaigns.Create(campaign.CreateParams{
		OwnerID:         account.ID,
		Platform:        domain.Platform(req.Platform),
		Kind:            domain.ActionKind(req.Kind),
		URL:             req.URL,
		Description:     req.Description,
		RewardPerAction: req.RewardPerAction,
		TotalActions:    req.TotalActions,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleGetCampaign returns one campaign by id.
// GET /api/campaigns/{id}
func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeDomainError(w, err)
		return
	}
	c, err := s.campaigns.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleEditCampaign updates reward and description, settling the cost delta.
// PATCH /api/campaigns/{id}
func (s *Server) handleEditCampaign(w http.ResponseWriter, r *http.Request) {
	account, err := s.authenticate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req editCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.campaigns.Edit(account.ID, chi.URLParam(r, "id"), req.RewardPerAction, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleDeleteCampaign deletes a campaign without refunding the escrow.
// DELETE /api/campaigns/{id}
func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	account, err := s.authenticate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.campaigns.Delete(account.ID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFulfillCampaign records one completed action and pays the caller.
// POST /api/campaigns/{id}/fulfill
func (s *Server) handleFulfillCampaign(w http.ResponseWriter, r *http.Request) {
	account, err := s.authenticate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	c, err := s.campaigns.Fulfill(account.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Progress is also pushed to live feed subscribers.
	if s.hub != nil {
		s.hub.Broadcast([]domain.Campaign{c})
	}

	updated, rerr := s.identity.Resolve(r.Header.Get(sessionHeader))
	if rerr != nil {
		updated = account
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaign": c,
		"account":  updated,
	})
}
