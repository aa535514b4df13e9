package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boostly-network/boostly/internal/domain"
)

// ─── Admin API ──────────────────────────────────────────────────────────────
// All routes require an administrator session.
// GET /api/admin/accounts?q=            — search accounts by username
// PUT /api/admin/accounts/{id}/balance  — balance override
// GET /api/admin/config                 — economy configuration
// PUT /api/admin/config                 — update economy configuration
// PUT /api/admin/packages/{id}/price    — reprice a coin package

type setBalanceRequest struct {
	Coins int64 `json:"coins"`
}

type setPriceRequest struct {
	PriceCents int64 `json:"priceCents"`
}

// handleSearchAccounts searches accounts by username substring.
// GET /api/admin/accounts?q=
func (s *Server) handleSearchAccounts(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticateAdmin(r); err != nil {
		writeDomainError(w, err)
		return
	}
	accounts, err := s.identity.SearchAccounts(r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
	})
}

// handleSetBalance overwrites an account's balance.
// PUT /api/admin/accounts/{id}/balance
func (s *Server) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticateAdmin(r); err != nil {
		writeDomainError(w, err)
		return
	}

	var req setBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.identity.SetBalance(chi.URLParam(r, "id"), req.Coins)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// handleGetConfig returns the economy configuration.
// GET /api/admin/config
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticateAdmin(r); err != nil {
		writeDomainError(w, err)
		return
	}
	cfg, _, err := s.store.GetSystemConfig()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleSetConfig replaces the economy configuration.
// PUT /api/admin/config
func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticateAdmin(r); err != nil {
		writeDomainError(w, err)
		return
	}

	var cfg domain.SystemConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, version, err := s.store.GetSystemConfig()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.store.PutSystemConfig(cfg, version); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleSetPrice updates a coin package's base price.
// PUT /api/admin/packages/{id}/price
func (s *Server) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticateAdmin(r); err != nil {
		writeDomainError(w, err)
		return
	}

	var req setPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pkg, err := s.storefront.SetPrice(chi.URLParam(r, "id"), req.PriceCents)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}
