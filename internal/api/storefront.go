package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boostly-network/boostly/internal/domain"
)

// ─── Storefront API ─────────────────────────────────────────────────────────
// GET  /api/packages                — coin package catalog
// POST /api/packages/{id}/purchase  — mock payment, credits the coins

type purchaseRequest struct {
	Method string `json:"method"` // "pix" or "credit_card"
}

// handlePackages returns the catalog with effective prices.
// GET /api/packages
func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeDomainError(w, err)
		return
	}
	pkgs, err := s.storefront.Packages()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"packages": pkgs,
	})
}

// handlePurchase runs the mock payment and credits the package's coins.
// POST /api/packages/{id}/purchase
func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	account, err := s.authenticate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.storefront.Purchase(r.Context(), account.ID,
		chi.URLParam(r, "id"), domain.PaymentMethod(req.Method))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
