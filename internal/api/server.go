// Package api provides the HTTP server for Boostly.
// It exposes the session, campaign, ledger, storefront, and admin REST
// endpoints plus the live campaign SSE feed.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/boostly-network/boostly/internal/app/campaign"
	"github.com/boostly-network/boostly/internal/app/identity"
	"github.com/boostly-network/boostly/internal/app/ledger"
	"github.com/boostly-network/boostly/internal/app/storefront"
	"github.com/boostly-network/boostly/internal/domain"
	"github.com/boostly-network/boostly/internal/store"
)

// sessionHeader carries the session token on authenticated requests.
const sessionHeader = "X-Session-Token"

// Server is the Boostly HTTP API server.
type Server struct {
	store      *store.Store
	identity   *identity.Service
	ledger     *ledger.Service
	campaigns  *campaign.Service
	storefront *storefront.Service

	metricsEnabled bool
	hub            *CampaignHub
	version        string
}

// NewServer creates a new API server over the application services.
func NewServer(st *store.Store, id *identity.Service, lg *ledger.Service, cs *campaign.Service, sf *storefront.Service) *Server {
	return &Server{
		store:      st,
		identity:   id,
		ledger:     lg,
		campaigns:  cs,
		storefront: sf,
		version:    "0.1.0",
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHub sets the live campaign SSE hub.
func (s *Server) SetHub(h *CampaignHub) { s.hub = h }

// Hub returns the live campaign hub (for broadcasting events).
func (s *Server) Hub() *CampaignHub { return s.hub }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	// Health check for deployment probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": s.version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.handleSignIn)
		r.Delete("/session", s.handleSignOut)
		r.Get("/me", s.handleMe)
		r.Get("/me/transactions", s.handleTransactions)

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", s.handleAvailableCampaigns)
			r.Post("/", s.handleCreateCampaign)
			r.Get("/mine", s.handleMyCampaigns)
			r.Get("/live", s.handleLive)
			r.Get("/{id}", s.handleGetCampaign)
			r.Patch("/{id}", s.handleEditCampaign)
			r.Delete("/{id}", s.handleDeleteCampaign)
			r.Post("/{id}/fulfill", s.handleFulfillCampaign)
		})

		r.Get("/packages", s.handlePackages)
		r.Post("/packages/{id}/purchase", s.handlePurchase)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/accounts", s.handleSearchAccounts)
			r.Put("/accounts/{id}/balance", s.handleSetBalance)
			r.Get("/config", s.handleGetConfig)
			r.Put("/config", s.handleSetConfig)
			r.Put("/packages/{id}/price", s.handleSetPrice)
		})
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// authenticate resolves the request's session token to a live account.
func (s *Server) authenticate(r *http.Request) (domain.Account, error) {
	token := r.Header.Get(sessionHeader)
	if token == "" {
		return domain.Account{}, domain.ErrSessionNotFound
	}
	return s.identity.Resolve(token)
}

// authenticateAdmin is authenticate plus an administrator role check.
func (s *Server) authenticateAdmin(r *http.Request) (domain.Account, error) {
	account, err := s.authenticate(r)
	if err != nil {
		return domain.Account{}, err
	}
	if !account.IsAdmin() {
		return domain.Account{}, domain.ErrNotAdmin
	}
	return account, nil
}

// errStatus maps domain errors to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotAdmin),
		errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, domain.ErrOwnCampaign):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCampaignNotFound),
		errors.Is(err, domain.ErrPackageNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrCampaignClosed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRewardTooLow),
		errors.Is(err, domain.ErrEmptyDescription),
		errors.Is(err, domain.ErrEmptyURL),
		errors.Is(err, domain.ErrInvalidTotal),
		errors.Is(err, domain.ErrInvalidPlatform),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrEmptyUsername),
		errors.Is(err, domain.ErrInvalidPaymentMethod):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError writes an error response with the mapped status.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, errStatus(err), err.Error())
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+sessionHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
