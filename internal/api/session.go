package api

import (
	"encoding/json"
	"net/http"
)

// ─── Session API ────────────────────────────────────────────────────────────
// POST   /api/session          — sign in (registers unknown usernames)
// DELETE /api/session          — sign out
// GET    /api/me               — current account snapshot
// GET    /api/me/transactions  — transaction history, newest first

type signInRequest struct {
	Username string `json:"username"`
}

// handleSignIn signs a username in, creating the account on first visit.
// POST /api/session
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, session, err := s.identity.SignIn(req.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":   session.Token,
		"account": account,
	})
}

// handleSignOut revokes the caller's session.
// DELETE /api/session
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(sessionHeader)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing session token")
		return
	}
	if err := s.identity.SignOut(token); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMe returns the authenticated account with its live balance.
// GET /api/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	account, err := s.authenticate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// handleTransactions returns the caller's ledger history, newest first.
// GET /api/me/transactions
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	account, err := s.authenticate(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	txs, err := s.ledger.History(account.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
	})
}
