// Package identity implements account sign-in, session issuance, and the
// administrative account operations.
//
// Sign-in is register-or-login: an unknown username creates a fresh account
// with the signup bonus, a known username resumes it. There are no
// passwords; this is a demo economy, not an auth system.
package identity

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/boostly-network/boostly/internal/app/ledger"
	"github.com/boostly-network/boostly/internal/domain"
	"github.com/boostly-network/boostly/internal/store"
)

// SignupBonus is the coin grant every new account starts with.
const SignupBonus int64 = 200

// Service manages accounts and sessions.
type Service struct {
	store  *store.Store
	ledger *ledger.Service
	now    func() time.Time
}

// NewService creates an identity service.
func NewService(st *store.Store, lg *ledger.Service) *Service {
	return &Service{store: st, ledger: lg, now: time.Now}
}

// SignIn resolves a username to an account, creating it with the signup
// bonus when unseen, and issues a new session token. The username match is
// case-insensitive; the stored spelling is whatever the first sign-in used.
func (s *Service) SignIn(username string) (domain.Account, domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.Account{}, domain.Session{}, domain.ErrEmptyUsername
	}

	account, _, err := s.store.FindAccountByUsername(username)
	switch {
	case err == nil:
		// Existing account, fall through to session issuance.
	case errors.Is(err, domain.ErrAccountNotFound):
		account = domain.Account{
			ID:       uuid.NewString(),
			Username: username,
			Role:     domain.RoleStandard,
			Coins:    SignupBonus,
		}
		if err := s.store.PutAccount(account, 0); err != nil {
			return domain.Account{}, domain.Session{}, err
		}
		if _, err := s.ledger.Append(account.ID, SignupBonus, domain.TxBonus, "Welcome bonus"); err != nil {
			return domain.Account{}, domain.Session{}, err
		}
		log.Printf("[identity] registered %s (%s) with %d coin bonus", username, account.ID, SignupBonus)
	default:
		return domain.Account{}, domain.Session{}, err
	}

	session := domain.Session{
		Token:     uuid.NewString(),
		AccountID: account.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.PutSession(session); err != nil {
		return domain.Account{}, domain.Session{}, err
	}
	return account, session, nil
}

// SignOut revokes a session token. Unknown tokens are a no-op.
func (s *Service) SignOut(token string) error {
	return s.store.DeleteSession(token)
}

// Resolve maps a session token to its live account. Sessions store only
// the account reference, so the returned balance is always current.
func (s *Service) Resolve(token string) (domain.Account, error) {
	session, err := s.store.GetSession(token)
	if err != nil {
		return domain.Account{}, err
	}
	account, _, err := s.store.GetAccount(session.AccountID)
	return account, err
}

// SearchAccounts returns accounts whose username contains the query,
// case-insensitive. An empty query returns every account.
func (s *Service) SearchAccounts(query string) ([]domain.Account, error) {
	accounts, err := s.store.ListAccounts()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return accounts, nil
	}
	q := strings.ToLower(query)
	var out []domain.Account
	for _, a := range accounts {
		if strings.Contains(strings.ToLower(a.Username), q) {
			out = append(out, a)
		}
	}
	return out, nil
}

// SetBalance is the administrative balance override. It writes the exact
// amount and leaves no transaction record.
func (s *Service) SetBalance(accountID string, coins int64) (domain.Account, error) {
	account, err := s.ledger.SetBalance(accountID, coins)
	if err != nil {
		return domain.Account{}, err
	}
	log.Printf("[identity] balance override for %s: %d coins", accountID, coins)
	return account, nil
}
