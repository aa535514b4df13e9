// Package ledger implements balance mutation and transaction logging.
//
// The ledger is intentionally thin: Credit and Debit are the same operation
// with opposite signs, and neither enforces sufficient funds — the call
// sites that spend coins pre-check the balance. Transactions are a pure
// append-only log with no idempotence key; duplicate appends create
// duplicate history entries.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/boostly-network/boostly/internal/domain"
	"github.com/boostly-network/boostly/internal/infra/observability"
	"github.com/boostly-network/boostly/internal/store"
)

// Service is the balance-mutation and transaction-logging subsystem.
type Service struct {
	store *store.Store
	now   func() time.Time
}

// NewService creates a ledger over the given store.
func NewService(st *store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// Credit increases an account's balance by amount (which may be negative;
// Debit delegates here). Returns the updated account, or
// domain.ErrAccountNotFound when no such account exists.
func (s *Service) Credit(accountID string, amount int64) (domain.Account, error) {
	account, version, err := s.store.GetAccount(accountID)
	if err != nil {
		return domain.Account{}, err
	}
	account.Coins += amount
	if err := s.store.PutAccount(account, version); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// Debit decreases an account's balance by amount. It does NOT verify that
// the balance covers the amount — callers must pre-check.
func (s *Service) Debit(accountID string, amount int64) (domain.Account, error) {
	return s.Credit(accountID, -amount)
}

// SetBalance overwrites an account's balance exactly. Administrative
// override; no validation on sign.
func (s *Service) SetBalance(accountID string, coins int64) (domain.Account, error) {
	account, version, err := s.store.GetAccount(accountID)
	if err != nil {
		return domain.Account{}, err
	}
	account.Coins = coins
	if err := s.store.PutAccount(account, version); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// Append records a ledger transaction for an account.
func (s *Service) Append(accountID string, amount int64, kind domain.TransactionKind, description string) (domain.Transaction, error) {
	tx := domain.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
		Timestamp:   s.now(),
	}
	if err := s.store.AppendTransaction(tx); err != nil {
		return domain.Transaction{}, err
	}
	observability.Transactions.WithLabelValues(string(kind)).Inc()
	return tx, nil
}

// History returns an account's transactions, newest first.
func (s *Service) History(accountID string) ([]domain.Transaction, error) {
	return s.store.TransactionsByAccount(accountID)
}
