// Package store exposes typed collection accessors over the document store.
// Each entity kind lives in its own collection; documents are JSON-encoded
// domain values guarded by the store's version counters.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/boostly-network/boostly/internal/domain"
	"github.com/boostly-network/boostly/internal/infra/sqlite"
)

// Collection names.
const (
	colAccounts     = "accounts"
	colCampaigns    = "campaigns"
	colPackages     = "packages"
	colTransactions = "transactions"
	colSessions     = "sessions"
	colConfig       = "config"
)

// configID is the fixed id of the SystemConfig singleton.
const configID = "system"

// Store wraps the document store with entity-aware accessors.
type Store struct {
	db *sqlite.DB
}

// New creates a Store over the given database.
func New(db *sqlite.DB) *Store { return &Store{db: db} }

// ─── Accounts ───────────────────────────────────────────────────────────────

// GetAccount retrieves an account and its document version.
func (s *Store) GetAccount(id string) (domain.Account, int64, error) {
	doc, err := s.db.GetDoc(colAccounts, id)
	if errors.Is(err, sqlite.ErrNoDocument) {
		return domain.Account{}, 0, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, 0, err
	}
	var a domain.Account
	if err := json.Unmarshal(doc.Data, &a); err != nil {
		return domain.Account{}, 0, fmt.Errorf("decode account %s: %w", id, err)
	}
	return a, doc.Version, nil
}

// PutAccount writes an account. Version 0 inserts a new account.
func (s *Store) PutAccount(a domain.Account, version int64) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = s.db.PutDoc(colAccounts, a.ID, data, version)
	return err
}

// ListAccounts returns every account, ordered by username.
func (s *Store) ListAccounts() ([]domain.Account, error) {
	docs, err := s.db.ListDocs(colAccounts)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(docs))
	for _, doc := range docs {
		var a domain.Account
		if err := json.Unmarshal(doc.Data, &a); err != nil {
			return nil, fmt.Errorf("decode account %s: %w", doc.ID, err)
		}
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Username < accounts[j].Username
	})
	return accounts, nil
}

// FindAccountByUsername looks an account up by its unique display name.
// The match is case-insensitive.
func (s *Store) FindAccountByUsername(username string) (domain.Account, int64, error) {
	docs, err := s.db.ListDocs(colAccounts)
	if err != nil {
		return domain.Account{}, 0, err
	}
	for _, doc := range docs {
		var a domain.Account
		if err := json.Unmarshal(doc.Data, &a); err != nil {
			return domain.Account{}, 0, fmt.Errorf("decode account %s: %w", doc.ID, err)
		}
		if strings.EqualFold(a.Username, username) {
			return a, doc.Version, nil
		}
	}
	return domain.Account{}, 0, domain.ErrAccountNotFound
}

// ─── Campaigns ──────────────────────────────────────────────────────────────

// CampaignDoc pairs a campaign with its document version, for callers that
// write back what they read (the bot simulator's batch updates).
type CampaignDoc struct {
	Campaign domain.Campaign
	Version  int64
}

func decodeCampaign(doc sqlite.Document) (domain.Campaign, error) {
	var c domain.Campaign
	if err := json.Unmarshal(doc.Data, &c); err != nil {
		return domain.Campaign{}, fmt.Errorf("decode campaign %s: %w", doc.ID, err)
	}
	// Documents written before the action kind existed load as view-class.
	if c.Kind == "" {
		c.Kind = domain.ActionView
	}
	return c, nil
}

// GetCampaign retrieves a campaign and its document version.
func (s *Store) GetCampaign(id string) (domain.Campaign, int64, error) {
	doc, err := s.db.GetDoc(colCampaigns, id)
	if errors.Is(err, sqlite.ErrNoDocument) {
		return domain.Campaign{}, 0, domain.ErrCampaignNotFound
	}
	if err != nil {
		return domain.Campaign{}, 0, err
	}
	c, err := decodeCampaign(doc)
	return c, doc.Version, err
}

// PutCampaign writes a campaign. Version 0 inserts a new campaign.
func (s *Store) PutCampaign(c domain.Campaign, version int64) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = s.db.PutDoc(colCampaigns, c.ID, data, version)
	return err
}

// PutCampaigns writes a batch of campaigns in one transaction.
func (s *Store) PutCampaigns(batch []CampaignDoc) error {
	docs := make([]sqlite.Document, 0, len(batch))
	for _, cd := range batch {
		data, err := json.Marshal(cd.Campaign)
		if err != nil {
			return err
		}
		docs = append(docs, sqlite.Document{ID: cd.Campaign.ID, Data: data, Version: cd.Version})
	}
	return s.db.PutDocs(colCampaigns, docs)
}

// DeleteCampaign removes a campaign. Missing campaigns map to the domain
// not-found error so callers can treat it as the NotFound signal.
func (s *Store) DeleteCampaign(id string) error {
	err := s.db.DeleteDoc(colCampaigns, id)
	if errors.Is(err, sqlite.ErrNoDocument) {
		return domain.ErrCampaignNotFound
	}
	return err
}

// ListCampaigns returns every campaign.
func (s *Store) ListCampaigns() ([]domain.Campaign, error) {
	docs, err := s.db.ListDocs(colCampaigns)
	if err != nil {
		return nil, err
	}
	campaigns := make([]domain.Campaign, 0, len(docs))
	for _, doc := range docs {
		c, err := decodeCampaign(doc)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

// ListCampaignDocs returns every campaign with its version.
func (s *Store) ListCampaignDocs() ([]CampaignDoc, error) {
	docs, err := s.db.ListDocs(colCampaigns)
	if err != nil {
		return nil, err
	}
	out := make([]CampaignDoc, 0, len(docs))
	for _, doc := range docs {
		c, err := decodeCampaign(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, CampaignDoc{Campaign: c, Version: doc.Version})
	}
	return out, nil
}

// ─── Transactions ───────────────────────────────────────────────────────────

// AppendTransaction appends a ledger record. Records are insert-only; there
// is no update path.
func (s *Store) AppendTransaction(tx domain.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	_, err = s.db.PutDoc(colTransactions, tx.ID, data, 0)
	return err
}

// TransactionsByAccount returns one account's history, newest first.
func (s *Store) TransactionsByAccount(accountID string) ([]domain.Transaction, error) {
	docs, err := s.db.ListDocs(colTransactions)
	if err != nil {
		return nil, err
	}
	var txs []domain.Transaction
	for _, doc := range docs {
		var tx domain.Transaction
		if err := json.Unmarshal(doc.Data, &tx); err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", doc.ID, err)
		}
		if tx.AccountID == accountID {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
	return txs, nil
}

// CountTransactions returns the total length of the ledger log.
func (s *Store) CountTransactions() (int64, error) {
	return s.db.CountDocs(colTransactions)
}

// ─── Coin Packages ──────────────────────────────────────────────────────────

// GetPackage retrieves a coin package and its version.
func (s *Store) GetPackage(id string) (domain.CoinPackage, int64, error) {
	doc, err := s.db.GetDoc(colPackages, id)
	if errors.Is(err, sqlite.ErrNoDocument) {
		return domain.CoinPackage{}, 0, domain.ErrPackageNotFound
	}
	if err != nil {
		return domain.CoinPackage{}, 0, err
	}
	var p domain.CoinPackage
	if err := json.Unmarshal(doc.Data, &p); err != nil {
		return domain.CoinPackage{}, 0, fmt.Errorf("decode package %s: %w", id, err)
	}
	return p, doc.Version, nil
}

// PutPackage writes a coin package. Version 0 inserts.
func (s *Store) PutPackage(p domain.CoinPackage, version int64) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.PutDoc(colPackages, p.ID, data, version)
	return err
}

// ListPackages returns the full catalog, cheapest first.
func (s *Store) ListPackages() ([]domain.CoinPackage, error) {
	docs, err := s.db.ListDocs(colPackages)
	if err != nil {
		return nil, err
	}
	pkgs := make([]domain.CoinPackage, 0, len(docs))
	for _, doc := range docs {
		var p domain.CoinPackage
		if err := json.Unmarshal(doc.Data, &p); err != nil {
			return nil, fmt.Errorf("decode package %s: %w", doc.ID, err)
		}
		pkgs = append(pkgs, p)
	}
	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].PriceCents < pkgs[j].PriceCents
	})
	return pkgs, nil
}

// ─── Sessions ───────────────────────────────────────────────────────────────

// GetSession retrieves a session by token.
func (s *Store) GetSession(token string) (domain.Session, error) {
	doc, err := s.db.GetDoc(colSessions, token)
	if errors.Is(err, sqlite.ErrNoDocument) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}
	var sess domain.Session
	if err := json.Unmarshal(doc.Data, &sess); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

// PutSession inserts a new session record.
func (s *Store) PutSession(sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.PutDoc(colSessions, sess.Token, data, 0)
	return err
}

// DeleteSession removes a session. Unknown tokens are a no-op.
func (s *Store) DeleteSession(token string) error {
	err := s.db.DeleteDoc(colSessions, token)
	if errors.Is(err, sqlite.ErrNoDocument) {
		return nil
	}
	return err
}

// ─── System Config ──────────────────────────────────────────────────────────

// GetSystemConfig returns the config singleton, falling back to defaults
// when the document has never been written.
func (s *Store) GetSystemConfig() (domain.SystemConfig, int64, error) {
	doc, err := s.db.GetDoc(colConfig, configID)
	if errors.Is(err, sqlite.ErrNoDocument) {
		return domain.DefaultSystemConfig(), 0, nil
	}
	if err != nil {
		return domain.SystemConfig{}, 0, err
	}
	var cfg domain.SystemConfig
	if err := json.Unmarshal(doc.Data, &cfg); err != nil {
		return domain.SystemConfig{}, 0, fmt.Errorf("decode config: %w", err)
	}
	return cfg, doc.Version, nil
}

// PutSystemConfig writes the config singleton.
func (s *Store) PutSystemConfig(cfg domain.SystemConfig, version int64) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.PutDoc(colConfig, configID, data, version)
	return err
}
