// Package storefront implements the coin package catalog and the mock
// payment flow. Payments are simulated: every purchase succeeds after a
// configurable processing delay, and no payment provider is contacted.
package storefront

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/boostly-network/boostly/internal/app/ledger"
	"github.com/boostly-network/boostly/internal/domain"
	"github.com/boostly-network/boostly/internal/infra/observability"
	"github.com/boostly-network/boostly/internal/store"
)

// Service sells coin packages against the ledger.
type Service struct {
	store  *store.Store
	ledger *ledger.Service
	delay  time.Duration
}

// NewService creates a storefront. delay is the simulated payment
// processing time applied to every purchase.
func NewService(st *store.Store, lg *ledger.Service, delay time.Duration) *Service {
	return &Service{store: st, ledger: lg, delay: delay}
}

// PricedPackage is a catalog entry with the price multiplier applied.
type PricedPackage struct {
	domain.CoinPackage
	EffectivePriceCents int64 `json:"effective_price_cents"`
}

// Packages returns the catalog, cheapest first, with each package's
// effective price scaled by the configured multiplier.
func (s *Service) Packages() ([]PricedPackage, error) {
	pkgs, err := s.store.ListPackages()
	if err != nil {
		return nil, err
	}
	cfg, _, err := s.store.GetSystemConfig()
	if err != nil {
		return nil, err
	}
	out := make([]PricedPackage, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, PricedPackage{
			CoinPackage:         p,
			EffectivePriceCents: int64(math.Round(float64(p.PriceCents) * cfg.CoinPriceMultiplier)),
		})
	}
	return out, nil
}

// Purchase runs the mock payment for one package and credits the coins.
// The simulated processing delay respects ctx cancellation; an abandoned
// purchase credits nothing.
func (s *Service) Purchase(ctx context.Context, accountID, packageID string, method domain.PaymentMethod) (domain.Account, error) {
	if !domain.ValidPaymentMethod(method) {
		return domain.Account{}, domain.ErrInvalidPaymentMethod
	}
	if _, _, err := s.store.GetAccount(accountID); err != nil {
		return domain.Account{}, err
	}
	pkg, _, err := s.store.GetPackage(packageID)
	if err != nil {
		return domain.Account{}, err
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return domain.Account{}, ctx.Err()
		}
	}

	account, err := s.ledger.Credit(accountID, pkg.Coins)
	if err != nil {
		return domain.Account{}, err
	}
	if _, err := s.ledger.Append(accountID, pkg.Coins, domain.TxPurchase,
		fmt.Sprintf("Coin purchase: %s via %s", pkg.Name, method)); err != nil {
		return domain.Account{}, err
	}

	observability.Purchases.Inc()
	observability.CoinsSold.Add(float64(pkg.Coins))
	log.Printf("[storefront] %s bought %s (%d coins) via %s", accountID, pkg.Name, pkg.Coins, method)
	return account, nil
}

// SetPrice updates a package's base price in cents. Administrative.
func (s *Service) SetPrice(packageID string, priceCents int64) (domain.CoinPackage, error) {
	pkg, version, err := s.store.GetPackage(packageID)
	if err != nil {
		return domain.CoinPackage{}, err
	}
	pkg.PriceCents = priceCents
	if err := s.store.PutPackage(pkg, version); err != nil {
		return domain.CoinPackage{}, err
	}
	return pkg, nil
}
