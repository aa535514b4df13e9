package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/boostly-network/boostly/internal/api"
	"github.com/boostly-network/boostly/internal/app/botsim"
	"github.com/boostly-network/boostly/internal/app/campaign"
	"github.com/boostly-network/boostly/internal/app/identity"
	"github.com/boostly-network/boostly/internal/app/ledger"
	"github.com/boostly-network/boostly/internal/app/storefront"
	"github.com/boostly-network/boostly/internal/domain"
	"github.com/boostly-network/boostly/internal/infra/sqlite"
	"github.com/boostly-network/boostly/internal/store"
)

// Daemon is the assembled Boostly process.
type Daemon struct {
	cfg    Config
	db     *sqlite.DB
	sim    *botsim.Simulator
	server *http.Server
}

// New opens the store under home and wires every service per cfg.
func New(home string, cfg Config) (*Daemon, error) {
	dataDir := cfg.DataDir(home)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	st := store.New(db)
	if cfg.Store.Seed {
		if err := st.Seed(); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}

	lg := ledger.NewService(st)
	srv := api.NewServer(st,
		identity.NewService(st, lg),
		lg,
		campaign.NewService(st, lg),
		storefront.NewService(st, lg, cfg.PaymentDelay()),
	)
	if cfg.API.Metrics {
		srv.EnableMetrics()
	}

	hub := api.NewCampaignHub()
	srv.SetHub(hub)

	var sim *botsim.Simulator
	if cfg.Bots.Enabled {
		sim = botsim.New(st, botsim.Config{
			Interval:     cfg.BotInterval(),
			ViewChance:   cfg.Bots.ViewChance,
			FollowChance: cfg.Bots.FollowChance,
		}, func(updated []domain.Campaign) {
			hub.Broadcast(updated)
		})
	}

	return &Daemon{
		cfg: cfg,
		db:  db,
		sim: sim,
		server: &http.Server{
			Addr:    cfg.ListenAddr(),
			Handler: srv.Handler(),
		},
	}, nil
}

// Run serves until ctx is cancelled, then shuts down cleanly.
func (d *Daemon) Run(ctx context.Context) error {
	if d.sim != nil {
		d.sim.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[daemon] API listening on %s", d.cfg.ListenAddr())
		if err := d.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		d.shutdown()
		return err
	case <-ctx.Done():
		log.Printf("[daemon] shutting down")
		d.shutdown()
		return nil
	}
}

func (d *Daemon) shutdown() {
	if d.sim != nil {
		d.sim.Stop()
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.server.Shutdown(shutCtx); err != nil {
		log.Printf("[daemon] server shutdown: %v", err)
	}
	if err := d.db.Close(); err != nil {
		log.Printf("[daemon] close store: %v", err)
	}
}
