// Package botsim runs the simulated audience. On a fixed tick it walks the
// active campaigns and randomly advances their completion counters, making
// the demo feed move without real users.
//
// Bot completions touch campaign counters only. They never credit any
// account and never append ledger transactions: the rewards bots "consume"
// simply burn down the owner's escrow.
package botsim

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/boostly-network/boostly/internal/domain"
	"github.com/boostly-network/boostly/internal/infra/observability"
	"github.com/boostly-network/boostly/internal/store"
)

// Default engagement probabilities per tick.
const (
	DefaultViewChance   = 0.65
	DefaultFollowChance = 0.25
)

// Config tunes the simulator.
type Config struct {
	Interval     time.Duration
	ViewChance   float64
	FollowChance float64
}

// DefaultConfig returns the standard simulator tuning.
func DefaultConfig() Config {
	return Config{
		Interval:     2 * time.Second,
		ViewChance:   DefaultViewChance,
		FollowChance: DefaultFollowChance,
	}
}

// Simulator drives randomized campaign progress.
type Simulator struct {
	store  *store.Store
	cfg    Config
	rand   func() float64
	notify func([]domain.Campaign)

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a simulator. notify, when non-nil, receives the campaigns
// changed by each tick; the API server uses it to feed live subscribers.
func New(st *store.Store, cfg Config, notify func([]domain.Campaign)) *Simulator {
	return &Simulator{
		store:  st,
		cfg:    cfg,
		rand:   rand.Float64,
		notify: notify,
	}
}

// Start launches the tick loop. Calling Start on a running simulator is a
// no-op.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
	log.Printf("[botsim] started (interval %s, view %.2f, follow %.2f)",
		s.cfg.Interval, s.cfg.ViewChance, s.cfg.FollowChance)
}

// Stop halts the tick loop and waits for the in-flight tick to finish.
// Stopping a stopped simulator is a no-op.
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
	log.Printf("[botsim] stopped")
}

func (s *Simulator) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-stop:
			return
		}
	}
}

// Tick executes one simulation pass: every fulfillable campaign gets one
// chance to advance, and all advances are written back in a single batch.
// Exported so tests and the CLI can step the simulation deterministically.
func (s *Simulator) Tick() {
	docs, err := s.store.ListCampaignDocs()
	if err != nil {
		log.Printf("[botsim] tick: list campaigns: %v", err)
		return
	}

	var changed []store.CampaignDoc
	var active int64
	for _, cd := range docs {
		c := cd.Campaign
		if !c.Fulfillable() {
			continue
		}
		chance := s.cfg.ViewChance
		if c.Kind == domain.ActionFollow {
			chance = s.cfg.FollowChance
		}
		if s.rand() >= chance {
			active++
			continue
		}

		c.CompletedActions++
		if c.CompletedActions >= c.TotalActions {
			c.Active = false
		} else {
			active++
		}
		changed = append(changed, store.CampaignDoc{Campaign: c, Version: cd.Version})
		observability.BotCompletions.WithLabelValues(string(c.Kind)).Inc()
	}

	if len(changed) > 0 {
		if err := s.store.PutCampaigns(changed); err != nil {
			// A user action raced the batch; the next tick rereads.
			log.Printf("[botsim] tick: batch write: %v", err)
			return
		}
		if s.notify != nil {
			updated := make([]domain.Campaign, len(changed))
			for i, cd := range changed {
				updated[i] = cd.Campaign
			}
			s.notify(updated)
		}
		observability.Fulfillments.WithLabelValues("bot").Add(float64(len(changed)))
	}

	observability.BotTicks.Inc()
	observability.ActiveCampaigns.Set(float64(active))
}

// SetRand overrides the randomness source. Test hook.
func (s *Simulator) SetRand(f func() float64) { s.rand = f }
