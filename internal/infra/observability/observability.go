// Package observability defines the Prometheus collectors for the daemon.
// Collectors are package-level and registered via promauto; the API server
// exposes them on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Campaign Metrics ───────────────────────────────────────────────────────

// CampaignsCreated tracks total campaigns created.
var CampaignsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "boostly",
	Subsystem: "campaigns",
	Name:      "created_total",
	Help:      "Total campaigns created.",
})

// CampaignsDeleted tracks total campaigns deleted by their owners.
var CampaignsDeleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "boostly",
	Subsystem: "campaigns",
	Name:      "deleted_total",
	Help:      "Total campaigns deleted.",
})

// Fulfillments tracks completed engagement actions by source.
var Fulfillments = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "boostly",
	Subsystem: "campaigns",
	Name:      "fulfillments_total",
	Help:      "Total engagement actions completed, by source (user or bot).",
}, []string{"source"})

// ActiveCampaigns tracks the number of campaigns still accepting actions.
var ActiveCampaigns = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "boostly",
	Subsystem: "campaigns",
	Name:      "active",
	Help:      "Campaigns currently active and unfinished.",
})

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// Transactions tracks ledger records appended, by kind.
var Transactions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "boostly",
	Subsystem: "ledger",
	Name:      "transactions_total",
	Help:      "Total ledger transactions appended, by kind.",
}, []string{"kind"})

// RejectedOperations tracks user-visible failures by reason.
var RejectedOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "boostly",
	Subsystem: "ledger",
	Name:      "rejected_operations_total",
	Help:      "Total operations rejected, by reason.",
}, []string{"reason"})

// ─── Storefront Metrics ─────────────────────────────────────────────────────

// Purchases tracks completed mock purchases.
var Purchases = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "boostly",
	Subsystem: "storefront",
	Name:      "purchases_total",
	Help:      "Total completed coin package purchases.",
})

// CoinsSold tracks coins credited through the storefront.
var CoinsSold = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "boostly",
	Subsystem: "storefront",
	Name:      "coins_sold_total",
	Help:      "Total coins credited through package purchases.",
})

// ─── Bot Simulator Metrics ──────────────────────────────────────────────────

// BotTicks tracks simulator cycles executed.
var BotTicks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "boostly",
	Subsystem: "bots",
	Name:      "ticks_total",
	Help:      "Total bot simulator ticks executed.",
})

// BotCompletions tracks actions completed by the simulator, by action kind.
var BotCompletions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "boostly",
	Subsystem: "bots",
	Name:      "completions_total",
	Help:      "Total campaign actions advanced by the bot simulator, by kind.",
}, []string{"kind"})
