package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, route, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RequestTotal counts HTTP requests by method, route, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	AccountsClaimed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_accounts_claimed_total",
			Help: "Accounts created through /claim",
		},
	)

	// CurrencyCollected sums the currency credited by collect.
	CurrencyCollected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_currency_collected_total",
			Help: "Currency credited to balances by collect",
		},
	)

	// CurrencySpent sums the currency paid for levels.
	CurrencySpent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_currency_spent_total",
			Help: "Currency spent on level upgrades",
		},
	)

	// LevelsPurchased counts levels bought across all upgrades.
	LevelsPurchased = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_levels_purchased_total",
			Help: "Levels bought by upgrade",
		},
	)

	// StaleWrites counts conditional updates lost to a concurrent writer, by operation.
	StaleWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_stale_writes_total",
			Help: "Account writes rejected because the row changed since it was read",
		},
		[]string{"op"},
	)
)

var initOnce sync.Once

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration, RequestTotal,
			AccountsClaimed, CurrencyCollected, CurrencySpent, LevelsPurchased, StaleWrites,
		)
	})
}

// RecordRequest records duration and count for an HTTP request. route should be
// the matched route pattern, not the raw path, to keep label cardinality bounded.
func RecordRequest(method, route string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, route, status).Inc()
}

func IncAccountsClaimed() {
	AccountsClaimed.Inc()
}

// AddCurrencyCollected adds a non-negative collected amount.
func AddCurrencyCollected(amount float64) {
	if amount > 0 {
		CurrencyCollected.Add(amount)
	}
}

// RecordUpgrade records one upgrade of levels levels costing cost.
func RecordUpgrade(levels int, cost float64) {
	if levels > 0 {
		LevelsPurchased.Add(float64(levels))
	}
	if cost > 0 {
		CurrencySpent.Add(cost)
	}
}

// IncStaleWrites increments the stale write counter for op (collect, upgrade).
func IncStaleWrites(op string) {
	StaleWrites.WithLabelValues(op).Inc()
}
