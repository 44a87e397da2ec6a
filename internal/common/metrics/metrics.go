// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_action_requests_total",
			Help: "Total number of sync endpoint requests by action and response status",
		},
		[]string{"action", "status_code"},
	)

	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_action_duration_seconds",
			Help:    "Duration of sync action handling in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"action"},
	)

	ActionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sync_actions_active",
			Help: "Number of sync actions currently executing",
		},
		[]string{"action"},
	)

	// SyncItemsTotal counts per-item outcomes of the batch actions.
	SyncItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_items_total",
			Help: "Total number of batch items processed by outcome",
		},
		[]string{"action", "status"},
	)

	VendorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_vendor_requests_total",
			Help: "Total number of outbound vendor API requests by outcome",
		},
		[]string{"vendor", "outcome"},
	)
)
