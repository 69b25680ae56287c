package metrics

import (
	"net/http"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the marketplace Prometheus metrics.
type MetricsManager struct {
	Registry              *prometheus.Registry
	SessionsStartedTotal  prometheus.Counter
	ListingsCreatedTotal  prometheus.Counter
	BidsPlacedTotal       prometheus.Counter
	CartItemsAddedTotal   prometheus.Counter
	ActionsRejectedTotal  *prometheus.CounterVec // by action and rejection reason
	PurchaseRequestsTotal *prometheus.CounterVec // by delivery: composed, emailed
	HTTPRequestLatency    *prometheus.HistogramVec
}

// NewMetricsManager initializes and registers the metrics on a private registry,
// so several managers can live in one process (tests).
func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	sessionsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Total number of marketplace sessions seeded.",
	})
	listingsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	})
	bidsPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bids_placed_total",
		Help:      "Total number of accepted bids.",
	})
	cartItemsAdded := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_items_added_total",
		Help:      "Total number of add-to-cart actions that changed a cart.",
	})
	actionsRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_rejected_total",
		Help:      "User actions rejected by validation.",
	}, []string{"action", "reason"})
	purchaseRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchase_requests_total",
		Help:      "Purchase requests composed or handed off to mail.",
	}, []string{"delivery"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		sessionsStarted,
		listingsCreated,
		bidsPlaced,
		cartItemsAdded,
		actionsRejected,
		purchaseRequests,
		latency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:              registry,
		SessionsStartedTotal:  sessionsStarted,
		ListingsCreatedTotal:  listingsCreated,
		BidsPlacedTotal:       bidsPlaced,
		CartItemsAddedTotal:   cartItemsAdded,
		ActionsRejectedTotal:  actionsRejected,
		PurchaseRequestsTotal: purchaseRequests,
		HTTPRequestLatency:    latency,
	}
}

// Rejected counts a user action refused by validation.
func (m *MetricsManager) Rejected(action, reason string) {
	m.ActionsRejectedTotal.WithLabelValues(action, reason).Inc()
}

// NewMetricsServer returns the HTTP server exposing /metrics, or nil when no
// port is configured.
func NewMetricsServer(port string, log logger.Logger, registry *prometheus.Registry) *http.Server {
	if port == "" {
		log.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
