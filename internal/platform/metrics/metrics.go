package metrics

import (
	"net/http"
	"time"

	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds the application's Prometheus metrics on a private registry.
type Manager struct {
	Registry             *prometheus.Registry
	ProductsCreatedTotal prometheus.Counter
	ProductsDeletedTotal prometheus.Counter
	OrdersCreatedTotal   prometheus.Counter
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestLatency   *prometheus.HistogramVec
}

func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()

	productsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created.",
	})
	productsDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_deleted_total",
		Help:      "Total number of products deleted.",
	})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders placed.",
	})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status.",
	}, []string{"method", "route", "status"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	registry.MustRegister(
		productsCreated,
		productsDeleted,
		ordersCreated,
		httpRequests,
		httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:             registry,
		ProductsCreatedTotal: productsCreated,
		ProductsDeletedTotal: productsDeleted,
		OrdersCreatedTotal:   ordersCreated,
		HTTPRequestsTotal:    httpRequests,
		HTTPRequestLatency:   httpLatency,
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Manager) ObserveRequest(method, route string, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// StartServer exposes /metrics on its own port. Blocks, so run it in a
// goroutine.
func StartServer(port string, log logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		log.Info("metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Infof("metrics server listening on :%s", port)
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
