// Package metrics exposes the engine's prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds engine counters and gauges on a private registry.
// A nil *Metrics is valid and records nothing, so the engine runs
// without observability wired.
type Metrics struct {
	registry *prometheus.Registry

	ordersSubmitted prometheus.Counter
	ordersRejected  prometheus.Counter
	ordersCancelled prometheus.Counter
	tradesExecuted  prometheus.Counter
	tradedVolume    prometheus.Counter

	restingOrders prometheus.Gauge
	bookDepth     *prometheus.GaugeVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ordersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Orders accepted by the engine",
		}),
		ordersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Orders rejected at validation",
		}),
		ordersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_cancelled_total",
			Help:      "Resting orders cancelled",
		}),
		tradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_executed_total",
			Help:      "Trades recorded in the execution log",
		}),
		tradedVolume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traded_volume_total",
			Help:      "Total quantity executed across all trades",
		}),
		restingOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resting_orders",
			Help:      "Orders currently resting in the book",
		}),
		bookDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "book_depth_levels",
			Help:      "Live price levels per side",
		}, []string{"side"}),
	}

	registry.MustRegister(
		m.ordersSubmitted,
		m.ordersRejected,
		m.ordersCancelled,
		m.tradesExecuted,
		m.tradedVolume,
		m.restingOrders,
		m.bookDepth,
	)
	return m
}

func (m *Metrics) OrderSubmitted() {
	if m == nil {
		return
	}
	m.ordersSubmitted.Inc()
}

func (m *Metrics) OrderRejected() {
	if m == nil {
		return
	}
	m.ordersRejected.Inc()
}

func (m *Metrics) OrderCancelled() {
	if m == nil {
		return
	}
	m.ordersCancelled.Inc()
}

// TradesExecuted records n trades moving qty total quantity.
func (m *Metrics) TradesExecuted(n int, qty int64) {
	if m == nil || n == 0 {
		return
	}
	m.tradesExecuted.Add(float64(n))
	m.tradedVolume.Add(float64(qty))
}

func (m *Metrics) SetRestingOrders(n int) {
	if m == nil {
		return
	}
	m.restingOrders.Set(float64(n))
}

func (m *Metrics) SetBookDepth(bidLevels, askLevels int) {
	if m == nil {
		return
	}
	m.bookDepth.WithLabelValues("bid").Set(float64(bidLevels))
	m.bookDepth.WithLabelValues("ask").Set(float64(askLevels))
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
