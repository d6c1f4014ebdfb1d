package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/meadowmc/economyd/internal/domain/pricing"
)

const (
	namespace = "economyd"
	subsystem = "engine"
)

// EngineMetricsCollector exposes trade and repricing metrics. It implements
// the reprice service's TickObserver; the trade counters are fed by the
// mediator middleware in this package.
type EngineMetricsCollector struct {
	tradesTotal     *prometheus.CounterVec
	tradeAmount     *prometheus.HistogramVec
	commandDuration *prometheus.HistogramVec
	itemPrice       *prometheus.GaugeVec
	priceChange     *prometheus.HistogramVec
	tickDuration    prometheus.Histogram
	tickItems       prometheus.Gauge
	onlinePlayers   prometheus.Gauge
}

// NewEngineMetricsCollector creates the collector with all metrics registered
// on reg. A nil reg falls back to the default registry.
func NewEngineMetricsCollector(reg prometheus.Registerer) *EngineMetricsCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &EngineMetricsCollector{
		tradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trades_total",
				Help:      "Total number of executed trades by direction and result",
			},
			[]string{"direction", "result"},
		),
		tradeAmount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trade_amount",
				Help:      "Trade total amount distribution",
				Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
			},
			[]string{"direction"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "command_duration_seconds",
				Help:      "Mediator request handling latency by request type",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"request"},
		),
		itemPrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "item_price",
				Help:      "Current tracked price per item",
			},
			[]string{"item_id"},
		),
		priceChange: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "price_change_percent",
				Help:      "Per-tick price change percent distribution",
				Buckets:   []float64{-10, -5, -2, -1, -0.5, 0, 0.5, 1, 2, 5, 10},
			},
			[]string{"item_id"},
		),
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Repricing tick wall time",
				Buckets:   prometheus.DefBuckets,
			},
		),
		tickItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_items",
				Help:      "Items repriced in the last tick",
			},
		),
		onlinePlayers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "online_players",
				Help:      "Online players as seen by the session registry",
			},
		),
	}

	reg.MustRegister(
		c.tradesTotal,
		c.tradeAmount,
		c.commandDuration,
		c.itemPrice,
		c.priceChange,
		c.tickDuration,
		c.tickItems,
		c.onlinePlayers,
	)
	return c
}

// RecordTrade counts one trade attempt outcome.
func (c *EngineMetricsCollector) RecordTrade(direction, result string, total float64) {
	c.tradesTotal.WithLabelValues(direction, result).Inc()
	if result == "ok" {
		c.tradeAmount.WithLabelValues(direction).Observe(total)
	}
}

// SetOnlinePlayers publishes the registry's online count.
func (c *EngineMetricsCollector) SetOnlinePlayers(n int) {
	c.onlinePlayers.Set(float64(n))
}

// ObserveTick publishes one item's tick outcome.
func (c *EngineMetricsCollector) ObserveTick(result *pricing.TickResult) {
	price, _ := result.NewPrice.Float64()
	change, _ := result.ChangePercent.Float64()
	c.itemPrice.WithLabelValues(result.ItemID).Set(price)
	c.priceChange.WithLabelValues(result.ItemID).Observe(change)
}

// ObserveTickDuration publishes the whole tick's wall time.
func (c *EngineMetricsCollector) ObserveTickDuration(d time.Duration, items int) {
	c.tickDuration.Observe(d.Seconds())
	c.tickItems.Set(float64(items))
}
