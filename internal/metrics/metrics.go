package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irrigation_decisions_total",
			Help: "Total irrigation decisions produced, by outcome",
		},
		[]string{"irrigate"},
	)

	WaterLitres = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "irrigation_water_litres",
			Help:    "Water volume requested by positive irrigation decisions",
			Buckets: []float64{1, 5, 10, 20, 30, 40, 50, 60},
		},
	)

	ForecastFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irrigation_forecast_fetches_total",
			Help: "Total rainfall forecast fetches, by provider and status",
		},
		[]string{"provider", "status"},
	)

	ForecastLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "irrigation_forecast_latency_seconds",
			Help:    "Rainfall forecast fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	SinkFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irrigation_decision_sink_failures_total",
			Help: "Total decision log writes that failed, by sink",
		},
		[]string{"sink"},
	)

	StoreUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "irrigation_store_up",
			Help: "Whether the decision store answered the last health probe (1) or not (0)",
		},
	)

	MQTTMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irrigation_mqtt_messages_total",
			Help: "Total sensor messages handled from MQTT, by status",
		},
		[]string{"status"},
	)
)
