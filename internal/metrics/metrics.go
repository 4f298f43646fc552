// Package metrics registers the prometheus collectors shared across the pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CandlesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "candles_total", Help: "Count of price candles ingested"},
		[]string{"source"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Strategy signals emitted"},
		[]string{"strategy", "action"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders submitted"},
		[]string{"pair", "side"},
	)
	OrderFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "order_failures_total", Help: "Order placements that returned an error"},
		[]string{"reason"},
	)
	ObserversActive = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "observers_active", Help: "Connected broadcast observers"},
	)
	ClicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "automation_clicks_total", Help: "Replayed UI clicks"},
		[]string{"side"},
	)
)

func init() {
	prometheus.MustRegister(CandlesTotal, SignalsTotal, OrdersTotal, OrderFailuresTotal, ObserversActive, ClicksTotal)
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// Serve starts a standalone /metrics listener in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
