package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	configReads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pricebook",
		Name:      "config_reads_total",
		Help:      "Total number of configuration documents served",
	})
	configSaves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pricebook",
		Name:      "config_saves_total",
		Help:      "Total number of configuration changes by kind (config, reset, theme)",
	}, []string{"kind"})
	logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pricebook",
		Name:      "engine_logins_total",
		Help:      "Engine Room login attempts by result",
	}, []string{"result"})
	liveClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pricebook",
		Name:      "live_clients",
		Help:      "Number of connected live-update clients",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(configReads, configSaves, logins, liveClients)
	})
}

func IncConfigRead()            { configReads.Inc() }
func IncConfigSave(kind string) { configSaves.WithLabelValues(kind).Inc() }
func IncLogin(result string)    { logins.WithLabelValues(result).Inc() }
func SetLiveClients(n int)      { liveClients.Set(float64(n)) }
