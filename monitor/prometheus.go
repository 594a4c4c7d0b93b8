package monitor

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusSink struct {
	address       string
	concentration *prometheus.GaugeVec
	probeLife     *prometheus.GaugeVec
	readErrors    *prometheus.CounterVec
	lastRead      *prometheus.GaugeVec
}

func NewPrometheusSink(reg prometheus.Registerer, address byte) (*PrometheusSink, error) {
	labels := []string{"address"}
	s := &PrometheusSink{
		address: fmt.Sprintf("%#x", address),
		concentration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "oxygen_concentration_percent",
			Help: "Smoothed oxygen concentration (units: %vol)",
		}, labels),
		probeLife: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "oxygen_probe_life",
			Help: "Probe life status (1 normal, 0 exhausted, -1 unsupported)",
		}, labels),
		readErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oxygen_read_errors_total",
			Help: "Failed concentration reads",
		}, labels),
		lastRead: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "oxygen_last_read_timestamp_seconds",
			Help: "Unix time of the last successful read",
		}, labels),
	}
	for _, c := range []prometheus.Collector{s.concentration, s.probeLife, s.readErrors, s.lastRead} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("could not register oxygen metrics: %w", err)
		}
	}
	return s, nil
}

func (s *PrometheusSink) Publish(ctx context.Context, r Reading) {
	s.probeLife.WithLabelValues(s.address).Set(float64(r.ProbeLife))
	if !r.OK() {
		s.readErrors.WithLabelValues(s.address).Inc()
		return
	}
	s.concentration.WithLabelValues(s.address).Set(float64(r.Concentration))
	s.lastRead.WithLabelValues(s.address).Set(float64(r.Timestamp.Unix()))
}
