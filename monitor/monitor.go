// Package monitor polls a single oxygen sensor and fans readings out to sinks.
// The poller goroutine is the only owner of the sensor.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jiaziui/oxygensensor/oxygen"
)

type Reader interface {
	ReadConcentration(ctx context.Context, windowSize int) (float32, error)
	CheckProbeLife(ctx context.Context) (oxygen.ProbeLife, error)
}

// Reading is an immutable snapshot of one poll cycle.
type Reading struct {
	Concentration float32          `json:"concentration"`
	ProbeLife     oxygen.ProbeLife `json:"-"`
	ProbeStatus   string           `json:"probe_life"`
	Error         string           `json:"error,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

func (r Reading) OK() bool { return r.Error == "" }

type Sink interface {
	Publish(ctx context.Context, r Reading)
}

type PollerOpts struct {
	Window        int
	Interval      time.Duration
	ProbeInterval time.Duration
}

type PollerOpt func(*PollerOpts)

func WithWindow(n int) PollerOpt {
	return func(o *PollerOpts) { o.Window = n }
}

func WithInterval(d time.Duration) PollerOpt {
	return func(o *PollerOpts) { o.Interval = d }
}

func WithProbeInterval(d time.Duration) PollerOpt {
	return func(o *PollerOpts) { o.ProbeInterval = d }
}

type Poller struct {
	config PollerOpts
	reader Reader
	sinks  []Sink

	probe     oxygen.ProbeLife
	lastProbe time.Time
	noProbe   bool
	now       func() time.Time
}

func NewPoller(reader Reader, sinks []Sink, opts ...PollerOpt) *Poller {
	config := PollerOpts{
		Window:        20,
		Interval:      2 * time.Second,
		ProbeInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Poller{
		config: config,
		reader: reader,
		sinks:  sinks,
		probe:  oxygen.ProbeLifeVersionError,
		now:    time.Now,
	}
}

// Run polls until ctx is cancelled. The first reading is taken immediately.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()
	for {
		p.Poll(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll performs one read cycle and publishes the result to every sink.
func (p *Poller) Poll(ctx context.Context) Reading {
	reading := Reading{Timestamp: p.now()}
	p.checkProbe(ctx)
	reading.ProbeLife = p.probe
	reading.ProbeStatus = p.probe.String()

	conc, err := p.reader.ReadConcentration(ctx, p.config.Window)
	if err != nil {
		slog.Error("oxygen read failed", "error", err)
		reading.Error = err.Error()
	} else {
		reading.Concentration = conc
		slog.Debug("oxygen reading", "concentration", conc, "probe", reading.ProbeStatus)
	}
	for _, s := range p.sinks {
		s.Publish(ctx, reading)
	}
	return reading
}

func (p *Poller) checkProbe(ctx context.Context) {
	if p.noProbe {
		return
	}
	now := p.now()
	if !p.lastProbe.IsZero() && now.Sub(p.lastProbe) < p.config.ProbeInterval {
		return
	}
	p.lastProbe = now
	status, err := p.reader.CheckProbeLife(ctx)
	if errors.Is(err, oxygen.ErrVersionUnsupported) {
		slog.Info("probe life not supported by sensor firmware, disabling checks")
		p.noProbe = true
		p.probe = oxygen.ProbeLifeVersionError
		return
	}
	if err != nil {
		slog.Warn("probe life check failed", "error", err)
		return
	}
	if status == oxygen.ProbeLifeExhausted && p.probe != status {
		slog.Warn("oxygen probe exhausted, replace the sensor probe")
	}
	p.probe = status
}
