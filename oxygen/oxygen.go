package oxygen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jiaziui/oxygensensor"
)

var (
	ErrDeviceNotFound     = fmt.Errorf("oxygen: device did not acknowledge its address")
	ErrNotInitialized     = fmt.Errorf("oxygen: sensor not initialized")
	ErrInvalidWindow      = fmt.Errorf("oxygen: smoothing window must be greater than zero")
	ErrVersionUnsupported = fmt.Errorf("oxygen: operation not supported by firmware")
	ErrInvalidMillivolts  = fmt.Errorf("oxygen: calibration voltage must be a positive number")
)

const (
	keyDelay  = 50 * time.Millisecond
	dataDelay = 100 * time.Millisecond
	postDelay = 50 * time.Millisecond
)

// Version is the register layout generation reported by the firmware.
type Version byte

const (
	VersionOld Version = iota
	VersionNew
)

func (v Version) String() string {
	switch v {
	case VersionNew:
		return "new"
	default:
		return "old"
	}
}

type Opts struct {
	Address byte
}

type Opt func(*Opts)

func WithAddress(address byte) Opt {
	return func(o *Opts) {
		o.Address = address
	}
}

// Sensor represents DFRobot Gravity electrochemical oxygen sensor (SEN0322).
// Typical usage:
//
//	s := oxygen.New(bus, oxygen.WithAddress(oxygen.Address3))
//	if err := s.Init(ctx); err != nil { ... }
//	vol, err := s.ReadConcentration(ctx, 10)
//
// The bus is borrowed and never closed by the sensor. Sensor is not safe for
// concurrent use; keep it owned by a single goroutine.
type Sensor struct {
	transport oxygensensor.I2CBus
	address   byte

	ready    bool
	version  Version
	firmware byte
	key      float32
	window   movingAverage

	sleep func(ctx context.Context, d time.Duration) error
}

func New(transport oxygensensor.I2CBus, opts ...Opt) *Sensor {
	config := Opts{
		Address: DefaultAddress,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Sensor{
		transport: transport,
		address:   config.Address,
		sleep:     sleepCtx,
	}
}

// Init probes the device address and detects the firmware register layout.
// Nothing else is sent when the probe is not acknowledged.
func (s *Sensor) Init(ctx context.Context) error {
	err := s.transport.WriteToAddr(ctx, s.address, []byte{})
	if err != nil {
		return fmt.Errorf("%w (%#x): %w", ErrDeviceNotFound, s.address, err)
	}
	fw, err := s.readRegister(ctx, regVersion, 1, 0)
	if err != nil {
		return fmt.Errorf("oxygen: could not read firmware version: %w", err)
	}
	s.firmware = fw[0]
	switch s.firmware {
	case firmwareNew:
		s.version = VersionNew
	case firmwareOld:
		s.version = VersionOld
	default:
		slog.Warn("oxygen: unrecognized firmware version, assuming old register layout",
			"address", fmt.Sprintf("%#x", s.address), "version", fmt.Sprintf("%#x", s.firmware))
		s.version = VersionOld
	}
	s.ready = true
	slog.Debug("oxygen: sensor ready", "address", fmt.Sprintf("%#x", s.address), "version", s.version)
	return nil
}

func (s *Sensor) Address() byte { return s.address }

func (s *Sensor) Ready() bool { return s.ready }

// Version returns the register layout detected by Init.
func (s *Sensor) Version() Version { return s.version }

// FirmwareByte returns the raw version register value read by Init.
func (s *Sensor) FirmwareByte() byte { return s.firmware }

// Key returns the calibration key fetched by the last concentration read.
func (s *Sensor) Key() float32 { return s.key }

// ResetWindow drops all samples collected for smoothing.
func (s *Sensor) ResetWindow() {
	s.window = movingAverage{}
}

// readRegister selects reg, waits for delay and reads n bytes back.
func (s *Sensor) readRegister(ctx context.Context, reg byte, n int, delay time.Duration) ([]byte, error) {
	err := s.transport.WriteToAddr(ctx, s.address, []byte{reg})
	if err != nil {
		return nil, fmt.Errorf("write reg %#x failed: %w", reg, err)
	}
	if delay > 0 {
		if err := s.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	resp := make([]byte, n)
	err = s.transport.ReadFromAddr(ctx, s.address, resp)
	if err != nil {
		return nil, fmt.Errorf("read reg %#x failed: %w", reg, err)
	}
	return resp, nil
}

func (s *Sensor) writeRegister(ctx context.Context, reg byte, data ...byte) error {
	err := s.transport.WriteToAddr(ctx, s.address, append([]byte{reg}, data...))
	if err != nil {
		return fmt.Errorf("oxygen: write reg %#x failed: %w", reg, err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
