package oxygen

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
)

type CalibrateOpts struct {
	millivolts *float32
}

type CalibrateOpt func(*CalibrateOpts)

// WithMillivolts switches Calibrate to automatic mode, deriving the key from
// the probe output measured at the given concentration.
func WithMillivolts(mv float32) CalibrateOpt {
	return func(o *CalibrateOpts) {
		o.millivolts = &mv
	}
}

// Calibrate stores a new calibration key on the device.
//
// Without options the key is forced directly from the concentration (manual
// mode, register 0x08). With WithMillivolts the key is concentration/mV*1000,
// written as one byte clamped to 255 on old firmware (0x09) and as a little
// endian word on new firmware (0x0C).
func (s *Sensor) Calibrate(ctx context.Context, concentration float32, opts ...CalibrateOpt) error {
	if !s.ready {
		return ErrNotInitialized
	}
	var config CalibrateOpts
	for _, opt := range opts {
		opt(&config)
	}
	if config.millivolts == nil {
		key := byte(int64(math.Round(float64(concentration)*10)) & 0xFF)
		return s.writeRegister(ctx, regUserSetKey, key)
	}
	mv := float64(*config.millivolts)
	if math.IsNaN(mv) || math.IsInf(mv, 0) || mv <= 0 {
		return ErrInvalidMillivolts
	}
	key := math.Round(float64(concentration) / mv * 1000)
	if s.version == VersionOld {
		return s.writeRegister(ctx, regAutoSetKey, byte(clamp(key, 0, math.MaxUint8)))
	}
	var word [2]byte
	binary.LittleEndian.PutUint16(word[:], uint16(clamp(key, 0, math.MaxUint16)))
	return s.writeRegister(ctx, regAutoSetKeyExt, word[:]...)
}

// CalibrationKey fetches the key currently stored on the device.
func (s *Sensor) CalibrationKey(ctx context.Context) (float32, error) {
	if !s.ready {
		return 0, ErrNotInitialized
	}
	if err := s.refreshKey(ctx); err != nil {
		return 0, err
	}
	return s.key, nil
}

func (s *Sensor) refreshKey(ctx context.Context) error {
	resp, err := s.readRegister(ctx, regGetKey, 2, keyDelay)
	if err != nil {
		return fmt.Errorf("oxygen: could not read calibration key: %w", err)
	}
	s.key = convertKey(resp)
	return nil
}

func convertKey(resp []byte) float32 {
	raw := binary.LittleEndian.Uint16(resp)
	if raw == 0 {
		return defaultKey
	}
	return float32(raw) / 1000.0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
