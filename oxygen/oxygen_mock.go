package oxygen

import (
	"context"
)

// ConcentrationBehaviorFunc returns a smoothed concentration for the given window.
type ConcentrationBehaviorFunc func(ctx context.Context, windowSize int) (float32, error)

// ProbeLifeBehaviorFunc returns the probe life status.
type ProbeLifeBehaviorFunc func(ctx context.Context) (ProbeLife, error)

// MockOxygenSensor produces readings from behavior functions without hardware.
// A nil probe behavior reports ProbeLifeVersionError with ErrVersionUnsupported,
// like old firmware does.
//
// Example usage:
//
//	sensor := NewMockOxygenSensor(
//		func(ctx context.Context, n int) (float32, error) { return 20.9, nil },
//		nil,
//	)
type MockOxygenSensor struct {
	concentration ConcentrationBehaviorFunc
	probe         ProbeLifeBehaviorFunc
}

func NewMockOxygenSensor(concentration ConcentrationBehaviorFunc, probe ProbeLifeBehaviorFunc) *MockOxygenSensor {
	return &MockOxygenSensor{concentration: concentration, probe: probe}
}

func (m *MockOxygenSensor) ReadConcentration(ctx context.Context, windowSize int) (float32, error) {
	if windowSize <= 0 {
		return InvalidReading, ErrInvalidWindow
	}
	return m.concentration(ctx, windowSize)
}

func (m *MockOxygenSensor) CheckProbeLife(ctx context.Context) (ProbeLife, error) {
	if m.probe == nil {
		return ProbeLifeVersionError, ErrVersionUnsupported
	}
	return m.probe(ctx)
}
