package oxygen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockOxygenSensor_StaticValues(t *testing.T) {
	sensor := NewMockOxygenSensor(
		func(ctx context.Context, n int) (float32, error) { return 20.9, nil },
		func(ctx context.Context) (ProbeLife, error) { return ProbeLifeNormal, nil },
	)
	ctx := context.Background()

	v, err := sensor.ReadConcentration(ctx, 10)
	assert.NoError(t, err)
	assert.Equal(t, float32(20.9), v)

	p, err := sensor.CheckProbeLife(ctx)
	assert.NoError(t, err)
	assert.Equal(t, ProbeLifeNormal, p)
}

func TestMockOxygenSensor_WindowPassedThrough(t *testing.T) {
	var got int
	sensor := NewMockOxygenSensor(func(ctx context.Context, n int) (float32, error) {
		got = n
		return 0, nil
	}, nil)

	_, _ = sensor.ReadConcentration(context.Background(), 42)
	assert.Equal(t, 42, got)

	v, err := sensor.ReadConcentration(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	assert.Equal(t, InvalidReading, v)
}

func TestMockOxygenSensor_NilProbeBehavesLikeOldFirmware(t *testing.T) {
	sensor := NewMockOxygenSensor(func(ctx context.Context, n int) (float32, error) {
		return 0, errors.New("sensor error")
	}, nil)

	p, err := sensor.CheckProbeLife(context.Background())
	assert.ErrorIs(t, err, ErrVersionUnsupported)
	assert.Equal(t, ProbeLifeVersionError, p)

	_, err = sensor.ReadConcentration(context.Background(), 1)
	assert.EqualError(t, err, "sensor error")
}
