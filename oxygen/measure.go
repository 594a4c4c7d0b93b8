package oxygen

import (
	"context"
	"fmt"
)

// ReadConcentration returns the oxygen concentration in %vol averaged over the
// last windowSize readings (at most HistoryCapacity). A non-positive window
// returns InvalidReading and ErrInvalidWindow without touching the bus.
func (s *Sensor) ReadConcentration(ctx context.Context, windowSize int) (float32, error) {
	if windowSize <= 0 {
		return InvalidReading, ErrInvalidWindow
	}
	if !s.ready {
		return 0, ErrNotInitialized
	}
	if err := s.refreshKey(ctx); err != nil {
		return 0, err
	}
	resp, err := s.readRegister(ctx, regOxygenData, 3, dataDelay)
	if err != nil {
		return 0, fmt.Errorf("oxygen: could not read concentration: %w", err)
	}
	return s.window.push(convertData(resp)*s.key, windowSize), nil
}

// ReadCurrentData returns the unscaled oxygen register value, bypassing the
// calibration key and smoothing.
func (s *Sensor) ReadCurrentData(ctx context.Context) (float32, error) {
	if !s.ready {
		return 0, ErrNotInitialized
	}
	resp, err := s.readRegister(ctx, regOxygenData, 3, dataDelay)
	if err != nil {
		return 0, fmt.Errorf("oxygen: could not read current data: %w", err)
	}
	data := convertData(resp)
	if err := s.sleep(ctx, postDelay); err != nil {
		return 0, err
	}
	return data, nil
}

func convertData(resp []byte) float32 {
	return float32(resp[0]) + float32(resp[1])/10.0 + float32(resp[2])/100.0
}
