package oxygen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverage_Fill(t *testing.T) {
	var m movingAverage
	assert.Equal(t, float32(0), m.average())
	assert.InDelta(t, 2.0, m.push(2, 4), 1e-6)
	assert.InDelta(t, 3.0, m.push(4, 4), 1e-6)
	assert.InDelta(t, 4.0, m.push(6, 4), 1e-6)
	assert.Equal(t, 3, m.count)
	assert.Equal(t, []float32{6, 4, 2}, m.samples[:3])
}

func TestMovingAverage_Slide(t *testing.T) {
	var m movingAverage
	for i := 1; i <= 10; i++ {
		m.push(float32(i), 4)
	}
	assert.Equal(t, 4, m.count)
	assert.Equal(t, []float32{10, 9, 8, 7}, m.samples[:4])
	assert.InDelta(t, 8.5, m.average(), 1e-6)
}

func TestMovingAverage_ShrinkWindow(t *testing.T) {
	var m movingAverage
	for i := 1; i <= 5; i++ {
		m.push(float32(i), 5)
	}
	assert.InDelta(t, 5.5, m.push(6, 2), 1e-6)
	assert.Equal(t, 2, m.count)
}

func TestMovingAverage_SingleSample(t *testing.T) {
	var m movingAverage
	for i := 1; i <= 3; i++ {
		assert.InDelta(t, float64(i), m.push(float32(i), 1), 1e-6)
	}
	assert.Equal(t, 1, m.count)
}

func TestMovingAverage_CapacityClamp(t *testing.T) {
	var m movingAverage
	for i := 0; i < HistoryCapacity+20; i++ {
		m.push(1, 250)
	}
	assert.Equal(t, HistoryCapacity, m.count)
	assert.InDelta(t, 1.0, m.average(), 1e-6)
}

func TestConvertData(t *testing.T) {
	tests := []struct {
		given    []byte
		expected float32
	}{
		{[]byte{0, 0, 0}, 0},
		{[]byte{20, 9, 5}, 20.95},
		{[]byte{20, 9, 50}, 21.4},
		{[]byte{25, 0, 1}, 25.01},
	}
	for _, test := range tests {
		assert.InDelta(t, test.expected, convertData(test.given), 1e-5)
	}
}
