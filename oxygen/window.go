package oxygen

// movingAverage keeps the newest samples at the front of a fixed buffer.
// count never exceeds the window size of the last push.
type movingAverage struct {
	samples [HistoryCapacity]float32
	count   int
}

func (m *movingAverage) push(sample float32, size int) float32 {
	if size > HistoryCapacity {
		size = HistoryCapacity
	}
	copy(m.samples[1:size], m.samples[:size-1])
	m.samples[0] = sample
	if m.count < size {
		m.count++
	} else {
		m.count = size
	}
	return m.average()
}

func (m *movingAverage) average() float32 {
	if m.count == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.samples[:m.count] {
		sum += float64(v)
	}
	return float32(sum / float64(m.count))
}
