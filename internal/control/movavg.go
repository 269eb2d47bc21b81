package control

// MovingAverage is a fixed-depth rolling mean over signed integer
// samples. While fewer than depth samples have been written, the average
// is taken over the samples present, so the first sample after Clear
// fully determines the result.
type MovingAverage[T Signed] struct {
	buf    []T
	idx    int
	filled int
	sum    int64
}

// NewMovingAverage creates a filter of the given depth. Depth must be at
// least 1.
func NewMovingAverage[T Signed](depth int) *MovingAverage[T] {
	if depth < 1 {
		depth = 1
	}
	return &MovingAverage[T]{buf: make([]T, depth)}
}

// Write pushes a sample into the filter and returns the updated average.
func (m *MovingAverage[T]) Write(v T) T {
	if m.filled == len(m.buf) {
		m.sum -= int64(m.buf[m.idx])
	} else {
		m.filled++
	}
	m.buf[m.idx] = v
	m.sum += int64(v)
	m.idx = (m.idx + 1) % len(m.buf)
	return m.Result()
}

// Result returns the current average. An empty filter returns zero.
func (m *MovingAverage[T]) Result() T {
	if m.filled == 0 {
		return 0
	}
	return T(m.sum / int64(m.filled))
}

// Clear empties the filter.
func (m *MovingAverage[T]) Clear() {
	m.idx = 0
	m.filled = 0
	m.sum = 0
}
