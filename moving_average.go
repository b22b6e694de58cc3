package firperiph

// movingAverage stores an estimated moving average of the last 4 values.
type movingAverage struct {
	mean   float64
	primed bool
}

func (m *movingAverage) add(n float64) {
	if !m.primed {
		m.mean = n
		m.primed = true
		return
	}
	m.mean += (n - m.mean) / 4
}

func (m *movingAverage) reset() {
	m.mean = 0
	m.primed = false
}
