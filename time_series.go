package firperiph

// tSeries keeps the last len(buffer) values and their extremes.
type tSeries struct {
	buffer []float64
	idx    int
	n      int

	max float64
	min float64
}

func newTSeries(size int) *tSeries {
	return &tSeries{
		buffer: make([]float64, size),
	}
}

func (t *tSeries) add(entries ...float64) {
	for _, e := range entries {
		t.idx++
		t.idx %= len(t.buffer)

		old := t.buffer[t.idx]
		evicted := t.n == len(t.buffer)
		t.buffer[t.idx] = e
		if !evicted {
			t.n++
		}

		switch {
		case t.n == 1:
			t.max = e
			t.min = e
		case evicted && (old == t.max || old == t.min):
			t.max = e
			t.min = e
			for _, b := range t.buffer {
				t.minmax(b)
			}
		default:
			t.minmax(e)
		}
	}
}

func (t *tSeries) minmax(v float64) {
	if v > t.max {
		t.max = v
	}
	if v < t.min {
		t.min = v
	}
}

func (t *tSeries) last() float64 {
	return t.buffer[t.idx]
}

func (t *tSeries) count() int {
	return t.n
}

func (t *tSeries) reset() {
	for i := range t.buffer {
		t.buffer[i] = 0
	}
	t.idx = 0
	t.n = 0
	t.max = 0
	t.min = 0
}
