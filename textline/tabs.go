package textline

import (
	"math"
	"sort"
)

// TabIncrement is the default distance between tab stops.
const TabIncrement = 20

// TabStops resolves tab positions from explicit stops, falling back to
// multiples of an increment.
type TabStops struct {
	increment float64
	stops     []float64
}

// NewTabStops returns stops sorted ascending.
func NewTabStops(increment float64, stops []float64) *TabStops {
	t := &TabStops{}
	t.Reset(increment, stops)
	return t
}

// Reset reuses t for another paragraph.
func (t *TabStops) Reset(increment float64, stops []float64) {
	t.increment = increment
	t.stops = append(t.stops[:0], stops...)
	sort.Float64s(t.stops)
}

// Stops returns the explicit stops in ascending order.
func (t *TabStops) Stops() []float64 { return t.stops }

// NextTab returns the smallest explicit stop greater than h, or the next
// default stop when none is.
func (t *TabStops) NextTab(h float64) float64 {
	for _, s := range t.stops {
		if s > h {
			return s
		}
	}
	return NextDefaultStop(h, t.increment)
}

// NextDefaultStop returns floor((h+inc)/inc)*inc.
func NextDefaultStop(h, inc float64) float64 {
	if inc <= 0 {
		inc = TabIncrement
	}
	return math.Floor((h+inc)/inc) * inc
}
