package textline

// Metrics are font extents around the baseline, all non-negative.
type Metrics struct {
	Ascent  float64
	Descent float64
	Leading float64
}

// Height returns the natural line height.
func (m Metrics) Height() float64 { return m.Ascent + m.Descent + m.Leading }

// Face is the measurement context: glyph shaping stays behind it.
type Face interface {
	// Advance returns the width of text laid out in logical order.
	Advance(text []rune) float64
	Metrics() Metrics
}

// Canvas receives glyph runs. text is in logical order and holds a single
// direction; x is the visual left edge of the run.
type Canvas interface {
	DrawRun(text []rune, x, baseline float64, rtl bool)
}

// Monospace is a Face where every rune advances by Width. Tabs, line feeds
// and U+FEFF are zero width since layout handles them itself.
type Monospace struct {
	Width float64
	Asc   float64
	Desc  float64
}

func (m Monospace) Advance(text []rune) float64 {
	n := 0
	for _, r := range text {
		if r == '\t' || r == '\n' || r == '\uFEFF' {
			continue
		}
		n++
	}
	return float64(n) * m.Width
}

func (m Monospace) Metrics() Metrics {
	return Metrics{Ascent: m.Asc, Descent: m.Desc}
}
