package textline

import "testing"

func TestNextTab(t *testing.T) {
	tabs := NewTabStops(TabIncrement, []float64{80, 40})
	cases := []struct{ h, want float64 }{
		{0, 40},
		{10, 40},
		{40, 80},
		{50, 80},
		{90, 100}, // past every explicit stop
	}
	for _, c := range cases {
		if got := tabs.NextTab(c.h); got != c.want {
			t.Fatalf("NextTab(%g) 期望 %g，实际 %g", c.h, c.want, got)
		}
	}
}

func TestNextDefaultStop(t *testing.T) {
	cases := []struct{ h, inc, want float64 }{
		{0, 20, 20},
		{19.5, 20, 20},
		{20, 20, 40},
		{35, 0, 40},
	}
	for _, c := range cases {
		if got := NextDefaultStop(c.h, c.inc); got != c.want {
			t.Fatalf("NextDefaultStop(%g, %g) 期望 %g，实际 %g", c.h, c.inc, c.want, got)
		}
	}
	if got := NewTabStops(TabIncrement, nil).NextTab(5); got != 20 {
		t.Fatalf("无显式制表位时期望 20，实际 %g", got)
	}
}
