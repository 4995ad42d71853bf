package layout

import (
	"fmt"
	"slices"

	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/span"
	"github.com/ByLCY/paralayout/textline"
)

// DesiredWidth returns the width text needs so that no paragraph wraps: the
// widest paragraph measured left to right, first-line margins and tab stops
// included. spans may be nil.
func DesiredWidth(text []rune, spans span.Spanned, face textline.Face) (float64, error) {
	need := 0.0
	for i := 0; i <= len(text); {
		next := slices.Index(text[i:], '\n')
		if next < 0 {
			next = len(text)
		} else {
			next += i
		}
		w, err := measurePara(text, spans, face, i, next)
		if err != nil {
			return 0, fmt.Errorf("测量段落 [%d,%d) 失败: %w", i, next, err)
		}
		need = max(need, w)
		i = next + 1
	}
	return need, nil
}

func measurePara(text []rune, spans span.Spanned, face textline.Face, start, end int) (float64, error) {
	para := text[start:end]
	dirs := direction.AllLeftToRight
	if direction.NeedsBidi(para) {
		levels, err := direction.Analyze(para, direction.LTR)
		if err != nil {
			return 0, err
		}
		dirs = direction.FromLevels(levels, para, direction.LTR)
	}

	margin := 0.0
	hasTabs := slices.Contains(para, '\t')
	var tabs *textline.TabStops
	var repl []span.Entry[span.Replacement]
	if spans != nil {
		for _, m := range span.ParagraphSpans(spans.LeadingMargins(), start, end) {
			margin += m.Value.Margin(true)
		}
		if hasTabs {
			q := spans.TabStops()
			tabs = newTabStops(span.ParagraphSpans(q, start, q.NextTransition(start, end)))
		}
		repl = spans.Replacements().Overlapping(start, end)
	}

	var tl textline.Line
	tl.Set(textline.Params{
		Face: face, Text: text, Start: start, End: end,
		Dir: direction.LTR, Dirs: dirs, HasTabs: hasTabs, Tabs: tabs, Replacements: repl,
	})
	w, _ := tl.Metrics()
	return margin + w, nil
}

// newTabStops builds stops from tab stop spans, or nil when there are none.
func newTabStops(ts []span.Entry[span.TabStop]) *textline.TabStops {
	if len(ts) == 0 {
		return nil
	}
	pos := make([]float64, len(ts))
	for i, t := range ts {
		pos[i] = t.Value.Position
	}
	return textline.NewTabStops(textline.TabIncrement, pos)
}
