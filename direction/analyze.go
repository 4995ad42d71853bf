package direction

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// Heuristic decides the direction of a paragraph from its text.
type Heuristic int

const (
	// FirstStrongLTR uses the first strong character, LTR when there is none.
	FirstStrongLTR Heuristic = iota
	// FirstStrongRTL uses the first strong character, RTL when there is none.
	FirstStrongRTL
	// ForceLTR and ForceRTL ignore the text.
	ForceLTR
	ForceRTL
	// AnyRTLLTR is RTL when any strong RTL character is present.
	AnyRTLLTR
)

var heuristicNames = map[Heuristic]string{
	FirstStrongLTR: "firststrong-ltr",
	FirstStrongRTL: "firststrong-rtl",
	ForceLTR:       "ltr",
	ForceRTL:       "rtl",
	AnyRTLLTR:      "anyrtl-ltr",
}

func (h Heuristic) String() string {
	if s, ok := heuristicNames[h]; ok {
		return s
	}
	return fmt.Sprintf("Heuristic(%d)", int(h))
}

// ParseHeuristic parses the names produced by Heuristic.String.
func ParseHeuristic(s string) (Heuristic, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FirstStrongLTR, nil
	}
	for h, name := range heuristicNames {
		if name == s {
			return h, nil
		}
	}
	return FirstStrongLTR, fmt.Errorf("未知的文字方向策略 %q", s)
}

type strength int

const (
	weak strength = iota
	strongL
	strongR
)

func classify(r rune) strength {
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.L, bidi.LRE, bidi.LRO:
		return strongL
	case bidi.R, bidi.AL, bidi.RLE, bidi.RLO:
		return strongR
	}
	return weak
}

// Resolve returns the paragraph direction of text under h.
func (h Heuristic) Resolve(text []rune) Dir {
	switch h {
	case ForceLTR:
		return LTR
	case ForceRTL:
		return RTL
	case AnyRTLLTR:
		for _, r := range text {
			if classify(r) == strongR {
				return RTL
			}
		}
		return LTR
	}
	for _, r := range text {
		switch classify(r) {
		case strongL:
			return LTR
		case strongR:
			return RTL
		}
	}
	if h == FirstStrongRTL {
		return RTL
	}
	return LTR
}

// NeedsBidi reports whether text can contain anything other than a single
// left-to-right run.
func NeedsBidi(text []rune) bool {
	for _, r := range text {
		if r < 0x0590 {
			continue
		}
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.R, bidi.AL, bidi.AN,
			bidi.RLE, bidi.RLO, bidi.RLI, bidi.LRE, bidi.LRO, bidi.LRI, bidi.FSI, bidi.PDF, bidi.PDI:
			return true
		}
	}
	return false
}

// Analyze returns per-rune embedding levels of one paragraph. A trailing line
// feed is kept at the paragraph level. Runs resolved against the paragraph
// direction are placed one level above it, and in a left-to-right paragraph
// numbers governed by right-to-left text sit at level 2.
func Analyze(text []rune, dir Dir) ([]uint8, error) {
	levels := make([]uint8, len(text))
	base := dir.Level()
	for i := range levels {
		levels[i] = base
	}
	body := text
	if n := len(body); n > 0 && body[n-1] == '\n' {
		body = body[:n-1]
	}
	if len(body) == 0 || (dir == LTR && !NeedsBidi(body)) {
		return levels, nil
	}

	// x/text only honours an RTL default; an LTR paragraph is pinned by a
	// leading LRM instead.
	def, src, shift := bidi.RightToLeft, string(body), 0
	if dir == LTR {
		def, src, shift = bidi.LeftToRight, "\u200e"+src, 1
	}
	var p bidi.Paragraph
	if _, err := p.SetString(src, bidi.DefaultDirection(def)); err != nil {
		return nil, fmt.Errorf("bidi 分析失败: %w", err)
	}
	order, err := p.Order()
	if err != nil {
		return nil, fmt.Errorf("bidi 排序失败: %w", err)
	}
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		start, end := run.Pos()
		lv := base
		if (run.Direction() == bidi.RightToLeft) != (dir == RTL) {
			lv = base + 1
		}
		for j := max(start, shift); j <= end && j-shift < len(body); j++ {
			levels[j-shift] = lv
		}
	}
	if dir == LTR {
		raiseNumbers(body, levels)
	}
	return levels, nil
}

// raiseNumbers rebuilds level 2 inside a left-to-right paragraph. Order only
// reports parity, so a number after right-to-left text would otherwise merge
// with the paragraph level and split the surrounding run. In an RTL
// paragraph left-to-right text and numbers both resolve to level 2 already.
func raiseNumbers(text []rune, levels []uint8) {
	classes := make([]bidi.Class, len(text))
	for i, r := range text {
		p, _ := bidi.LookupRune(r)
		classes[i] = p.Class()
	}
	raised := func(i int) bool { return i >= 0 && i < len(text) && levels[i] == 2 }

	// EN after R or AL and every AN end up two levels up.
	strong := bidi.L
	for i, c := range classes {
		switch c {
		case bidi.L, bidi.R, bidi.AL:
			strong = c
		case bidi.AN:
			if levels[i] == 0 {
				levels[i] = 2
			}
		case bidi.EN:
			if levels[i] == 0 && strong != bidi.L {
				levels[i] = 2
			}
		}
	}

	for i, c := range classes {
		if levels[i] != 0 {
			continue
		}
		switch c {
		case bidi.CS:
			// 同类数字之间的单个分隔符
			if raised(i-1) && raised(i+1) && classes[i-1] == classes[i+1] {
				levels[i] = 2
			}
		case bidi.ES:
			if raised(i-1) && raised(i+1) && classes[i-1] == bidi.EN && classes[i+1] == bidi.EN {
				levels[i] = 2
			}
		case bidi.NSM:
			if raised(i - 1) {
				levels[i] = 2
			}
		}
	}

	// ET sequences join an adjacent European number.
	for i := 0; i < len(text); {
		if classes[i] != bidi.ET || levels[i] != 0 {
			i++
			continue
		}
		j := i
		for j < len(text) && classes[j] == bidi.ET && levels[j] == 0 {
			j++
		}
		if (raised(i-1) && classes[i-1] == bidi.EN) || (raised(j) && classes[j] == bidi.EN) {
			for k := i; k < j; k++ {
				levels[k] = 2
			}
		}
		i = j
	}
}
