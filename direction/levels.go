package direction

// FromLevels builds the run table of one line from its per-rune embedding
// levels. text holds the line's runes and is only consulted to split off
// trailing whitespace that runs against the paragraph direction; that
// whitespace is given the paragraph level so it sits at the trailing edge.
func FromLevels(levels []uint8, text []rune, dir Dir) *Table {
	n := len(levels)
	if n == 0 {
		return AllLeftToRight
	}
	base := dir.Level()

	visLen := n
	if last := levels[n-1]; last&1 != base&1 {
		visLen = trailingVisibleLen(text[:n])
	}

	var runs []Run
	minLevel, maxLevel := levels[0], levels[0]
	start := 0
	for i := 1; i <= visLen; i++ {
		if i < visLen && levels[i] == levels[start] {
			continue
		}
		lv := levels[start]
		runs = append(runs, Run{Start: start, Length: i - start, Level: lv})
		if lv < minLevel {
			minLevel = lv
		}
		if lv > maxLevel {
			maxLevel = lv
		}
		start = i
	}
	if visLen < n {
		runs = append(runs, Run{Start: visLen, Length: n - visLen, Level: base})
		if base < minLevel {
			minLevel = base
		}
	}

	if len(runs) == 1 && runs[0].Level == base {
		if base&1 == 1 {
			return AllRightToLeft
		}
		return AllLeftToRight
	}

	// Runs at the paragraph level already sit in leading-edge order, so the
	// reversal only has to cover the levels above it. When the lowest level
	// runs against the paragraph every level participates.
	var swap bool
	if minLevel&1 == base {
		minLevel++
		swap = maxLevel > minLevel
	} else {
		swap = len(runs) > 1
	}
	if swap {
		for level := int(maxLevel) - 1; level >= int(minLevel); level-- {
			for i := 0; i < len(runs); i++ {
				if int(runs[i].Level) < level {
					continue
				}
				e := i + 1
				for e < len(runs) && int(runs[e].Level) >= level {
					e++
				}
				for lo, hi := i, e-1; lo < hi; lo, hi = lo+1, hi-1 {
					runs[lo], runs[hi] = runs[hi], runs[lo]
				}
				i = e
			}
		}
	}
	return MustNew(runs...)
}

// trailingVisibleLen trims trailing spaces, tabs and one line feed. The
// trimmed tail becomes its own base-level run, so only ASCII space and tab
// count here: other separators keep the level bidi resolved for them. This
// set is narrower than layout's isTrailingSpace, which decides how much of
// a line may hang past the width and never changes run levels.
func trailingVisibleLen(text []rune) int {
	i := len(text) - 1
	for ; i >= 0; i-- {
		ch := text[i]
		if ch == '\n' {
			i--
			break
		}
		if ch != ' ' && ch != '\t' {
			break
		}
	}
	return i + 1
}
