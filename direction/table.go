// Package direction encodes the bidirectional runs of a single line.
//
// A Table holds pairs of ints: the run start relative to the line start, and
// level<<RunLevelShift | length. The RTL flag is the parity bit of the level.
// Runs are listed in visual order beginning at the paragraph's leading edge:
// left to right for LTR paragraphs, right to left for RTL paragraphs.
package direction

import (
	"errors"
	"fmt"
)

const (
	RunLengthMask = 0x03ffffff
	RunLevelShift = 26
	RunLevelMask  = 0x3f
	RunRTLFlag    = 1 << RunLevelShift
)

// ErrInvalidRun 表示 run 的起点、长度或层级超出编码范围。
var ErrInvalidRun = errors.New("direction: run 无效")

// Dir is a paragraph direction: 1 for LTR, -1 for RTL.
type Dir int

const (
	LTR Dir = 1
	RTL Dir = -1
)

// Level returns the base embedding level of d.
func (d Dir) Level() uint8 {
	if d == RTL {
		return 1
	}
	return 0
}

func (d Dir) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// Run is one unpacked entry of a Table.
type Run struct {
	Start  int
	Length int
	Level  uint8
}

// RTL reports whether the run is drawn right to left.
func (r Run) RTL() bool { return r.Level&1 == 1 }

// Limit returns Start+Length.
func (r Run) Limit() int { return r.Start + r.Length }

// Table is the immutable run table of one line.
type Table struct {
	runs []int
}

// The uniform sentinels. Callers compare against them by identity to skip
// per-run work on lines with a single direction.
var (
	AllLeftToRight = &Table{runs: []int{0, RunLengthMask}}
	AllRightToLeft = &Table{runs: []int{0, RunLengthMask | RunRTLFlag}}
)

// New packs runs given in visual order.
func New(runs ...Run) (*Table, error) {
	packed := make([]int, 0, 2*len(runs))
	for _, r := range runs {
		if r.Start < 0 || r.Length < 0 || r.Length > RunLengthMask || r.Level > RunLevelMask {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidRun, r)
		}
		packed = append(packed, r.Start, r.Length|int(r.Level)<<RunLevelShift)
	}
	return &Table{runs: packed}, nil
}

// MustNew is like New but panics on invalid runs. It is meant for fixtures.
func MustNew(runs ...Run) *Table {
	t, err := New(runs...)
	if err != nil {
		panic(err)
	}
	return t
}

// Uniform reports whether t is one of the single-direction sentinels.
func (t *Table) Uniform() bool {
	return t == AllLeftToRight || t == AllRightToLeft
}

// Len returns the number of runs.
func (t *Table) Len() int { return len(t.runs) / 2 }

// Run unpacks run i.
func (t *Table) Run(i int) Run {
	v := t.runs[2*i+1]
	return Run{
		Start:  t.runs[2*i],
		Length: v & RunLengthMask,
		Level:  uint8((v >> RunLevelShift) & RunLevelMask),
	}
}

// Packed returns a copy of the packed pairs.
func (t *Table) Packed() []int {
	out := make([]int, len(t.runs))
	copy(out, t.runs)
	return out
}

// clipped returns run i with its limit clamped to lineLen.
func (t *Table) clipped(i, lineLen int) Run {
	r := t.Run(i)
	if r.Limit() > lineLen {
		r.Length = lineLen - r.Start
		if r.Length < 0 {
			r.Length = 0
		}
	}
	return r
}

// RTLAt reports whether the character at rel (relative to the line start) is
// in a right-to-left run. Offsets outside every run report false.
func (t *Table) RTLAt(rel int) bool {
	switch t {
	case AllLeftToRight:
		return false
	case AllRightToLeft:
		return true
	}
	for i := 0; i < t.Len(); i++ {
		r := t.Run(i)
		if rel >= r.Start && rel < r.Limit() {
			return r.RTL()
		}
	}
	return false
}

// RunRange returns the [start, end) range, relative to the line start, of the
// run containing rel. ok is false for uniform lines and for offsets past every
// run.
func (t *Table) RunRange(rel int) (start, end int, ok bool) {
	if t.Uniform() {
		return 0, 0, false
	}
	for i := 0; i < t.Len(); i++ {
		r := t.Run(i)
		if rel >= r.Start && rel < r.Limit() {
			return r.Start, r.Limit(), true
		}
	}
	return 0, 0, false
}

// LevelBoundary reports whether rel needs a second caret: at a line edge when
// the edge run's level differs from the paragraph level, or inside the line
// when rel is the start of a run.
func (t *Table) LevelBoundary(rel, lineLen int, dir Dir) bool {
	if t.Uniform() {
		return false
	}
	if rel == 0 || rel == lineLen {
		i := 0
		if rel != 0 {
			i = t.Len() - 1
		}
		return t.Run(i).Level != dir.Level()
	}
	for i := 0; i < t.Len(); i++ {
		if t.Run(i).Start == rel {
			return true
		}
	}
	return false
}

// levelAt returns the level of the run containing rel, or -1.
func (t *Table) levelAt(rel, lineLen int) (level int, atStart bool) {
	for i := 0; i < t.Len(); i++ {
		r := t.clipped(i, lineLen)
		if rel >= r.Start && rel < r.Limit() {
			return int(r.Level), rel == r.Start
		}
	}
	return -1, false
}

// PrimaryIsTrailingPrevious reports whether the primary caret at rel attaches
// to the end of the preceding run rather than the start of the following
// one. The side with the lower embedding level wins.
func (t *Table) PrimaryIsTrailingPrevious(rel, lineLen int, dir Dir) bool {
	levelAt, atStart := t.levelAt(rel, lineLen)
	if levelAt >= 0 && !atStart {
		return false
	}
	if levelAt < 0 {
		levelAt = int(dir.Level())
	}
	levelBefore := -1
	if rel == 0 {
		levelBefore = int(dir.Level())
	} else {
		levelBefore, _ = t.levelAt(rel-1, lineLen)
	}
	return levelBefore < levelAt
}

func (t *Table) String() string {
	switch t {
	case AllLeftToRight:
		return "Table(all-ltr)"
	case AllRightToLeft:
		return "Table(all-rtl)"
	}
	s := "Table("
	for i := 0; i < t.Len(); i++ {
		r := t.Run(i)
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%d+%d@%d", r.Start, r.Length, r.Level)
	}
	return s + ")"
}
