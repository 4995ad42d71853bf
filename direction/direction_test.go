package direction

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ltrThenRTL is "abc" followed by a three-rune RTL run.
var ltrThenRTL = MustNew(Run{Start: 0, Length: 3, Level: 0}, Run{Start: 3, Length: 3, Level: 1})

func runsOf(t *Table) []Run {
	out := make([]Run, t.Len())
	for i := range out {
		out[i] = t.Run(i)
	}
	return out
}

func TestTablePacking(t *testing.T) {
	got := ltrThenRTL.Packed()
	want := []int{0, 3, 3, 3 | RunRTLFlag}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("编码不符 (-want +got):\n%s", diff)
	}
	if !ltrThenRTL.Run(1).RTL() || ltrThenRTL.Run(0).RTL() {
		t.Fatalf("RTL 标志位解码错误")
	}
	if _, err := New(Run{Start: 0, Length: 1, Level: 64}); !errors.Is(err, ErrInvalidRun) {
		t.Fatalf("层级越界应返回 ErrInvalidRun，实际 %v", err)
	}
	if !AllLeftToRight.Uniform() || ltrThenRTL.Uniform() {
		t.Fatalf("Uniform 判断错误")
	}
}

func TestRunRangeAndRTLAt(t *testing.T) {
	if s, e, ok := ltrThenRTL.RunRange(4); !ok || s != 3 || e != 6 {
		t.Fatalf("RunRange(4) 期望 [3,6)，实际 [%d,%d) ok=%v", s, e, ok)
	}
	if s, e, ok := ltrThenRTL.RunRange(1); !ok || s != 0 || e != 3 {
		t.Fatalf("RunRange(1) 期望 [0,3)，实际 [%d,%d) ok=%v", s, e, ok)
	}
	if _, _, ok := AllRightToLeft.RunRange(2); ok {
		t.Fatalf("统一方向行不应命中具体 run")
	}
	if _, _, ok := ltrThenRTL.RunRange(6); ok {
		t.Fatalf("行尾之后不应命中 run")
	}
	if !ltrThenRTL.RTLAt(3) || ltrThenRTL.RTLAt(2) || ltrThenRTL.RTLAt(9) {
		t.Fatalf("RTLAt 判断错误")
	}
}

func TestLevelBoundary(t *testing.T) {
	cases := []struct {
		rel  int
		want bool
	}{
		{0, false},
		{1, false},
		{3, true},
		{6, true}, // the last run is RTL inside an LTR paragraph
	}
	for _, c := range cases {
		if got := ltrThenRTL.LevelBoundary(c.rel, 6, LTR); got != c.want {
			t.Fatalf("LevelBoundary(%d) 期望 %v，实际 %v", c.rel, c.want, got)
		}
	}
	if AllLeftToRight.LevelBoundary(0, 4, LTR) {
		t.Fatalf("统一方向行没有层级边界")
	}
}

func TestPrimaryIsTrailingPrevious(t *testing.T) {
	if !ltrThenRTL.PrimaryIsTrailingPrevious(3, 6, LTR) {
		t.Fatalf("LTR→RTL 边界处主光标应依附前一字符")
	}
	if ltrThenRTL.PrimaryIsTrailingPrevious(1, 6, LTR) {
		t.Fatalf("run 内部不应依附前一字符")
	}
	if ltrThenRTL.PrimaryIsTrailingPrevious(0, 6, LTR) {
		t.Fatalf("行首不应依附前一字符")
	}
	// At the line end the RTL run (level 1) precedes the paragraph level 0.
	if ltrThenRTL.PrimaryIsTrailingPrevious(6, 6, LTR) {
		t.Fatalf("行尾高层级在前时不应依附前一字符")
	}
}

func TestFromLevels(t *testing.T) {
	if got := FromLevels([]uint8{0, 0, 0}, []rune("abc"), LTR); got != AllLeftToRight {
		t.Fatalf("全 0 层级应折叠为 AllLeftToRight，实际 %v", got)
	}
	if got := FromLevels([]uint8{1, 1}, []rune("אב"), RTL); got != AllRightToLeft {
		t.Fatalf("RTL 段落全 1 层级应折叠为 AllRightToLeft，实际 %v", got)
	}
	if got := FromLevels(nil, nil, RTL); got != AllLeftToRight {
		t.Fatalf("空行应返回 AllLeftToRight")
	}

	text := []rune("abc אבג ")
	got := FromLevels([]uint8{0, 0, 0, 0, 1, 1, 1, 1}, text, LTR)
	want := []Run{{0, 4, 0}, {4, 3, 1}, {7, 1, 0}}
	if diff := cmp.Diff(want, runsOf(got)); diff != "" {
		t.Fatalf("末尾空白应拆成段落层级 run (-want +got):\n%s", diff)
	}

	// RTL paragraph: level-1 runs keep logical order from the right edge.
	got = FromLevels([]uint8{1, 1, 2, 2, 1}, []rune("אבcdג"), RTL)
	want = []Run{{0, 2, 1}, {2, 2, 2}, {4, 1, 1}}
	if diff := cmp.Diff(want, runsOf(got)); diff != "" {
		t.Fatalf("RTL 段落 run 顺序不符 (-want +got):\n%s", diff)
	}
}

// Only space, tab and line feed split off as a trailing paragraph-level run;
// an ideographic space keeps the level it resolved to.
func TestFromLevelsTrailingWhitespaceSet(t *testing.T) {
	levels := []uint8{0, 0, 1, 1, 1}
	cases := []struct {
		name string
		text string
		want []Run
	}{
		{"空格", "abאב ", []Run{{0, 2, 0}, {2, 2, 1}, {4, 1, 0}}},
		{"制表符", "abאב\t", []Run{{0, 2, 0}, {2, 2, 1}, {4, 1, 0}}},
		{"全角空格", "abאב\u3000", []Run{{0, 2, 0}, {2, 3, 1}}},
		{"不换行空格", "abאב\u00A0", []Run{{0, 2, 0}, {2, 3, 1}}},
	}
	for _, c := range cases {
		got := FromLevels(levels, []rune(c.text), LTR)
		if diff := cmp.Diff(c.want, runsOf(got)); diff != "" {
			t.Fatalf("%s: run 拆分不符 (-want +got):\n%s", c.name, diff)
		}
	}
}

func TestFromLevelsReordersNestedLevels(t *testing.T) {
	// LTR paragraph with an RTL run holding a nested LTR run: the level-1
	// span is reversed as a whole, then the level-2 run keeps its own order.
	got := FromLevels([]uint8{0, 1, 2, 2, 1, 0}, []rune("aBcdEf"), LTR)
	want := []Run{{0, 1, 0}, {4, 1, 1}, {2, 2, 2}, {1, 1, 1}, {5, 1, 0}}
	if diff := cmp.Diff(want, runsOf(got)); diff != "" {
		t.Fatalf("嵌套层级重排不符 (-want +got):\n%s", diff)
	}
}

func TestHeuristicResolve(t *testing.T) {
	cases := []struct {
		h    Heuristic
		text string
		want Dir
	}{
		{FirstStrongLTR, "123 abc", LTR},
		{FirstStrongLTR, "123 אבג abc", RTL},
		{FirstStrongLTR, "123", LTR},
		{FirstStrongRTL, "123", RTL},
		{AnyRTLLTR, "abc אבג", RTL},
		{ForceLTR, "אבג", LTR},
		{ForceRTL, "abc", RTL},
	}
	for _, c := range cases {
		if got := c.h.Resolve([]rune(c.text)); got != c.want {
			t.Fatalf("%v.Resolve(%q) 期望 %v，实际 %v", c.h, c.text, c.want, got)
		}
	}
	if h, err := ParseHeuristic("anyrtl-ltr"); err != nil || h != AnyRTLLTR {
		t.Fatalf("ParseHeuristic 失败: %v %v", h, err)
	}
	if _, err := ParseHeuristic("sideways"); err == nil {
		t.Fatalf("未知策略应报错")
	}
}

func TestAnalyze(t *testing.T) {
	levels, err := Analyze([]rune("plain\n"), LTR)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint8{0, 0, 0, 0, 0, 0}, levels); diff != "" {
		t.Fatalf("纯 LTR 文本层级不符 (-want +got):\n%s", diff)
	}

	levels, err = Analyze([]rune("אבג"), LTR)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint8{1, 1, 1}, levels); diff != "" {
		t.Fatalf("LTR 段落中的希伯来文应为层级 1 (-want +got):\n%s", diff)
	}

	levels, err = Analyze([]rune("abc אבג"), LTR)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range map[int]uint8{0: 0, 2: 0, 4: 1, 6: 1} {
		if levels[i] != want {
			t.Fatalf("levels[%d] 期望 %d，实际 %d (%v)", i, want, levels[i], levels)
		}
	}
	if !NeedsBidi([]rune("abc אבג")) || NeedsBidi([]rune("abc")) {
		t.Fatalf("NeedsBidi 判断错误")
	}
}

// visualOrder lays out text by the runs of t, reversing RTL runs.
func visualOrder(t *Table, text []rune) string {
	var out []rune
	for i := 0; i < t.Len(); i++ {
		r := t.Run(i)
		seg := text[r.Start:r.Limit()]
		if r.RTL() {
			for j := len(seg) - 1; j >= 0; j-- {
				out = append(out, seg[j])
			}
			continue
		}
		out = append(out, seg...)
	}
	return string(out)
}

func TestAnalyzeNumbersInsideRTL(t *testing.T) {
	text := []rune("abc אב 12 גד def")
	levels, err := Analyze(text, LTR)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint8{0, 0, 0, 0, 1, 1, 1, 2, 2, 1, 1, 1, 0, 0, 0, 0}
	if diff := cmp.Diff(want, levels); diff != "" {
		t.Fatalf("RTL 中的数字应为层级 2 (-want +got):\n%s", diff)
	}
	dirs := FromLevels(levels, text, LTR)
	wantRuns := []Run{{0, 4, 0}, {9, 3, 1}, {7, 2, 2}, {4, 3, 1}, {12, 4, 0}}
	if diff := cmp.Diff(wantRuns, runsOf(dirs)); diff != "" {
		t.Fatalf("run 表不符 (-want +got):\n%s", diff)
	}
	if got := visualOrder(dirs, text); got != "abc דג 12 בא def" {
		t.Fatalf("视觉顺序期望 %q，实际 %q", "abc דג 12 בא def", got)
	}
}

func TestAnalyzeNumberSeparators(t *testing.T) {
	cases := []struct {
		text string
		want []uint8
	}{
		{"אב 1.5 x", []uint8{1, 1, 1, 2, 2, 2, 0, 0}},
		{"א $12", []uint8{1, 1, 2, 2, 2}},
		{"abc 12 אב", []uint8{0, 0, 0, 0, 0, 0, 0, 1, 1}},
	}
	for _, c := range cases {
		levels, err := Analyze([]rune(c.text), LTR)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(c.want, levels); diff != "" {
			t.Fatalf("%q 层级不符 (-want +got):\n%s", c.text, diff)
		}
	}
}
