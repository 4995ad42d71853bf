package layout

import (
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/span"
	"github.com/ByLCY/paralayout/textline"
)

// mono advances 10pt per rune; every line is 10pt tall with the baseline 8pt
// below its top.
var mono = textline.Monospace{Width: 10, Asc: 8, Desc: 2}

func build(t *testing.T, s string, opts Options) *Layout {
	t.Helper()
	return buildText(t, span.New(s), opts)
}

func buildText(t *testing.T, text *span.Text, opts Options) *Layout {
	t.Helper()
	l, err := Build(text, mono, opts)
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	return l
}

func lineRanges(l *Layout) [][2]int {
	out := make([][2]int, l.LineCount())
	for i := range out {
		out[i] = [2]int{l.LineStart(i), l.LineEnd(i)}
	}
	return out
}

func TestBuildWrapsAtSpaces(t *testing.T) {
	l := build(t, "hello world", Options{Width: 120})
	if l.LineCount() != 1 || l.LineEnd(0) != 11 {
		t.Fatalf("宽度足够时应只有一行，实际 %v", lineRanges(l))
	}

	l = build(t, "hello world", Options{Width: 80})
	want := [][2]int{{0, 6}, {6, 11}}
	if diff := cmp.Diff(want, lineRanges(l)); diff != "" {
		t.Fatalf("折行位置不符 (-want +got):\n%s", diff)
	}
	if got := l.LineVisibleEnd(0); got != 5 {
		t.Fatalf("行尾空格不可见，期望 5，实际 %d", got)
	}
	if got := l.Height(); got != 20 {
		t.Fatalf("两行高度期望 20，实际 %g", got)
	}
	if got := l.LineBaseline(1); got != 18 {
		t.Fatalf("第二行基线期望 18，实际 %g", got)
	}
	if got := l.LineAscent(0); got != -8 {
		t.Fatalf("行 ascent 期望 -8，实际 %g", got)
	}
}

func TestBuildHardBreaks(t *testing.T) {
	l := build(t, "ab\ncd\n", Options{Width: 100})
	want := [][2]int{{0, 3}, {3, 6}, {6, 6}}
	if diff := cmp.Diff(want, lineRanges(l)); diff != "" {
		t.Fatalf("换行符处应断行，末尾换行追加空行 (-want +got):\n%s", diff)
	}
	if got := l.LineVisibleEnd(0); got != 2 {
		t.Fatalf("换行符不可见，期望 2，实际 %d", got)
	}

	empty := build(t, "", Options{Width: 100})
	if empty.LineCount() != 1 || empty.LineEnd(0) != 0 || empty.Height() != 10 {
		t.Fatalf("空文本应得到一个空行，实际 %v 高度 %g", lineRanges(empty), empty.Height())
	}
}

func TestBuildSplitsLongWords(t *testing.T) {
	l := build(t, "abcdefghij", Options{Width: 40, Hyphenate: true})
	want := [][2]int{{0, 4}, {4, 8}, {8, 10}}
	if diff := cmp.Diff(want, lineRanges(l)); diff != "" {
		t.Fatalf("超长单词拆分不符 (-want +got):\n%s", diff)
	}
	for line, hyphen := range []bool{true, true, false} {
		if l.Hyphen(line) != hyphen {
			t.Fatalf("第 %d 行连字符期望 %v", line, hyphen)
		}
	}

	l = build(t, "abcdefghij", Options{Width: 40, Wrap: WrapNone})
	if l.LineCount() != 1 {
		t.Fatalf("nowrap 只应在换行符处断行，实际 %v", lineRanges(l))
	}
}

func TestBuildCharWrapIgnoresSpaces(t *testing.T) {
	l := build(t, "ab cdef", Options{Width: 40, Wrap: WrapChar})
	want := [][2]int{{0, 4}, {4, 7}}
	if diff := cmp.Diff(want, lineRanges(l)); diff != "" {
		t.Fatalf("char 折行不符 (-want +got):\n%s", diff)
	}
}

func TestBuildSpacing(t *testing.T) {
	l := build(t, "a\nb", Options{Width: 100, SpacingMult: 1.5, SpacingAdd: 1})
	// extra = 10*(1.5-1)+1 below every line but the last.
	if got := l.LineTop(1); got != 16 {
		t.Fatalf("第二行顶部期望 16，实际 %g", got)
	}
	if got := l.LineDescent(0); got != 8 {
		t.Fatalf("首行 descent 应包含额外间距，期望 8，实际 %g", got)
	}
	if got := l.Height(); got != 26 {
		t.Fatalf("末行不加间距，总高度期望 26，实际 %g", got)
	}
}

type leadedFace struct{ textline.Monospace }

func (f leadedFace) Metrics() textline.Metrics {
	return textline.Metrics{Ascent: f.Asc, Descent: f.Desc, Leading: 4}
}

func TestBuildIncludePad(t *testing.T) {
	lines, err := BuildLines(span.New("a\nb"), leadedFace{mono}, Options{Width: 100, IncludePad: true})
	if err != nil {
		t.Fatal(err)
	}
	if lines.TopPadding() != 2 || lines.BottomPadding() != 2 {
		t.Fatalf("上下留白期望 2/2，实际 %g/%g", lines.TopPadding(), lines.BottomPadding())
	}
	if got := lines.LineTop(2); got != 24 {
		t.Fatalf("含留白总高度期望 24，实际 %g", got)
	}
}

func TestWidthContract(t *testing.T) {
	if _, err := Build(span.New("x"), mono, Options{Width: -1}); !errors.Is(err, ErrNegativeWidth) {
		t.Fatalf("负宽度应返回 ErrNegativeWidth，实际 %v", err)
	}
	l := build(t, "abcd", Options{Width: 40})
	if err := l.IncreaseWidthTo(50); err != nil {
		t.Fatalf("加宽不应报错: %v", err)
	}
	if err := l.IncreaseWidthTo(30); !errors.Is(err, ErrWidthShrink) {
		t.Fatalf("缩窄应返回 ErrWidthShrink，实际 %v", err)
	}
	if l.Width() != 50 {
		t.Fatalf("缩窄失败后宽度应保持 50，实际 %g", l.Width())
	}
}

func TestLineForVerticalAndOffset(t *testing.T) {
	l := build(t, "ab\ncd\nef", Options{Width: 100})
	cases := []struct {
		y    float64
		want int
	}{{-5, 0}, {0, 0}, {9.9, 0}, {10, 1}, {25, 2}, {500, 2}}
	for _, c := range cases {
		if got := l.LineForVertical(c.y); got != c.want {
			t.Fatalf("LineForVertical(%g) 期望 %d，实际 %d", c.y, c.want, got)
		}
	}
	for off, want := range map[int]int{-3: 0, 0: 0, 2: 0, 3: 1, 8: 2, 40: 2} {
		if got := l.LineForOffset(off); got != want {
			t.Fatalf("LineForOffset(%d) 期望 %d，实际 %d", off, want, got)
		}
	}
	r, baseline := l.LineBounds(1)
	if r != (Rect{Left: 0, Top: 10, Right: 100, Bottom: 20}) || baseline != 18 {
		t.Fatalf("LineBounds(1) 不符: %+v %g", r, baseline)
	}
}

func TestLineIndexRoundTrip(t *testing.T) {
	l := build(t, "hello world again\nsecond para here\n\nlast one", Options{Width: 60, SpacingMult: 1.5})
	if l.LineCount() < 6 {
		t.Fatalf("期望折成至少 6 行，实际 %v", lineRanges(l))
	}
	for k := 0; k < l.LineCount(); k++ {
		if k > 0 {
			if l.LineStart(k) <= l.LineStart(k-1) {
				t.Fatalf("LineStart 应严格递增: 第 %d 行 %d，第 %d 行 %d", k-1, l.LineStart(k-1), k, l.LineStart(k))
			}
			if l.LineTop(k) <= l.LineTop(k-1) {
				t.Fatalf("LineTop 应严格递增: 第 %d 行 %g，第 %d 行 %g", k-1, l.LineTop(k-1), k, l.LineTop(k))
			}
		}
		if got := l.LineForOffset(l.LineStart(k)); got != k {
			t.Fatalf("LineForOffset(LineStart(%d)) 期望 %d，实际 %d", k, k, got)
		}
		if got := l.LineForVertical(l.LineTop(k)); got != k {
			t.Fatalf("LineForVertical(LineTop(%d)) 期望 %d，实际 %d", k, k, got)
		}
	}
	if got := l.LineStart(l.LineCount()); got != len([]rune("hello world again\nsecond para here\n\nlast one")) {
		t.Fatalf("末尾哨兵行起点应为文本长度，实际 %d", got)
	}
}

// 行尾的各类空白分隔符都可以悬挂在行宽之外，但 FIGURE SPACE 必须可见。
func TestLineVisibleEndHangsSeparators(t *testing.T) {
	for _, c := range []struct {
		name string
		sep  rune
		want int
	}{
		{"空格", ' ', 3},
		{"全角空格", '\u3000', 3},
		{"EN QUAD", '\u2000', 3},
		{"FIGURE SPACE", '\u2007', 4},
	} {
		text := "abc" + string(c.sep) + "def"
		l := build(t, text, Options{Width: 40, Wrap: WrapChar})
		if l.LineCount() != 2 || l.LineStart(1) != 4 {
			t.Fatalf("%s: 期望分隔符留在第一行，实际 %v", c.name, lineRanges(l))
		}
		if got := l.LineVisibleEnd(0); got != c.want {
			t.Fatalf("%s: LineVisibleEnd(0) 期望 %d，实际 %d", c.name, c.want, got)
		}
	}
}

func TestPoolLinesReturned(t *testing.T) {
	pool := textline.NewPool(textline.DefaultPoolSize)
	l := build(t, "abcdefghij", Options{Width: 40, Hyphenate: true, Pool: pool})
	if !l.Hyphen(0) {
		t.Fatalf("拆开的单词行尾应带连字符")
	}

	// 绘制连字符时行内已有一条 Line 在用，因此最多同时借出两条。
	l.Draw(fullClip(), nil, nil, 0)
	if got := pool.Idle(); got != 2 {
		t.Fatalf("Draw 之后空闲数期望 2，实际 %d", got)
	}
	if l.SelectionPath(1, 9).Empty() {
		t.Fatalf("选区不应为空")
	}
	if got := l.OffsetForHorizontal(1, 12, true); got != 5 {
		t.Fatalf("OffsetForHorizontal 期望 5，实际 %d", got)
	}
	_ = l.PrimaryHorizontal(6, false)
	_ = l.OffsetToLeftOf(6)
	if got := pool.Idle(); got < 2 {
		t.Fatalf("查询之后所有 Line 都应归还，空闲数期望至少 2，实际 %d", got)
	}

	if l := build(t, "abc", Options{Width: 100}); l.pool == nil {
		t.Fatalf("未注入 Pool 时 Build 应自建默认池")
	}
}

func TestAlignmentPlacement(t *testing.T) {
	cases := []struct {
		align       span.Alignment
		left, right float64
	}{
		{span.AlignNormal, 0, 30},
		{span.AlignCenter, 35, 65},
		{span.AlignOpposite, 70, 100},
		{span.AlignRight, 70, 100},
	}
	for _, c := range cases {
		l := build(t, "abc", Options{Width: 100, Align: c.align})
		if got := l.PrimaryHorizontal(0, false); got != c.left {
			t.Fatalf("%v: 行首光标期望 %g，实际 %g", c.align, c.left, got)
		}
		if l.LineLeft(0) != c.left || l.LineRight(0) != c.right {
			t.Fatalf("%v: 行范围期望 [%g,%g]，实际 [%g,%g]", c.align, c.left, c.right, l.LineLeft(0), l.LineRight(0))
		}
	}
}

// The leading margin counts on the left of LTR paragraphs and on the right of
// RTL ones; the opposite edge stays at 0 or the full width.
func TestParagraphMarginSides(t *testing.T) {
	ltr := span.New("abc")
	if err := ltr.AddLeadingMargin(0, 3, span.LeadingMargin{First: 10, Rest: 10}); err != nil {
		t.Fatal(err)
	}
	l := buildText(t, ltr, Options{Width: 100})
	if l.ParagraphLeft(0) != 10 || l.ParagraphRight(0) != 100 {
		t.Fatalf("LTR 段落边界期望 [10,100]，实际 [%g,%g]", l.ParagraphLeft(0), l.ParagraphRight(0))
	}
	if got := l.PrimaryHorizontal(0, false); got != 10 {
		t.Fatalf("LTR 行首光标应跳过页边距，期望 10，实际 %g", got)
	}
	if got := l.LineMax(0); got != 40 {
		t.Fatalf("LineMax 应含页边距，期望 40，实际 %g", got)
	}

	rtl := span.New("אבג")
	if err := rtl.AddLeadingMargin(0, 3, span.LeadingMargin{First: 10, Rest: 10}); err != nil {
		t.Fatal(err)
	}
	l = buildText(t, rtl, Options{Width: 100})
	if l.ParagraphDirection(0) != direction.RTL {
		t.Fatalf("希伯来文段落应为 RTL")
	}
	if l.ParagraphLeft(0) != 0 || l.ParagraphRight(0) != 90 {
		t.Fatalf("RTL 段落边界期望 [0,90]，实际 [%g,%g]", l.ParagraphLeft(0), l.ParagraphRight(0))
	}
	if got := l.PrimaryHorizontal(0, false); got != 90 {
		t.Fatalf("RTL 行首光标期望 90，实际 %g", got)
	}
}

func TestParagraphAlignmentSpan(t *testing.T) {
	text := span.New("ab\ncd")
	if err := text.SetAlignment(3, 5, span.AlignCenter); err != nil {
		t.Fatal(err)
	}
	l := buildText(t, text, Options{Width: 100})
	if got := l.ParagraphAlignment(0); got != span.AlignNormal {
		t.Fatalf("首段应沿用默认对齐，实际 %v", got)
	}
	if got := l.ParagraphAlignment(1); got != span.AlignCenter {
		t.Fatalf("第二段应居中，实际 %v", got)
	}
	if got := l.PrimaryHorizontal(3, false); got != 40 {
		t.Fatalf("居中行首期望 40，实际 %g", got)
	}
}

func TestTabsUseParagraphStops(t *testing.T) {
	text := span.New("a\tb")
	if err := text.AddTabStop(0, 3, 45); err != nil {
		t.Fatal(err)
	}
	l := buildText(t, text, Options{Width: 100})
	if !l.LineContainsTab(0) {
		t.Fatalf("应检测到制表符")
	}
	if got := l.PrimaryHorizontal(2, false); got != 45 {
		t.Fatalf("制表符后应对齐到 45，实际 %g", got)
	}
	if got := l.LineMax(0); got != 55 {
		t.Fatalf("含制表符的行宽期望 55，实际 %g", got)
	}
}

func TestDesiredWidth(t *testing.T) {
	text := span.New("ab\nabcd")
	got, err := DesiredWidth(text.Runes(), nil, mono)
	if err != nil || got != 40 {
		t.Fatalf("DesiredWidth 期望 40，实际 %g (%v)", got, err)
	}
	if err := text.AddLeadingMargin(3, 7, span.LeadingMargin{First: 5}); err != nil {
		t.Fatal(err)
	}
	if got, _ = DesiredWidth(text.Runes(), text, mono); got != 45 {
		t.Fatalf("首行页边距应计入，期望 45，实际 %g", got)
	}
}

// indentedLines shifts every line right by 7 on top of the built geometry.
type indentedLines struct{ *StaticLines }

func (indentedLines) IndentAdjust(int, span.Alignment) float64 { return 7 }

func TestCustomLines(t *testing.T) {
	text := span.New("abc")
	lines, err := BuildLines(text, mono, Options{Width: 100})
	if err != nil {
		t.Fatal(err)
	}
	l, err := New(indentedLines{lines}, text.Runes(), nil, mono, Options{Width: 100})
	if err != nil {
		t.Fatal(err)
	}
	if got := l.PrimaryHorizontal(1, false); got != 17 {
		t.Fatalf("IndentAdjust 应叠加到光标位置，期望 17，实际 %g", got)
	}
	if l.Hyphen(0) {
		t.Fatalf("未拆词的行不应有连字符")
	}
	if _, err := New(nil, nil, nil, mono, Options{}); err == nil {
		t.Fatalf("lines 为空应报错")
	}
}

func TestSnapshot(t *testing.T) {
	l := build(t, "hello world", Options{Width: 80, Debug: DebugOptions{Text: true}})
	s := l.Snapshot()
	if len(s.Lines) != 2 || s.Height != 20 {
		t.Fatalf("快照行数或高度不符: %+v", s)
	}
	if s.Lines[0].Text != "hello" || s.Lines[1].Text != "world" {
		t.Fatalf("快照文本不符: %q %q", s.Lines[0].Text, s.Lines[1].Text)
	}
	if s.Lines[0].Direction != "ltr" || s.Lines[0].Runs != "Table(all-ltr)" {
		t.Fatalf("快照方向不符: %+v", s.Lines[0])
	}
	if s2 := build(t, "x", Options{Width: 80}).Snapshot(); s2.Lines[0].Text != "" {
		t.Fatalf("未开启 Debug.Text 时不应输出文本")
	}
}

var red = color.RGBA{R: 255, A: 255}

func TestParseWrap(t *testing.T) {
	for in, want := range map[string]WrapMode{
		"":                      WrapWord,
		"word":                  WrapWord,
		"anywhere":              WrapWord,
		"Char":                  WrapChar,
		"break-word":            WrapChar,
		"word-break:break-word": WrapChar,
		" none ":                WrapNone,
		"nowrap":                WrapNone,
		"no-wrap":               WrapNone,
	} {
		got, err := ParseWrap(in)
		if err != nil || got != want {
			t.Fatalf("ParseWrap(%q) 期望 %v，实际 %v (%v)", in, want, got, err)
		}
	}
	for _, in := range []string{"hyphen", "words", "break-all"} {
		if _, err := ParseWrap(in); err == nil {
			t.Fatalf("ParseWrap(%q) 未知取值应报错", in)
		}
	}
	if diff := cmp.Diff([]string{"word", "char", "none"}, []string{WrapWord.String(), WrapChar.String(), WrapNone.String()}); diff != "" {
		t.Fatalf("WrapMode 名称不符 (-want +got):\n%s", diff)
	}
}
