package renderer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/paralayout/layout"
	"github.com/ByLCY/paralayout/span"
	"github.com/ByLCY/paralayout/textline"
)

func TestPaginate(t *testing.T) {
	face := textline.Monospace{Width: 10, Asc: 8, Desc: 2}
	l, err := layout.Build(span.New("a\nb\nc\nd\ne"), face, layout.Options{Width: 100})
	if err != nil {
		t.Fatal(err)
	}
	want := []PageRange{{0, 1}, {2, 3}, {4, 4}}
	if diff := cmp.Diff(want, Paginate(l, 25)); diff != "" {
		t.Fatalf("分页结果不符 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]PageRange{{0, 4}}, Paginate(l, 0)); diff != "" {
		t.Fatalf("高度为 0 时应只有一页 (-want +got):\n%s", diff)
	}
	// 单行高于页面时仍然独占一页
	if got := Paginate(l, 5); len(got) != 5 {
		t.Fatalf("每行应各占一页，实际 %d 页", len(got))
	}
}

func TestParsePageSize(t *testing.T) {
	p, err := ParsePageSize("A4", false)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.Width-595.2756) > 1e-3 || math.Abs(p.Height-841.8898) > 1e-3 {
		t.Fatalf("A4 尺寸不符: %+v", p)
	}
	p, _ = ParsePageSize("letter", true)
	if p.Width != 792 || p.Height != 612 {
		t.Fatalf("横向 letter 应交换宽高: %+v", p)
	}
	if _, err := ParsePageSize("b7", false); err == nil {
		t.Fatalf("未知纸张应报错")
	}
	p.Margin = 36
	if p.ContentWidth() != 720 || p.ContentHeight() != 540 {
		t.Fatalf("内容区尺寸不符: %g x %g", p.ContentWidth(), p.ContentHeight())
	}
}
