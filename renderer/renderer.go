package renderer

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ByLCY/paralayout/layout"
	"github.com/ByLCY/paralayout/textline"
)

// Font 描述一个字体资源。Src 支持 "embed:<name>"、"built-in:<name>" 或文件路径。
type Font struct {
	Name  string
	Src   string
	Style string
}

// Page 是输出页面的尺寸，单位均为 pt。
type Page struct {
	Width  float64
	Height float64
	Margin float64
}

// ContentWidth returns the width left between the margins.
func (p Page) ContentWidth() float64 { return p.Width - 2*p.Margin }

// ContentHeight returns the height left between the margins.
func (p Page) ContentHeight() float64 { return p.Height - 2*p.Margin }

// Meta 是写入输出文件的文档信息。
type Meta struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords []string
}

// Job 是一次渲染任务：一个已排版的 Layout 加上页面与可选的高亮。
type Job struct {
	Layout         *layout.Layout
	Page           Page
	Meta           Meta
	Highlight      *layout.Path
	HighlightColor color.Color
}

// Typesetter 为排版提供度量上下文，size 以 pt 为单位。
type Typesetter interface {
	Face(font Font, size float64) (textline.Face, error)
}

// Renderer 将布局结果输出为最终文件，例如 PDF 或图像。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(job Job) ([]byte, error)
}

var pageSizes = map[string][2]float64{
	"a4":     {210 * layout.MmToPt, 297 * layout.MmToPt},
	"a5":     {148 * layout.MmToPt, 210 * layout.MmToPt},
	"letter": {612, 792},
	"legal":  {612, 1008},
}

// ParsePageSize 解析纸张名称（a4/a5/letter/legal），landscape 为 true 时交换宽高。
func ParsePageSize(name string, landscape bool) (Page, error) {
	size, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Page{}, fmt.Errorf("未知的纸张尺寸 %q", name)
	}
	if landscape {
		size[0], size[1] = size[1], size[0]
	}
	return Page{Width: size[0], Height: size[1]}, nil
}

// PageRange is an inclusive range of lines placed on one page.
type PageRange struct {
	First, Last int
}

// Paginate splits the lines of l into pages no taller than height. Every
// page holds at least one line; a height of 0 or less puts everything on a
// single page.
func Paginate(l *layout.Layout, height float64) []PageRange {
	n := l.LineCount()
	if height <= 0 {
		return []PageRange{{First: 0, Last: n - 1}}
	}
	var out []PageRange
	for first := 0; first < n; {
		top := l.LineTop(first)
		last := first
		for last+1 < n && l.LineBottom(last+1)-top <= height {
			last++
		}
		out = append(out, PageRange{First: first, Last: last})
		first = last + 1
	}
	return out
}
