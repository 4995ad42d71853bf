package dsl

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ByLCY/paralayout/binding"
	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/layout"
	"github.com/ByLCY/paralayout/renderer"
	"github.com/ByLCY/paralayout/span"
	"github.com/ByLCY/paralayout/textline"
)

// DefaultFontSize 是未指定 size 时的字号（pt）。
const DefaultFontSize = 12.0

// Compiled is a document turned into layout input.
type Compiled struct {
	Text       *span.Text
	Options    layout.Options
	LineHeight layout.LineHeight
	Font       renderer.Font
	FontSize   float64
	Color      color.Color
	// Page 在文档未声明 page 时沿用 base。
	Page renderer.Page
	Meta renderer.Meta
	// Unresolved 列出正文中无法从数据解析的占位符路径。
	Unresolved []string
}

// LayoutOptions resolves the line height against the natural height of face.
func (c *Compiled) LayoutOptions(face textline.Face) layout.Options {
	opts := c.Options
	opts.SpacingMult, opts.SpacingAdd = c.LineHeight.Spacing(face.Metrics().Height())
	return opts
}

type paragraph struct {
	start, end int
	args       []*Lexeme
	pos        string
}

type replacement struct {
	start, end int
	width      float64
}

type compiler struct {
	data   any
	fonts  map[string]renderer.Font
	colors map[string]color.Color
	out    *Compiled
	runes  []rune
	repl   []replacement
}

// Defaults returns the settings a document starts from.
func Defaults() Compiled {
	return Compiled{
		LineHeight: layout.LineHeight{Kind: layout.LineHeightFactor, Factor: 1},
		FontSize:   DefaultFontSize,
		Color:      color.RGBA{R: 30, G: 30, B: 30, A: 255},
	}
}

// Compile converts doc into a styled text and layout options. ${path}
// placeholders in text literals are resolved against data.
func Compile(doc *Document, data any) (*Compiled, error) {
	return CompileWith(doc, data, Defaults())
}

// CompileWith is Compile starting from base instead of Defaults; settings
// in the document override it.
func CompileWith(doc *Document, data any, base Compiled) (*Compiled, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	base.Text = nil
	base.Unresolved = nil
	c := &compiler{
		data:   data,
		fonts:  map[string]renderer.Font{},
		colors: map[string]color.Color{},
		out:    &base,
	}

	// 资源先于其他段落解析，便于按名称引用
	for _, sec := range doc.Sections {
		if sec.Resources != nil {
			if err := c.resources(sec.Resources.Block); err != nil {
				return nil, err
			}
		}
	}

	var paras []paragraph
	for _, sec := range doc.Sections {
		var err error
		switch {
		case sec.Meta != nil:
			err = c.meta(sec.Meta.Block)
		case sec.Layout != nil:
			err = c.layout(sec.Layout.Block)
		case sec.Page != nil:
			err = c.page(sec.Page)
		case sec.Para != nil:
			if len(paras) > 0 {
				c.runes = append(c.runes, '\n')
			}
			p := paragraph{start: len(c.runes), args: sec.Para.Args, pos: sec.Para.Pos.String()}
			if err = c.content(sec.Para.Block); err == nil {
				p.end = len(c.runes)
				paras = append(paras, p)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("解析 %s 段失败: %w", sec.Kind(), err)
		}
	}

	text := span.FromRunes(c.runes)
	for i, p := range paras {
		end := p.end
		if i < len(paras)-1 {
			end++ // 段落样式覆盖结尾的换行符
		}
		if err := c.paragraphSpans(text, p.start, end, p.args); err != nil {
			return nil, fmt.Errorf("段落 %s: %w", p.pos, err)
		}
	}
	for _, r := range c.repl {
		if err := text.AddReplacement(r.start, r.end, r.width); err != nil {
			return nil, err
		}
	}
	c.out.Text = text
	return c.out, nil
}

func (c *compiler) meta(b *Block) error {
	m := &c.out.Meta
	for _, st := range b.Statements {
		a := st.Assignment
		if a == nil {
			return fmt.Errorf("meta 中只允许赋值语句")
		}
		switch strings.ToLower(a.Key) {
		case "title":
			m.Title = a.Value.Text()
		case "subject":
			m.Subject = a.Value.Text()
		case "author":
			m.Author = a.Value.Text()
		case "creator":
			m.Creator = a.Value.Text()
		case "keywords":
			if a.Value.Array == nil {
				m.Keywords = append(m.Keywords, a.Value.Text())
				continue
			}
			for _, v := range a.Value.Array.Values {
				m.Keywords = append(m.Keywords, v.Text())
			}
		default:
			return fmt.Errorf("未知的 meta 字段 %q", a.Key)
		}
	}
	return nil
}

// resources handles `font Name { src: ... style: ... }` and `color Name = #hex`.
func (c *compiler) resources(b *Block) error {
	for _, st := range b.Statements {
		cmd := st.Command
		if cmd == nil || len(cmd.Args) == 0 {
			return fmt.Errorf("resources 中的声明需要名称")
		}
		name := cmd.Args[0].Value
		switch cmd.Name {
		case "font":
			f := renderer.Font{Name: name}
			if cmd.Block != nil {
				for _, s := range cmd.Block.Statements {
					if s.Assignment == nil {
						continue
					}
					switch s.Assignment.Key {
					case "src":
						f.Src = s.Assignment.Value.Text()
					case "style":
						f.Style = s.Assignment.Value.Text()
					}
				}
			}
			c.fonts[name] = f
		case "color":
			col, err := parseColor(cmd.Args[len(cmd.Args)-1].Value)
			if err != nil {
				return err
			}
			c.colors[name] = col
		default:
			return fmt.Errorf("未知的资源类型 %q", cmd.Name)
		}
	}
	return nil
}

func (c *compiler) layout(b *Block) error {
	o := &c.out.Options
	for _, st := range b.Statements {
		a := st.Assignment
		if a == nil {
			return fmt.Errorf("layout 中只允许赋值语句")
		}
		v := a.Value.Text()
		var err error
		switch strings.ToLower(a.Key) {
		case "width":
			o.Width, err = points(v)
		case "size":
			c.out.FontSize, err = points(v)
		case "font":
			f, ok := c.fonts[v]
			if !ok {
				f = renderer.Font{Name: v, Src: "embed:" + v}
			}
			c.out.Font = f
		case "color":
			c.out.Color, err = c.color(v)
		case "align":
			o.Align, err = span.ParseAlignment(v)
		case "direction":
			o.Heuristic, err = direction.ParseHeuristic(v)
		case "spacing", "line-height":
			c.out.LineHeight, err = layout.ParseLineHeight(v)
		case "wrap":
			o.Wrap, err = layout.ParseWrap(v)
		case "max-lines":
			o.MaxLines, err = strconv.Atoi(v)
		case "ellipsize":
			o.Ellipsize, err = layout.ParseTruncateAt(v)
		case "ellipsized-width":
			o.EllipsizedWidth, err = points(v)
		case "hyphenate":
			o.Hyphenate, err = strconv.ParseBool(v)
		case "include-pad":
			o.IncludePad, err = strconv.ParseBool(v)
		default:
			return fmt.Errorf("未知的 layout 字段 %q", a.Key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", a.Key, err)
		}
	}
	return nil
}

func (c *compiler) page(p *PageSection) error {
	landscape := false
	var margin string
	for i := 0; i < len(p.Spec.Params); i++ {
		switch p.Spec.Params[i].Value {
		case "landscape":
			landscape = true
		case "portrait":
		case "margin":
			if i+1 < len(p.Spec.Params) {
				i++
				margin = p.Spec.Params[i].Value
			}
		}
	}
	page, err := renderer.ParsePageSize(p.Spec.Size, landscape)
	if err != nil {
		return err
	}
	page.Margin = c.out.Page.Margin
	if margin != "" {
		if page.Margin, err = points(margin); err != nil {
			return err
		}
	}
	c.out.Page = page
	return nil
}

// content appends the text of a para block. `replace <width> { "..." }`
// marks its text as a single object of that width.
func (c *compiler) content(b *Block) error {
	for _, st := range b.Statements {
		switch {
		case st.Text != nil:
			text, missing := binding.Interpolate(string(st.Text.Value), c.data)
			c.runes = append(c.runes, []rune(text)...)
			c.out.Unresolved = append(c.out.Unresolved, missing...)
		case st.Command != nil && st.Command.Name == "replace":
			cmd := st.Command
			if len(cmd.Args) != 1 || cmd.Block == nil {
				return fmt.Errorf("replace 需要一个宽度参数和内容块")
			}
			w, err := points(cmd.Args[0].Value)
			if err != nil {
				return err
			}
			start := len(c.runes)
			if err := c.content(cmd.Block); err != nil {
				return err
			}
			if len(c.runes) > start {
				c.repl = append(c.repl, replacement{start: start, end: len(c.runes), width: w})
			}
		case st.Command != nil:
			return fmt.Errorf("段落中不支持命令 %q", st.Command.Name)
		default:
			return fmt.Errorf("段落中不支持赋值 %q", st.Assignment.Key)
		}
	}
	return nil
}

// paragraphSpans applies `align`, `margin first [rest] [lines N]`,
// `stripe <color>`, `tabs ...` and `background <color>`.
func (c *compiler) paragraphSpans(text *span.Text, start, end int, args []*Lexeme) error {
	if start == end {
		return nil
	}
	var margin *span.LeadingMargin
	for i := 0; i < len(args); i++ {
		key := args[i].Value
		values := func() []string {
			var out []string
			for i+1 < len(args) && !isParaKeyword(args[i+1]) {
				i++
				out = append(out, args[i].Value)
			}
			return out
		}()
		var err error
		switch key {
		case "align":
			if len(values) != 1 {
				return fmt.Errorf("align 需要一个参数")
			}
			var a span.Alignment
			if a, err = span.ParseAlignment(values[0]); err == nil {
				err = text.SetAlignment(start, end, a)
			}
		case "margin":
			if len(values) == 0 || len(values) > 2 {
				return fmt.Errorf("margin 需要 1 到 2 个长度")
			}
			if margin == nil {
				margin = &span.LeadingMargin{}
			}
			if margin.First, err = points(values[0]); err == nil {
				margin.Rest = margin.First
				if len(values) == 2 {
					margin.Rest, err = points(values[1])
				}
			}
		case "lines":
			if margin == nil || len(values) != 1 {
				return fmt.Errorf("lines 需跟在 margin 之后且只有一个参数")
			}
			margin.Lines, err = strconv.Atoi(values[0])
		case "stripe":
			if margin == nil {
				margin = &span.LeadingMargin{}
			}
			if len(values) != 1 {
				return fmt.Errorf("stripe 需要一个颜色")
			}
			margin.Stripe, err = c.color(values[0])
		case "tabs":
			for _, v := range values {
				var pos float64
				if pos, err = points(v); err != nil {
					break
				}
				if err = text.AddTabStop(start, end, pos); err != nil {
					break
				}
			}
		case "background":
			if len(values) != 1 {
				return fmt.Errorf("background 需要一个颜色")
			}
			var col color.Color
			if col, err = c.color(values[0]); err == nil {
				err = text.AddLineBackground(start, end, span.LineBackground{Color: col})
			}
		default:
			return fmt.Errorf("未知的段落参数 %q", key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if margin != nil {
		return text.AddLeadingMargin(start, end, *margin)
	}
	return nil
}

func isParaKeyword(l *Lexeme) bool {
	if l.Type != "Ident" {
		return false
	}
	switch l.Value {
	case "align", "margin", "lines", "stripe", "tabs", "background":
		return true
	}
	return false
}

func (c *compiler) color(v string) (color.Color, error) {
	if col, ok := c.colors[v]; ok {
		return col, nil
	}
	return parseColor(v)
}

// points parses a length; a bare number is in points.
func points(v string) (float64, error) {
	l, err := layout.ParseLength(v)
	if err != nil {
		return 0, err
	}
	return l.Points(), nil
}

func parseColor(value string) (color.Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}
