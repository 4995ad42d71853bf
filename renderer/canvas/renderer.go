package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/zap"

	"github.com/ByLCY/paralayout/fonts"
	"github.com/ByLCY/paralayout/layout"
	"github.com/ByLCY/paralayout/renderer"
	"github.com/ByLCY/paralayout/textline"
)

// Renderer measures and draws layouts via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	log     *zap.Logger

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer   = (*Renderer)(nil)
	_ renderer.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
	Color   color.Color         // text colour, defaults to near-black
	Logger  *zap.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		log:          opts.Logger,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败留到真正使用时报错
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Face implements renderer.Typesetter. size is in points.
func (r *Renderer) Face(font renderer.Font, size float64) (textline.Face, error) {
	return r.face(font, size, canvas.Hex("#1e1e1e"))
}

// FaceWithColor is Face with an explicit text colour.
func (r *Renderer) FaceWithColor(font renderer.Font, size float64, col color.Color) (*Face, error) {
	return r.face(font, size, col)
}

func (r *Renderer) face(font renderer.Font, size float64, col color.Color) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("字号必须为正数，实际 %g", size)
	}
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return &Face{face: family.Face(size, col, style, canvas.FontNormal)}, nil
}

// Render renders the layout into a PDF byte slice, splitting it into pages
// at line boundaries.
func (r *Renderer) Render(job renderer.Job) ([]byte, error) {
	l := job.Layout
	if l == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	face, ok := l.Face().(*Face)
	if !ok {
		return nil, fmt.Errorf("布局使用的字体 %T 不是 canvas 字体", l.Face())
	}
	page := job.Page
	if page.Width <= 0 || page.Height <= 0 || page.ContentHeight() <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g (margin %g)", page.Width, page.Height, page.Margin)
	}

	var buf bytes.Buffer
	w, h := toMm(page.Width), toMm(page.Height)
	writer := pdf.New(&buf, w, h, nil)
	applyMeta(writer, job.Meta)
	for i, pr := range renderer.Paginate(l, page.ContentHeight()) {
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		top := l.LineTop(pr.First)
		s := &surface{
			ctx:  ctx,
			face: face.face,
			dx:   page.Margin,
			dy:   page.Margin - top,
			clip: layout.Rect{Top: top, Right: max(l.Width(), page.ContentWidth()), Bottom: l.LineBottom(pr.Last)},
		}
		l.DrawBackground(s, job.Highlight, job.HighlightColor, 0, pr.First, pr.Last)
		l.DrawText(s, pr.First, pr.Last)
		c.RenderTo(writer)
		r.log.Debug("[render] page", zap.Int("page", i), zap.Int("first", pr.First), zap.Int("last", pr.Last))
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta renderer.Meta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) ensureFontFamily(font renderer.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.log.Warn("字体加载失败，使用内置字体", zap.String("src", font.Src), zap.Error(err))
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font renderer.Font, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font renderer.Font) ([]byte, error) {
	src := font.Src
	if src == "" {
		return fonts.Load(fonts.Default)
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path, err := homedir.Expand(src)
	if err != nil {
		return nil, fmt.Errorf("无法展开字体路径 %s: %w", src, err)
	}
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("paralayout-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font renderer.Font) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
