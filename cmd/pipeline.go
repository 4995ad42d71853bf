package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/paralayout/dsl"
	"github.com/ByLCY/paralayout/layout"
	canvasrenderer "github.com/ByLCY/paralayout/renderer/canvas"
	"github.com/ByLCY/paralayout/textline"
)

// docFlags are the flags of the document-reading subcommands. mono is
// registered only where a PDF is not produced.
type docFlags struct {
	data string
	mono bool
	text bool
}

func (f *docFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.data, "data", "", "绑定到文档的 JSON 数据")
	cmd.Flags().BoolVar(&f.text, "text", false, "在快照中输出每行文本")
}

// document is a parsed, compiled and laid-out input file.
type document struct {
	compiled *dsl.Compiled
	layout   *layout.Layout
	renderer *canvasrenderer.Renderer
}

// load 串联解析、编译与排版。
func (a *app) load(path string, f docFlags) (*document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开文档 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(path, file)
	if err != nil {
		return nil, fmt.Errorf("解析文档失败: %w", err)
	}
	var data any
	if f.data != "" {
		if err := json.Unmarshal([]byte(f.data), &data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}
	base, err := a.cfg.Base()
	if err != nil {
		return nil, err
	}
	compiled, err := dsl.CompileWith(doc, data, base)
	if err != nil {
		return nil, fmt.Errorf("编译文档失败: %w", err)
	}
	for _, path := range compiled.Unresolved {
		a.log.Warn("占位符未绑定数据", zap.String("path", path))
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: filepath.Dir(path), Logger: a.log})
	var face textline.Face
	if f.mono {
		size := compiled.FontSize
		face = textline.Monospace{Width: size * 3 / 5, Asc: size * 4 / 5, Desc: size / 5}
	} else if face, err = r.FaceWithColor(compiled.Font, compiled.FontSize, compiled.Color); err != nil {
		return nil, err
	}

	opts := compiled.LayoutOptions(face)
	if opts.Width == 0 && opts.Wrap != layout.WrapNone {
		opts.Width = max(compiled.Page.ContentWidth(), 0)
	}
	opts.Logger = a.log
	opts.Pool = a.pool
	opts.Debug.Text = f.text
	l, err := layout.Build(compiled.Text, face, opts)
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	a.log.Debug("文档已排版", zap.String("path", path), zap.Int("lines", l.LineCount()), zap.Float64("height", l.Height()))
	return &document{compiled: compiled, layout: l, renderer: r}, nil
}

// parseRange parses "start:end" rune offsets.
func parseRange(v string) (start, end int, err error) {
	a, b, ok := strings.Cut(v, ":")
	if !ok {
		return 0, 0, fmt.Errorf("选区格式应为 start:end，实际 %q", v)
	}
	if start, err = strconv.Atoi(strings.TrimSpace(a)); err != nil {
		return 0, 0, fmt.Errorf("选区起点无效: %w", err)
	}
	if end, err = strconv.Atoi(strings.TrimSpace(b)); err != nil {
		return 0, 0, fmt.Errorf("选区终点无效: %w", err)
	}
	return start, end, nil
}

// checkRange rejects offsets outside [0, n].
func checkRange(start, end, n int) error {
	if start < 0 || end < 0 || start > n || end > n {
		return fmt.Errorf("选区 %d:%d 超出文本长度 %d", start, end, n)
	}
	return nil
}
