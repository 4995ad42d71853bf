package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"

	"github.com/ByLCY/paralayout/layout"
	"github.com/ByLCY/paralayout/span"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paralayout.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Logger.Level != "info" || cfg.Layout.Font != "roman" || cfg.Page.Size != "a4" {
		t.Fatalf("默认配置不符: %+v", cfg)
	}
	base, err := cfg.Base()
	if err != nil {
		t.Fatal(err)
	}
	if base.Options.Width != 0 || base.FontSize != 12 || base.LineHeight.Factor != 1.2 {
		t.Fatalf("默认排版参数不符: %+v", base)
	}
	if math.Abs(base.Page.Margin-18*layout.MmToPt) > 1e-9 {
		t.Fatalf("默认页边距期望 18mm，实际 %gpt", base.Page.Margin)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
  log_file: ~/logs/paralayout.log
layout:
  width: 2in
  align: center
  max_lines: 2
  ellipsize: end
page:
  size: letter
  landscape: true
`)
	t.Setenv("PARALAYOUT_LAYOUT_FONT_SIZE", "9pt")
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 出错: %v", err)
	}
	if cfg.Logger.Level != "debug" {
		t.Fatalf("日志级别期望 debug，实际 %s", cfg.Logger.Level)
	}
	if want := filepath.Join(home, "logs", "paralayout.log"); cfg.Logger.LogFile != want {
		t.Fatalf("log_file 应展开 ~，期望 %s，实际 %s", want, cfg.Logger.LogFile)
	}
	base, err := cfg.Base()
	if err != nil {
		t.Fatal(err)
	}
	if base.Options.Width != 144 || base.Options.Align != span.AlignCenter {
		t.Fatalf("文件中的排版参数未生效: %+v", base.Options)
	}
	if base.Options.MaxLines != 2 || base.Options.Ellipsize != layout.TruncateEnd {
		t.Fatalf("截断参数不符: %+v", base.Options)
	}
	if base.FontSize != 9 {
		t.Fatalf("环境变量应覆盖字号，实际 %g", base.FontSize)
	}
	if base.Page.Width != 792 {
		t.Fatalf("横向 letter 宽度期望 792，实际 %g", base.Page.Width)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("显式指定的配置文件不存在时应报错")
	}
	if _, err := Load(writeConfig(t, "layout:\n  align: sideways\n")); err == nil {
		t.Fatalf("无效的对齐方式应报错")
	}
	if _, err := Load(writeConfig(t, "page:\n  margin: 3px\n")); err == nil {
		t.Fatalf("无效的长度单位应报错")
	}
}
