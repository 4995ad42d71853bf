package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ByLCY/paralayout/config"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))
	log.Info("hidden")
	log.Warn("shown", zap.Int("line", 3))

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Fatalf("warn 级别不应输出 info 日志: %s", out)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("JSON 日志解析失败: %v (%s)", err, out)
	}
	if entry["msg"] != "shown" || entry["level"] != "WARN" || entry["line"] != float64(3) {
		t.Fatalf("日志字段不符: %+v", entry)
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LoggerConfig{Level: "loud", Format: "console"}, zapcore.AddSync(&buf))
	log.Debug("debug")
	log.Info("info")
	if out := buf.String(); strings.Contains(out, "debug") || !strings.Contains(out, "info") {
		t.Fatalf("无效级别应回落到 info: %q", out)
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paralayout.log")
	var console bytes.Buffer
	log := NewWithWriter(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&console))
	log.Info("to file")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"to file"`) {
		t.Fatalf("日志文件应为 JSON: %s", data)
	}
}
