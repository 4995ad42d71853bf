package layout

import (
	"go.uber.org/zap"

	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/span"
	"github.com/ByLCY/paralayout/textline"
)

// Options 配置一次排版所需的参数与依赖。
type Options struct {
	Width     float64
	Align     span.Alignment
	Heuristic direction.Heuristic
	// SpacingMult 为 0 时按 1 处理。
	SpacingMult float64
	SpacingAdd  float64

	// 以下字段只影响 Build。
	Wrap       WrapMode
	IncludePad bool
	// MaxLines 为 0 表示不限行数。
	MaxLines        int
	Ellipsize       TruncateAt
	EllipsizedWidth float64
	// Hyphenate 在单词被强制拆开的行尾绘制连字符。
	Hyphenate bool

	// Pool 复用 TextLine；为空时 Build 自建一个默认大小的池。
	Pool   *textline.Pool
	Logger *zap.Logger
	Debug  DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Text bool // 在快照中输出每行文本
}

func (o Options) spacingMult() float64 {
	if o.SpacingMult == 0 {
		return 1
	}
	return o.SpacingMult
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
