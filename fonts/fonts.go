package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10oblique"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// Default 是未指定字体时使用的内置字体名。
const Default = "roman"

var builtin = map[string][]byte{
	"roman":            lmroman10regular.TTF,
	"roman-bold":       lmroman10bold.TTF,
	"roman-italic":     lmroman10italic.TTF,
	"roman-bolditalic": lmroman10bolditalic.TTF,
	"sans":             lmsans10regular.TTF,
	"sans-bold":        lmsans10bold.TTF,
	"sans-italic":      lmsans10oblique.TTF,
	"mono":             lmmono10regular.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:sans-bold" 或直接 "sans-bold"。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "embed:")))
	if key == "" {
		key = Default
	}
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 可选值为 %s", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names lists the built-in font names in sorted order.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
