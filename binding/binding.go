package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]*)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 无法解析的占位符原样保留，其路径按出现顺序返回。
func Interpolate(text string, data any) (string, []string) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if val, ok := Resolve(data, path); ok {
			return format(val)
		}
		missing = append(missing, path)
		return match
	})
	return out, missing
}

// Resolve 按 a.b[0].c 形式的路径在解码后的 JSON 中取值。
func Resolve(data any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, isArr := current.([]any)
			if !isArr || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// parseSegment splits "name[1][2]" into its key and indexes.
func parseSegment(segment string) (string, []int, bool) {
	name, rest, _ := strings.Cut(segment, "[")
	if rest == "" {
		return name, nil, name != ""
	}
	var indexes []int
	rest = "[" + rest
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(strings.TrimSpace(rest[1:end]))
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

// format 输出排版用的文本：整数值的浮点数不带小数，nil 为空串。
func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
