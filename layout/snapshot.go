package layout

import (
	"encoding/json"
	"os"
)

// LineSnapshot is the geometry of one line.
type LineSnapshot struct {
	Index         int     `json:"index" yaml:"index"`
	Start         int     `json:"start" yaml:"start"`
	End           int     `json:"end" yaml:"end"`
	Top           float64 `json:"top" yaml:"top"`
	Bottom        float64 `json:"bottom" yaml:"bottom"`
	Baseline      float64 `json:"baseline" yaml:"baseline"`
	Left          float64 `json:"left" yaml:"left"`
	Right         float64 `json:"right" yaml:"right"`
	Direction     string  `json:"direction" yaml:"direction"`
	Runs          string  `json:"runs" yaml:"runs"`
	Tab           bool    `json:"tab,omitempty" yaml:"tab,omitempty"`
	Hyphen        bool    `json:"hyphen,omitempty" yaml:"hyphen,omitempty"`
	EllipsisStart int     `json:"ellipsisStart,omitempty" yaml:"ellipsisStart,omitempty"`
	EllipsisCount int     `json:"ellipsisCount,omitempty" yaml:"ellipsisCount,omitempty"`
	Text          string  `json:"text,omitempty" yaml:"text,omitempty"`
}

// Snapshot 是布局结果的可序列化视图，便于调试或可视化。
type Snapshot struct {
	Width         float64        `json:"width" yaml:"width"`
	Height        float64        `json:"height" yaml:"height"`
	TopPadding    float64        `json:"topPadding,omitempty" yaml:"topPadding,omitempty"`
	BottomPadding float64        `json:"bottomPadding,omitempty" yaml:"bottomPadding,omitempty"`
	Lines         []LineSnapshot `json:"lines" yaml:"lines"`
}

// Snapshot captures every line. Line text is included when Debug.Text is set.
func (l *Layout) Snapshot() Snapshot {
	s := Snapshot{
		Width:         l.width,
		Height:        l.Height(),
		TopPadding:    l.TopPadding(),
		BottomPadding: l.BottomPadding(),
		Lines:         make([]LineSnapshot, l.LineCount()),
	}
	for i := range s.Lines {
		start, end := l.LineStart(i), l.LineEnd(i)
		ls := LineSnapshot{
			Index:         i,
			Start:         start,
			End:           end,
			Top:           l.LineTop(i),
			Bottom:        l.LineBottom(i),
			Baseline:      l.LineBaseline(i),
			Left:          l.LineLeft(i),
			Right:         l.LineRight(i),
			Direction:     l.ParagraphDirection(i).String(),
			Runs:          l.LineDirections(i).String(),
			Tab:           l.LineContainsTab(i),
			Hyphen:        l.Hyphen(i),
			EllipsisStart: l.EllipsisStart(i),
			EllipsisCount: l.EllipsisCount(i),
		}
		if l.debug.Text {
			ls.Text = string(l.display[start:l.lineVisibleEnd(i, start, end)])
		}
		s.Lines[i] = ls
	}
	return s
}

// WriteSnapshotJSON 将布局快照输出为 JSON 文件。
func WriteSnapshotJSON(s Snapshot, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
