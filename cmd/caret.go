package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/paralayout/layout"
)

// caretReport is the result of a hit test.
type caretReport struct {
	Line      int             `json:"line" yaml:"line"`
	Offset    int             `json:"offset" yaml:"offset"`
	Primary   float64         `json:"primary" yaml:"primary"`
	Secondary float64         `json:"secondary" yaml:"secondary"`
	RTL       bool            `json:"rtl" yaml:"rtl"`
	RunStart  int             `json:"runStart" yaml:"runStart"`
	RunEnd    int             `json:"runEnd" yaml:"runEnd"`
	Left      int             `json:"left" yaml:"left"`
	Right     int             `json:"right" yaml:"right"`
	Cursor    []layout.PathOp `json:"cursor" yaml:"cursor"`
	Selection []layout.Rect   `json:"selection,omitempty" yaml:"selection,omitempty"`
}

func newCaretCmd(a *app) *cobra.Command {
	var (
		flags     docFlags
		x, y      float64
		format    string
		selection string
	)
	cmd := &cobra.Command{
		Use:   "caret <document>",
		Short: "按坐标命中测试光标位置",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(args[0], flags)
			if err != nil {
				return err
			}
			l := doc.layout
			line := l.LineForVertical(y)
			offset := l.OffsetForHorizontal(line, x, true)
			rep := caretReport{
				Line:      line,
				Offset:    offset,
				Primary:   l.PrimaryHorizontal(offset, false),
				Secondary: l.SecondaryHorizontal(offset, false),
				Left:      l.OffsetToLeftOf(offset),
				Right:     l.OffsetToRightOf(offset),
				Cursor:    l.CursorPath(offset).Ops(),
			}
			if offset < len(l.Text()) {
				rep.RTL = l.IsRtlCharAt(offset)
				rep.RunStart, rep.RunEnd = l.RunRange(offset)
			}
			if selection != "" {
				start, end, err := parseRange(selection)
				if err != nil {
					return err
				}
				if err := checkRange(start, end, len(l.Text())); err != nil {
					return err
				}
				rep.Selection = l.SelectionPath(start, end).Rects()
			}
			return encode(cmd.OutOrStdout(), format, rep)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.mono, "mono", false, "使用等宽度量代替真实字体")
	cmd.Flags().Float64Var(&x, "x", 0, "横坐标（pt）")
	cmd.Flags().Float64Var(&y, "y", 0, "纵坐标（pt）")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "输出格式：json 或 yaml")
	cmd.Flags().StringVar(&selection, "select", "", "同时输出选区矩形，格式 start:end")
	return cmd
}
