package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tdewolff/canvas"
	"go.uber.org/zap"

	"github.com/ByLCY/paralayout/layout"
	"github.com/ByLCY/paralayout/renderer"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		flags     docFlags
		output    string
		debugPath string
		selection string
	)
	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "排版文档并输出 PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(args[0], flags)
			if err != nil {
				return err
			}
			if debugPath != "" {
				if err := writeDebug(doc.layout, debugPath); err != nil {
					return err
				}
			}

			job := renderer.Job{Layout: doc.layout, Page: doc.compiled.Page, Meta: doc.compiled.Meta}
			if selection != "" {
				start, end, err := parseRange(selection)
				if err != nil {
					return err
				}
				if err := checkRange(start, end, len(doc.layout.Text())); err != nil {
					return err
				}
				job.Highlight = doc.layout.SelectionPath(start, end)
				job.HighlightColor = canvas.Hex("#ffe06680")
			}
			var r renderer.Renderer = doc.renderer
			pdfBytes, err := r.Render(job)
			if err != nil {
				return fmt.Errorf("渲染 PDF 失败: %w", err)
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("创建输出目录失败: %w", err)
			}
			if err := os.WriteFile(output, pdfBytes, 0o644); err != nil {
				return fmt.Errorf("写入 PDF 文件失败: %w", err)
			}
			a.log.Info("已生成 PDF", zap.String("path", output), zap.Int("bytes", len(pdfBytes)))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "out", "o", "output.pdf", "PDF 输出路径")
	cmd.Flags().StringVar(&debugPath, "debug", "", "布局快照 JSON 输出路径")
	cmd.Flags().StringVar(&selection, "select", "", "高亮选区，格式 start:end")
	return cmd
}

func writeDebug(l *layout.Layout, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteSnapshotJSON(l.Snapshot(), debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
