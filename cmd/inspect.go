package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		flags  docFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "输出每行的几何信息（JSON 或 YAML）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(args[0], flags)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), format, doc.layout.Snapshot())
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.mono, "mono", false, "使用等宽度量代替真实字体")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "输出格式：json 或 yaml")
	return cmd
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("未知的输出格式 %q", format)
	}
}
