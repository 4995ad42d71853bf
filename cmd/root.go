package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ByLCY/paralayout/config"
	"github.com/ByLCY/paralayout/logging"
	"github.com/ByLCY/paralayout/textline"
)

// app carries the state shared by every subcommand once the root has run.
type app struct {
	cfgFile  string
	logLevel string

	cfg  *config.Config
	log  *zap.Logger
	pool *textline.Pool
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{cfg: config.Default(), log: zap.NewNop(), pool: textline.NewPool(0)}
	root := &cobra.Command{
		Use:          "paralayout",
		Short:        "段落排版：换行、双向文本、光标与选区",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.Logger.Level = a.logLevel
			}
			a.cfg = cfg
			a.log = logging.NewWithWriter(cfg.Logger, zapcore.AddSync(cmd.ErrOrStderr()))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "配置文件路径（默认 ./paralayout.yaml）")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "覆盖配置中的日志级别")
	root.AddCommand(newRenderCmd(a), newInspectCmd(a), newCaretCmd(a))
	return root, a
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	root, _ := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
