package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/dsl"
	"github.com/ByLCY/paralayout/layout"
	"github.com/ByLCY/paralayout/renderer"
	"github.com/ByLCY/paralayout/span"
)

// EnvPrefix 是环境变量前缀，例如 PARALAYOUT_LAYOUT_WIDTH。
const EnvPrefix = "PARALAYOUT"

// Config is the full CLI configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Layout LayoutConfig `mapstructure:"layout" yaml:"layout"`
	Page   PageConfig   `mapstructure:"page" yaml:"page"`
}

// LoggerConfig configures the zap logger and its optional rotating file.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// LayoutConfig holds the defaults a document starts from. Lengths use the
// document syntax ("120mm", "12pt"); an empty width follows the page.
type LayoutConfig struct {
	Width      string `mapstructure:"width" yaml:"width"`
	Font       string `mapstructure:"font" yaml:"font"`
	FontSize   string `mapstructure:"font_size" yaml:"font_size"`
	LineHeight string `mapstructure:"line_height" yaml:"line_height"`
	Align      string `mapstructure:"align" yaml:"align"`
	Direction  string `mapstructure:"direction" yaml:"direction"`
	Wrap       string `mapstructure:"wrap" yaml:"wrap"`
	MaxLines   int    `mapstructure:"max_lines" yaml:"max_lines"`
	Ellipsize  string `mapstructure:"ellipsize" yaml:"ellipsize"`
	Hyphenate  bool   `mapstructure:"hyphenate" yaml:"hyphenate"`
	IncludePad bool   `mapstructure:"include_pad" yaml:"include_pad"`
}

// PageConfig is the default output page.
type PageConfig struct {
	Size      string `mapstructure:"size" yaml:"size"`
	Landscape bool   `mapstructure:"landscape" yaml:"landscape"`
	Margin    string `mapstructure:"margin" yaml:"margin"`
}

// SetDefaults initializes default values for every key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", false)

	// -- Layout --
	v.SetDefault("layout.width", "")
	v.SetDefault("layout.font", "roman")
	v.SetDefault("layout.font_size", "12pt")
	v.SetDefault("layout.line_height", "1.2")
	v.SetDefault("layout.align", "normal")
	v.SetDefault("layout.direction", "firststrong-ltr")
	v.SetDefault("layout.wrap", "word")
	v.SetDefault("layout.max_lines", 0)
	v.SetDefault("layout.ellipsize", "none")
	v.SetDefault("layout.hyphenate", false)
	v.SetDefault("layout.include_pad", false)

	// -- Page --
	v.SetDefault("page.size", "a4")
	v.SetDefault("page.landscape", false)
	v.SetDefault("page.margin", "18mm")
}

// Default returns the configuration built from defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("解析默认配置失败: %v", err))
	}
	return &cfg
}

// Load reads path, or paralayout.yaml from the working directory when path
// is empty, and applies PARALAYOUT_* environment overrides. A missing
// default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("paralayout")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 只有默认位置的配置文件允许缺失
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	// log_file 允许写成 ~/...
	logFile, err := homedir.Expand(cfg.Logger.LogFile)
	if err != nil {
		return nil, fmt.Errorf("logger.log_file: %w", err)
	}
	cfg.Logger.LogFile = logFile
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}
	return &cfg, nil
}

// Validate checks every field that has a fixed syntax.
func (c *Config) Validate() error {
	if _, err := c.Base(); err != nil {
		return err
	}
	if c.Layout.MaxLines < 0 {
		return fmt.Errorf("layout.max_lines 不能为负数")
	}
	return nil
}

// Base converts the layout and page sections into the settings documents
// start from.
func (c *Config) Base() (dsl.Compiled, error) {
	base := dsl.Defaults()
	l := c.Layout
	var err error
	if base.Options.Width, err = points(l.Width); err != nil {
		return base, fmt.Errorf("layout.width: %w", err)
	}
	if l.FontSize != "" {
		if base.FontSize, err = points(l.FontSize); err != nil {
			return base, fmt.Errorf("layout.font_size: %w", err)
		}
	}
	if base.LineHeight, err = layout.ParseLineHeight(l.LineHeight); err != nil {
		return base, fmt.Errorf("layout.line_height: %w", err)
	}
	if base.Options.Align, err = span.ParseAlignment(l.Align); err != nil {
		return base, fmt.Errorf("layout.align: %w", err)
	}
	if base.Options.Heuristic, err = direction.ParseHeuristic(l.Direction); err != nil {
		return base, fmt.Errorf("layout.direction: %w", err)
	}
	if base.Options.Ellipsize, err = layout.ParseTruncateAt(l.Ellipsize); err != nil {
		return base, fmt.Errorf("layout.ellipsize: %w", err)
	}
	if base.Options.Wrap, err = layout.ParseWrap(l.Wrap); err != nil {
		return base, fmt.Errorf("layout.wrap: %w", err)
	}
	base.Options.MaxLines = l.MaxLines
	base.Options.Hyphenate = l.Hyphenate
	base.Options.IncludePad = l.IncludePad
	if l.Font != "" {
		base.Font = renderer.Font{Name: l.Font, Src: "embed:" + l.Font}
	}

	if base.Page, err = renderer.ParsePageSize(c.Page.Size, c.Page.Landscape); err != nil {
		return base, fmt.Errorf("page.size: %w", err)
	}
	if base.Page.Margin, err = points(c.Page.Margin); err != nil {
		return base, fmt.Errorf("page.margin: %w", err)
	}
	return base, nil
}

func points(v string) (float64, error) {
	l, err := layout.ParseLength(v)
	if err != nil {
		return 0, err
	}
	return l.Points(), nil
}
