package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/FetchDyson/internal/models"
	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	// AppName 应用名,用于配置和日志目录
	AppName = "fetchdyson"

	// EnvSaveDir 输出根目录环境变量
	EnvSaveDir = "FETCH_DYSON_SAVE_DIR"

	// DefaultDirPrefix 页面目录名前缀
	DefaultDirPrefix = "maps - dyson logos - "

	// DefaultAssetSelector 全尺寸图片选择器
	DefaultAssetSelector = "img.size-full"

	// DefaultUserAgent 默认User-Agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
)

// DefaultExcludeMarkers 需要排除的横幅图片标记
var DefaultExcludeMarkers = []string{"patreon-supported-banner"}

// Config 应用程序配置
type Config struct {
	Output   OutputConfig         `mapstructure:"output"`
	Assets   AssetsConfig         `mapstructure:"assets"`
	Browser  models.BrowserConfig `mapstructure:"browser"`
	Download DownloadConfig       `mapstructure:"download"`
	Logging  LoggingConfig        `mapstructure:"logging"`
	Progress bool                 `mapstructure:"progress"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	BaseDir   string `mapstructure:"base_dir"`
	DirPrefix string `mapstructure:"dir_prefix"`
}

// AssetsConfig 图片提取配置
type AssetsConfig struct {
	Selector string   `mapstructure:"selector"`
	Exclude  []string `mapstructure:"exclude"`
}

// DownloadConfig 下载配置
type DownloadConfig struct {
	UserAgent string `mapstructure:"user_agent"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// LoadConfig 加载配置文件
// configPath 为空时依次搜索 ./configs, . 和 $XDG_CONFIG_HOME/fetchdyson 下的 config.yaml,
// 找不到配置文件时使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))
	}

	setDefaults(v)

	if err := v.BindEnv("output.base_dir", EnvSaveDir); err != nil {
		return nil, fmt.Errorf("绑定环境变量失败: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	config.Browser.UserAgent = config.Download.UserAgent

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("output.base_dir", DefaultBaseDir())
	v.SetDefault("output.dir_prefix", DefaultDirPrefix)

	v.SetDefault("assets.selector", DefaultAssetSelector)
	v.SetDefault("assets.exclude", DefaultExcludeMarkers)

	v.SetDefault("browser.mode", string(models.ModeDynamic))
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.no_sandbox", false)

	v.SetDefault("download.user_agent", DefaultUserAgent)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", filepath.Join(xdg.StateHome, AppName, "logs"))
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	v.SetDefault("progress", true)
}

// DefaultBaseDir 默认输出根目录
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "~"
	}
	return filepath.Join(home, "OneDrive", "Role-Playing Games", "adventures & campaigns & dungeons")
}

// Validate 验证配置
func (c *Config) Validate() error {
	if _, err := models.ParseRenderMode(c.Browser.Mode); err != nil {
		return err
	}
	if strings.TrimSpace(c.Assets.Selector) == "" {
		return fmt.Errorf("图片选择器不能为空")
	}
	if strings.TrimSpace(c.Output.BaseDir) == "" {
		return fmt.Errorf("输出目录不能为空")
	}
	return nil
}

// ResolveBaseDir 将输出根目录解析为绝对路径,支持 ~/ 前缀
func (c *Config) ResolveBaseDir() (string, error) {
	dir := c.Output.BaseDir
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("无法解析用户主目录: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("解析输出目录失败: %w", err)
	}
	return abs, nil
}

// MergeCLIFlags 合并命令行参数到配置,空值不覆盖
func (c *Config) MergeCLIFlags(outputDir string, mode string, browserBin string, logLevel string) {
	if outputDir != "" {
		c.Output.BaseDir = outputDir
	}
	if mode != "" {
		c.Browser.Mode = mode
	}
	if browserBin != "" {
		c.Browser.Bin = browserBin
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
}
