package core

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/RecoveryAshes/FetchDyson/internal/models"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	// 空值视为未设置
	t.Setenv(EnvSaveDir, "")

	config, err := LoadConfig(writeConfigFile(t, "progress: true\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Output.BaseDir != DefaultBaseDir() {
		t.Errorf("BaseDir = %q, want %q", config.Output.BaseDir, DefaultBaseDir())
	}
	if config.Output.DirPrefix != DefaultDirPrefix {
		t.Errorf("DirPrefix = %q", config.Output.DirPrefix)
	}
	if config.Assets.Selector != DefaultAssetSelector {
		t.Errorf("Selector = %q", config.Assets.Selector)
	}
	if !reflect.DeepEqual(config.Assets.Exclude, DefaultExcludeMarkers) {
		t.Errorf("Exclude = %v", config.Assets.Exclude)
	}
	if config.Browser.Mode != string(models.ModeDynamic) || !config.Browser.Headless {
		t.Errorf("Browser = %+v", config.Browser)
	}
	if config.Browser.UserAgent != DefaultUserAgent {
		t.Errorf("Browser.UserAgent = %q", config.Browser.UserAgent)
	}
	if config.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q", config.Logging.Level)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("默认配置 Validate() error = %v", err)
	}
}

func TestLoadConfig_EnvSaveDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvSaveDir, dir)

	config, err := LoadConfig(writeConfigFile(t, "progress: false\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Output.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", config.Output.BaseDir, dir)
	}
	if config.Progress {
		t.Error("Progress 应为 false")
	}
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv(EnvSaveDir, "")
	path := writeConfigFile(t, `
output:
  base_dir: /srv/maps
  dir_prefix: "dyson - "
assets:
  exclude:
    - banner
    - logo
browser:
  mode: static
  headless: false
download:
  user_agent: test-agent
logging:
  level: debug
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Output.BaseDir != "/srv/maps" || config.Output.DirPrefix != "dyson - " {
		t.Errorf("Output = %+v", config.Output)
	}
	if !reflect.DeepEqual(config.Assets.Exclude, []string{"banner", "logo"}) {
		t.Errorf("Exclude = %v", config.Assets.Exclude)
	}
	if config.Assets.Selector != DefaultAssetSelector {
		t.Errorf("未设置的 Selector 应使用默认值, got %q", config.Assets.Selector)
	}
	if config.Browser.Mode != "static" || config.Browser.Headless {
		t.Errorf("Browser = %+v", config.Browser)
	}
	if config.Browser.UserAgent != "test-agent" {
		t.Errorf("Browser.UserAgent = %q", config.Browser.UserAgent)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", config.Logging.Level)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	if _, err := LoadConfig(writeConfigFile(t, "output: [unclosed\n")); err == nil {
		t.Error("配置文件格式错误时应返回错误")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Output:  OutputConfig{BaseDir: "/tmp/maps"},
			Assets:  AssetsConfig{Selector: DefaultAssetSelector},
			Browser: models.BrowserConfig{Mode: "dynamic"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"有效配置", func(*Config) {}, false},
		{"无效渲染模式", func(c *Config) { c.Browser.Mode = "all" }, true},
		{"空选择器", func(c *Config) { c.Assets.Selector = "  " }, true},
		{"空输出目录", func(c *Config) { c.Output.BaseDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ResolveBaseDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("无法获取用户主目录")
	}

	c := &Config{Output: OutputConfig{BaseDir: "~/maps"}}
	got, err := c.ResolveBaseDir()
	if err != nil {
		t.Fatalf("ResolveBaseDir() error = %v", err)
	}
	if got != filepath.Join(home, "maps") {
		t.Errorf("ResolveBaseDir() = %q", got)
	}

	c.Output.BaseDir = "relative/maps"
	got, err = c.ResolveBaseDir()
	if err != nil {
		t.Fatalf("ResolveBaseDir() error = %v", err)
	}
	if !filepath.IsAbs(got) || !strings.HasSuffix(got, filepath.Join("relative", "maps")) {
		t.Errorf("ResolveBaseDir() = %q", got)
	}
}

func TestConfig_MergeCLIFlags(t *testing.T) {
	c := &Config{
		Output:  OutputConfig{BaseDir: "/from/config"},
		Browser: models.BrowserConfig{Mode: "dynamic", Bin: "/usr/bin/chromium"},
		Logging: LoggingConfig{Level: "info"},
	}

	c.MergeCLIFlags("", "static", "", "debug")

	if c.Output.BaseDir != "/from/config" {
		t.Errorf("空参数不应覆盖 BaseDir, got %q", c.Output.BaseDir)
	}
	if c.Browser.Mode != "static" || c.Browser.Bin != "/usr/bin/chromium" {
		t.Errorf("Browser = %+v", c.Browser)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", c.Logging.Level)
	}
}
