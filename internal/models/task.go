package models

import (
	"fmt"
	"time"
)

// PageState 页面处理状态
type PageState string

const (
	PageStateRendering   PageState = "rendering"   // 渲染中
	PageStateTitled      PageState = "titled"      // 已提取标题
	PageStateProvisioned PageState = "provisioned" // 已创建目录
	PageStateShortcut    PageState = "shortcut"    // 已写入快捷方式
	PageStateExtracted   PageState = "extracted"   // 已提取图片
	PageStateDownloading PageState = "downloading" // 下载中
	PageStateCompleted   PageState = "completed"   // 已完成
	PageStateSkipped     PageState = "skipped"     // 目录已存在,跳过
	PageStateFailed      PageState = "failed"      // 失败
)

// IsTerminal 是否为终止状态
func (s PageState) IsTerminal() bool {
	return s == PageStateCompleted || s == PageStateSkipped || s == PageStateFailed
}

// RenderMode 渲染模式
type RenderMode string

const (
	ModeDynamic RenderMode = "dynamic" // go-rod 无头浏览器
	ModeStatic  RenderMode = "static"  // colly 静态抓取
)

// ParseRenderMode 解析渲染模式
func ParseRenderMode(s string) (RenderMode, error) {
	switch RenderMode(s) {
	case ModeDynamic, ModeStatic:
		return RenderMode(s), nil
	default:
		return "", fmt.Errorf("无效的渲染模式: %s (有效值: dynamic, static)", s)
	}
}

// BrowserConfig 渲染引擎配置
type BrowserConfig struct {
	Mode      string `mapstructure:"mode" json:"mode"`             // dynamic | static
	Headless  bool   `mapstructure:"headless" json:"headless"`     // 无头模式 (默认:true)
	Bin       string `mapstructure:"bin" json:"bin"`               // 浏览器可执行文件路径,为空时自动下载
	NoSandbox bool   `mapstructure:"no_sandbox" json:"no_sandbox"` // 容器内运行时需要
	UserAgent string `mapstructure:"-" json:"user_agent"`          // 静态模式使用,与下载共用
}

// PageResult 单个页面的处理结果,仅用于日志和摘要
type PageResult struct {
	ID       string         `json:"id"`
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	Dir      string         `json:"dir,omitempty"` // 跳过时为空
	State    PageState      `json:"state"`
	Assets   []AssetOutcome `json:"assets"`
	Err      error          `json:"-"`
	Duration time.Duration  `json:"duration"`
}

// DownloadedCount 成功下载的图片数
func (r PageResult) DownloadedCount() int {
	n := 0
	for _, a := range r.Assets {
		if a.Err == nil {
			n++
		}
	}
	return n
}

// FailedCount 下载失败的图片数
func (r PageResult) FailedCount() int {
	return len(r.Assets) - r.DownloadedCount()
}
