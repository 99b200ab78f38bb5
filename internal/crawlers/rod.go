package crawlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/RecoveryAshes/FetchDyson/internal/models"
	"github.com/RecoveryAshes/FetchDyson/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// imageSourcesJS 按文档顺序返回匹配selector的img元素src
const imageSourcesJS = `(selector) => Array.from(document.querySelectorAll(selector), img => img.src)`

// RodEngine 基于go-rod的无头浏览器引擎
// 一个实例对应一个浏览器进程,可并发派生多个标签页
type RodEngine struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// LaunchRodEngine 启动浏览器并建立连接
func LaunchRodEngine(config models.BrowserConfig) (*RodEngine, error) {
	l := launcher.New().
		Headless(config.Headless).
		NoSandbox(config.NoSandbox)

	if config.Bin != "" {
		l = l.Bin(config.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}

	utils.Debugf("浏览器已启动: %s", controlURL)
	return &RodEngine{launcher: l, browser: browser}, nil
}

// Open 打开新标签页并导航到目标URL,等待DOMContentLoaded
// 不设置超时,阻塞直到页面就绪或ctx取消
func (e *RodEngine) Open(ctx context.Context, targetURL string) (models.Page, error) {
	page, err := e.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("创建标签页失败(浏览器可能已崩溃): %w", err)
	}

	bound := page.Context(ctx)
	wait := bound.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)

	if err := bound.Navigate(targetURL); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("导航失败: %w", err)
	}
	wait()

	if err := ctx.Err(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("等待页面加载被取消: %w", err)
	}

	return &rodPage{page: page, bound: bound}, nil
}

// Close 关闭浏览器并清理用户数据目录
func (e *RodEngine) Close() error {
	err := e.browser.Close()
	if err != nil {
		e.launcher.Kill()
	}
	e.launcher.Cleanup()
	utils.Debugf("浏览器已关闭")
	return err
}

// rodPage 一个已加载的浏览器标签页
type rodPage struct {
	page  *rod.Page // 用于关闭,不受ctx取消影响
	bound *rod.Page
}

func (p *rodPage) Title() (string, error) {
	info, err := p.bound.Info()
	if err != nil {
		return "", fmt.Errorf("获取页面标题失败: %w", err)
	}
	return info.Title, nil
}

func (p *rodPage) ImageSources(selector string) ([]string, error) {
	res, err := p.bound.Eval(imageSourcesJS, selector)
	if err != nil {
		return nil, fmt.Errorf("执行图片查询失败: %w", err)
	}

	srcs := make([]string, 0)
	for _, item := range res.Value.Arr() {
		if src := item.Str(); src != "" {
			srcs = append(srcs, src)
		}
	}
	return srcs, nil
}

func (p *rodPage) Close() error {
	if err := p.page.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("关闭标签页失败: %w", err)
	}
	return nil
}
