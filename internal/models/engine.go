package models

import "context"

// Engine 渲染引擎实例,可派生互相独立的页面上下文
// 由批量运行器持有,所有页面流水线共享
type Engine interface {
	// Open 打开新的页面上下文并导航到url,等待DOMContentLoaded
	Open(ctx context.Context, url string) (Page, error)
	// Close 关闭引擎实例
	Close() error
}

// Page 一个已渲染的页面上下文,由单个流水线独占
type Page interface {
	// Title 页面标题
	Title() (string, error)
	// ImageSources 返回匹配selector的img元素的src(绝对URL),保持文档顺序
	ImageSources(selector string) ([]string, error)
	// Close 释放页面上下文
	Close() error
}
