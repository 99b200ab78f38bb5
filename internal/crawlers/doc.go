// Package crawlers 提供页面渲染引擎实现
//
// # 概述
//
// crawlers包实现 models.Engine 接口的两种渲染引擎,以及批量开始前的资源检查。
//
// # 核心组件
//
// ## RodEngine
//
// 基于go-rod的无头浏览器引擎。一个实例对应一个浏览器进程,
// 每次 Open 创建独立标签页,导航后等待 DOMContentLoaded,不设超时。
//
//	engine, err := LaunchRodEngine(models.BrowserConfig{Headless: true})
//	if err != nil { /* 处理错误 */ }
//	defer engine.Close()
//
//	page, err := engine.Open(ctx, "https://dysonlogos.blog/...")
//	if err != nil { /* 处理错误 */ }
//	defer page.Close()
//
//	title, _ := page.Title()
//	srcs, _ := page.ImageSources("img.size-full")
//
// ## StaticEngine
//
// 基于Colly的静态抓取引擎,使用goquery查询DOM,不执行页面脚本。
// 支持 br / deflate 响应解压(gzip由Colly处理)。
//
// ## ResourceMonitor
//
// 使用gopsutil采样可用内存和CPU负载,估算并发标签页是否超出系统承载能力。
// 仅用于告警,不限制并发。
package crawlers
