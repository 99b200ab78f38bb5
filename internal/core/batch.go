package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/RecoveryAshes/FetchDyson/internal/crawlers"
	"github.com/RecoveryAshes/FetchDyson/internal/models"
	"github.com/RecoveryAshes/FetchDyson/internal/utils"
	"github.com/sourcegraph/conc"
)

// ErrBatchFailed 批量运行中出现未被页面流水线收敛的panic
var ErrBatchFailed = errors.New("批量处理失败")

// EngineFactory 创建一个渲染引擎实例
type EngineFactory func() (models.Engine, error)

// NewEngineFactory 根据渲染模式返回引擎工厂
// dynamic 启动无头浏览器,static 使用Colly直接抓取HTML
func NewEngineFactory(config models.BrowserConfig, client *http.Client) (EngineFactory, error) {
	mode, err := models.ParseRenderMode(config.Mode)
	if err != nil {
		return nil, err
	}

	switch mode {
	case models.ModeStatic:
		return func() (models.Engine, error) {
			return crawlers.NewStaticEngine(config, client), nil
		}, nil
	default:
		return func() (models.Engine, error) {
			return crawlers.LaunchRodEngine(config)
		}, nil
	}
}

// WithEngine 创建引擎并在fn返回后关闭
// fn 正常返回、出错或panic时引擎都会被关闭
func WithEngine(factory EngineFactory, fn func(models.Engine) error) error {
	engine, err := factory()
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			utils.Warnf("关闭渲染引擎失败: %v", err)
		}
	}()

	return fn(engine)
}

// BatchRunner 批量运行器
// 所有URL的流水线同时启动,共享同一个渲染引擎,全部结束后返回
type BatchRunner struct {
	pipeline    *PagePipeline
	monitor     *crawlers.ResourceMonitor
	progressOut io.Writer
}

// NewBatchRunner 创建批量运行器
func NewBatchRunner(pipeline *PagePipeline) *BatchRunner {
	return &BatchRunner{pipeline: pipeline}
}

// SetResourceMonitor 设置运行前的资源检查,nil表示不检查
func (br *BatchRunner) SetResourceMonitor(monitor *crawlers.ResourceMonitor) {
	br.monitor = monitor
}

// SetProgressWriter 设置进度条输出,nil表示不显示进度条
func (br *BatchRunner) SetProgressWriter(w io.Writer) {
	br.progressOut = w
}

// Run 并发处理所有URL
// 单个页面的失败只体现在其结果中;返回的error仅表示批量运行本身出现异常
func (br *BatchRunner) Run(ctx context.Context, urls []string) (utils.BatchSummary, error) {
	startTime := time.Now()
	utils.Infof("🚀 开始批量处理: %d个URL", len(urls))

	if br.monitor != nil {
		if ok, reason := br.monitor.CheckCapacity(len(urls)); !ok {
			utils.Warnf("⚠️  %s,页面仍将同时打开", reason)
		}
	}

	results := make([]models.PageResult, len(urls))
	for i, u := range urls {
		results[i] = models.PageResult{
			URL:   u,
			State: models.PageStateFailed,
			Err:   fmt.Errorf("%w: 页面未处理", ErrPipelineFailed),
		}
	}

	var bar interface{ Add(int) error }
	if br.progressOut != nil && len(urls) > 0 {
		bar = utils.NewProgressBar(len(urls), "处理页面", br.progressOut)
	}

	var wg conc.WaitGroup
	for i, u := range urls {
		i, u := i, u
		wg.Go(func() {
			results[i] = br.pipeline.Run(ctx, u)
			if bar != nil {
				_ = bar.Add(1)
			}
		})
	}

	var runErr error
	if recovered := wg.WaitAndRecover(); recovered != nil {
		runErr = fmt.Errorf("%w: %w", ErrBatchFailed, recovered.AsError())
	}

	summary := utils.Summarize(results, time.Since(startTime))
	return summary, runErr
}
