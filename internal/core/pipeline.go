package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RecoveryAshes/FetchDyson/internal/models"
	"github.com/RecoveryAshes/FetchDyson/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrPipelineFailed 页面处理过程中的非预期错误
var ErrPipelineFailed = errors.New("页面处理失败")

// PagePipeline 单个页面的处理流程:
// 渲染 -> 规范化标题 -> 创建目录 -> 写快捷方式 -> 提取图片 -> 并发下载
//
// 各步骤严格按顺序执行;不同页面的流水线互不影响。
type PagePipeline struct {
	engine      models.Engine
	provisioner *DirectoryProvisioner
	downloader  *Downloader
	assets      AssetsConfig
}

// NewPagePipeline 创建页面流水线
func NewPagePipeline(engine models.Engine, provisioner *DirectoryProvisioner, downloader *Downloader, assets AssetsConfig) *PagePipeline {
	return &PagePipeline{
		engine:      engine,
		provisioner: provisioner,
		downloader:  downloader,
		assets:      assets,
	}
}

// Run 处理一个页面,所有错误和panic都在此处收敛为结果状态
func (p *PagePipeline) Run(ctx context.Context, targetURL string) (result models.PageResult) {
	result = models.NewPageResult(targetURL)
	logger := utils.PageLogger(result.ID, targetURL)
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result.State = models.PageStateFailed
			result.Err = fmt.Errorf("%w: panic: %v", ErrPipelineFailed, r)
		}
		result.Duration = time.Since(startTime)

		if result.State == models.PageStateFailed {
			logger.Error().Err(result.Err).Msg("❌ 页面处理失败")
		}
	}()

	if err := models.ValidateURL(targetURL); err != nil {
		result.State = models.PageStateFailed
		result.Err = fmt.Errorf("%w: %w", ErrPipelineFailed, err)
		return result
	}

	if err := p.process(ctx, &result, logger); err != nil {
		result.State = models.PageStateFailed
		result.Err = fmt.Errorf("%w: %w", ErrPipelineFailed, err)
	} else if !result.State.IsTerminal() {
		result.State = models.PageStateFailed
		result.Err = fmt.Errorf("%w: 停在 %s 状态", ErrPipelineFailed, result.State)
	}

	return result
}

// process 按顺序执行各步骤,页面上下文在返回前关闭
func (p *PagePipeline) process(ctx context.Context, result *models.PageResult, logger zerolog.Logger) error {
	logger.Debug().Msg("打开页面")

	page, err := p.engine.Open(ctx, result.URL)
	if err != nil {
		return fmt.Errorf("渲染页面失败: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭页面失败")
		}
	}()

	rawTitle, err := page.Title()
	if err != nil {
		return err
	}
	title := NormalizeTitle(rawTitle)
	result.Title = title
	result.State = models.PageStateTitled

	dir, err := p.provisioner.Provision(title)
	if err != nil {
		result.State = models.PageStateSkipped
		logger.Info().Str("reason", err.Error()).Msgf("⏭️  skipping: %s", title)
		return nil
	}
	result.Dir = dir
	result.State = models.PageStateProvisioned

	if _, err := WriteShortcut(result.URL, title, dir); err != nil {
		return err
	}
	result.State = models.PageStateShortcut

	srcs, err := ExtractAssets(page, p.assets.Selector)
	if err != nil {
		return err
	}
	assets := PlanAssets(FilterAssetURLs(srcs, p.assets.Exclude), title, dir)
	result.State = models.PageStateExtracted
	logger.Debug().Int("found", len(srcs)).Int("assets", len(assets)).Msg("图片提取完成")

	result.State = models.PageStateDownloading
	result.Assets = p.downloadAll(ctx, assets, logger)
	result.State = models.PageStateCompleted

	logger.Info().
		Int("downloaded", result.DownloadedCount()).
		Int("failed", result.FailedCount()).
		Msgf("📥 downloaded: %s", title)
	return nil
}

// downloadAll 同时启动所有下载并等待全部结束
// 单张图片失败只记录,不影响其他图片
func (p *PagePipeline) downloadAll(ctx context.Context, assets []models.AssetDescriptor, logger zerolog.Logger) []models.AssetOutcome {
	outcomes := make([]models.AssetOutcome, len(assets))

	var g errgroup.Group
	for i, asset := range assets {
		i, asset := i, asset
		g.Go(func() error {
			outcomes[i] = p.downloadOne(ctx, asset)
			if err := outcomes[i].Err; err != nil {
				logger.Warn().Err(err).Str("asset", asset.URL).Msg("图片下载失败,跳过")
			} else {
				logger.Debug().Str("file", asset.Path).Int64("bytes", outcomes[i].Bytes).Msg("图片下载完成")
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (p *PagePipeline) downloadOne(ctx context.Context, asset models.AssetDescriptor) (outcome models.AssetOutcome) {
	outcome.AssetDescriptor = asset
	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("%w [%s]: panic: %v", ErrDownloadFailed, asset.URL, r)
		}
	}()

	outcome.Bytes, outcome.Err = p.downloader.Download(ctx, asset)
	return outcome
}
