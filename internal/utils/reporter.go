package utils

import (
	"io"
	"time"

	"github.com/RecoveryAshes/FetchDyson/internal/models"
	"github.com/schollz/progressbar/v3"
)

// BatchSummary 批量处理摘要
type BatchSummary struct {
	TotalURLs        int
	CompletedCount   int
	SkippedCount     int
	FailedCount      int
	DownloadedAssets int
	FailedAssets     int
	TotalBytes       int64
	Duration         time.Duration
	Results          []models.PageResult
}

// Summarize 汇总页面结果
func Summarize(results []models.PageResult, duration time.Duration) BatchSummary {
	summary := BatchSummary{
		TotalURLs: len(results),
		Duration:  duration,
		Results:   results,
	}

	for _, r := range results {
		switch r.State {
		case models.PageStateCompleted:
			summary.CompletedCount++
		case models.PageStateSkipped:
			summary.SkippedCount++
		default:
			summary.FailedCount++
		}
		for _, a := range r.Assets {
			if a.Err != nil {
				summary.FailedAssets++
				continue
			}
			summary.DownloadedAssets++
			summary.TotalBytes += a.Bytes
		}
	}

	return summary
}

// PrintSummary 打印批量处理摘要
func PrintSummary(summary BatchSummary) {
	Info("==================================================")
	Info("📊 批量处理摘要")
	Info("==================================================")
	Infof("总URL数: %d", summary.TotalURLs)
	Infof("✅ 完成: %d", summary.CompletedCount)
	Infof("⏭️  跳过: %d", summary.SkippedCount)
	Infof("❌ 失败: %d", summary.FailedCount)
	Infof("🖼️  图片: 成功 %d, 失败 %d", summary.DownloadedAssets, summary.FailedAssets)
	Infof("📦 总大小: %.2f MB", float64(summary.TotalBytes)/(1024*1024))
	Infof("⏱️  总耗时: %.2f秒", summary.Duration.Seconds())
	Info("==================================================")

	if summary.FailedCount > 0 {
		Warn("失败的URL:")
		for _, r := range summary.Results {
			if r.State == models.PageStateFailed {
				Warnf("  - %s: %v", r.URL, r.Err)
			}
		}
	}
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
