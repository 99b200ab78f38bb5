package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/FetchDyson/internal/models"
)

// ExtractAssets 查询页面中匹配selector的图片地址
func ExtractAssets(page models.Page, selector string) ([]string, error) {
	srcs, err := page.ImageSources(selector)
	if err != nil {
		return nil, fmt.Errorf("提取图片失败: %w", err)
	}
	return srcs, nil
}

// FilterAssetURLs 排除横幅图片,去掉查询参数,按首次出现顺序去重
func FilterAssetURLs(srcs []string, exclude []string) []string {
	seen := make(map[string]bool, len(srcs))
	urls := make([]string, 0, len(srcs))

	for _, src := range srcs {
		if containsAny(src, exclude) {
			continue
		}

		cleaned := StripQuery(src)
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		urls = append(urls, cleaned)
	}

	return urls
}

// PlanAssets 为图片计算目标文件路径
// 只有一张图片时文件名为 <title><ext>,多张时为 <title> <index><ext>
func PlanAssets(urls []string, title string, dir string) []models.AssetDescriptor {
	assets := make([]models.AssetDescriptor, 0, len(urls))
	for i, u := range urls {
		filename := title + FileExtension(u)
		if len(urls) > 1 {
			filename = fmt.Sprintf("%s %d%s", title, i, FileExtension(u))
		}
		assets = append(assets, models.AssetDescriptor{
			URL:  u,
			Path: filepath.Join(dir, filename),
		})
	}
	return assets
}

// StripQuery 去掉URL中 "?" 及之后的部分
func StripQuery(u string) string {
	before, _, _ := strings.Cut(u, "?")
	return before
}

// FileExtension 返回URL中最后一个 "." 到末尾的部分(含 ".")
// 最后一个 "." 不在路径的最后一段时返回空串
func FileExtension(u string) string {
	i := strings.LastIndexByte(u, '.')
	if i < 0 {
		return ""
	}
	ext := u[i:]
	if strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
