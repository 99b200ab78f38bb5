package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"

	"github.com/RecoveryAshes/FetchDyson/internal/models"
	"golang.org/x/net/publicsuffix"
)

// ErrDownloadFailed 单张图片下载失败(请求失败、非2xx或写入失败)
var ErrDownloadFailed = errors.New("下载失败")

// NewHTTPClient 创建下载共用的HTTP客户端
// 不设置超时
func NewHTTPClient() *http.Client {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return &http.Client{}
	}
	return &http.Client{Jar: jar}
}

// Downloader 图片下载器,将响应体流式写入目标文件
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader 创建下载器
func NewDownloader(client *http.Client, userAgent string) *Downloader {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Downloader{
		client:    client,
		userAgent: userAgent,
	}
}

// Download 下载单张图片到 asset.Path,返回写入的字节数
// 写入中途失败时删除不完整的文件
func (d *Downloader) Download(ctx context.Context, asset models.AssetDescriptor) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w [%s]: 创建请求失败: %w", ErrDownloadFailed, asset.URL, err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w [%s]: %w", ErrDownloadFailed, asset.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w [%s]: HTTP %d", ErrDownloadFailed, asset.URL, resp.StatusCode)
	}

	file, err := os.Create(asset.Path)
	if err != nil {
		return 0, fmt.Errorf("%w [%s]: 创建文件失败: %w", ErrDownloadFailed, asset.URL, err)
	}

	n, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(asset.Path)
		return n, fmt.Errorf("%w [%s]: 写入文件失败: %w", ErrDownloadFailed, asset.URL, err)
	}

	return n, nil
}
