package crawlers

import (
	"bytes"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/FetchDyson/internal/models"
	"github.com/RecoveryAshes/FetchDyson/internal/utils"
	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
)

// ErrEmptyResponse 页面没有可解析的响应内容
var ErrEmptyResponse = errors.New("页面无响应内容")

// StaticEngine 静态抓取引擎(使用Colly),不执行页面脚本
// 适用于服务端渲染的页面,无需启动浏览器
type StaticEngine struct {
	collector *colly.Collector
}

// NewStaticEngine 创建静态抓取引擎
// client 为nil时使用Colly默认客户端
func NewStaticEngine(config models.BrowserConfig, client *http.Client) *StaticEngine {
	options := []colly.CollectorOption{colly.AllowURLRevisit()}
	if config.UserAgent != "" {
		options = append(options, colly.UserAgent(config.UserAgent))
	}

	c := colly.NewCollector(options...)
	if client != nil {
		c.SetClient(client)
	}

	return &StaticEngine{collector: c}
}

// Open 抓取并解析页面
// 每次调用使用独立的Collector克隆,共享底层HTTP客户端
func (e *StaticEngine) Open(ctx context.Context, targetURL string) (models.Page, error) {
	c := e.collector.Clone()
	c.Context = ctx

	page := &staticPage{}
	var parseErr error

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Encoding", "gzip, deflate, br")
	})

	c.OnResponse(func(r *colly.Response) {
		body, err := decompressResponse(r.Headers.Get("Content-Encoding"), r.Body)
		if err != nil {
			parseErr = fmt.Errorf("解压响应失败: %w", err)
			return
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			parseErr = fmt.Errorf("解析HTML失败: %w", err)
			return
		}

		page.doc = doc
		page.base = r.Request.URL
	})

	if err := c.Visit(targetURL); err != nil {
		return nil, fmt.Errorf("抓取页面失败: %w", err)
	}
	c.Wait()

	if parseErr != nil {
		return nil, parseErr
	}
	if page.doc == nil {
		return nil, ErrEmptyResponse
	}

	return page, nil
}

// Close 静态引擎无需释放资源
func (e *StaticEngine) Close() error {
	return nil
}

// staticPage 已解析的静态页面
type staticPage struct {
	doc  *goquery.Document
	base *url.URL
}

func (p *staticPage) Title() (string, error) {
	return p.doc.Find("title").First().Text(), nil
}

func (p *staticPage) ImageSources(selector string) ([]string, error) {
	srcs := make([]string, 0)
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}

		// 与浏览器的img.src一致,解析为绝对URL
		abs, err := p.base.Parse(strings.TrimSpace(src))
		if err != nil {
			utils.Debugf("跳过无效图片地址: %s (%v)", src, err)
			return
		}
		srcs = append(srcs, abs.String())
	})
	return srcs, nil
}

func (p *staticPage) Close() error {
	return nil
}

// decompressResponse 根据Content-Encoding解压响应体
// gzip已由Colly的HTTP后端解压,原样返回
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "", "gzip", "identity":
		return body, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
