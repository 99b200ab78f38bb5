package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/RecoveryAshes/FetchDyson/internal/models"
)

// fakePage 预设标题和图片地址的页面
type fakePage struct {
	title string
	srcs  []string
}

// fakeEngine 按URL返回预设页面,记录打开和关闭次数
type fakeEngine struct {
	mu           sync.Mutex
	pages        map[string]fakePage
	opened       int
	closed       int
	engineClosed bool
}

func newFakeEngine(pages map[string]fakePage) *fakeEngine {
	return &fakeEngine{pages: pages}
}

func (e *fakeEngine) Open(ctx context.Context, url string) (models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.pages[url]
	if !ok {
		return nil, fmt.Errorf("页面不存在: %s", url)
	}
	e.opened++
	return &fakePageHandle{engine: e, page: p}, nil
}

func (e *fakeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.engineClosed = true
	return nil
}

func (e *fakeEngine) counts() (opened int, closed int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opened, e.closed
}

type fakePageHandle struct {
	engine *fakeEngine
	page   fakePage
}

func (h *fakePageHandle) Title() (string, error) {
	return h.page.title, nil
}

func (h *fakePageHandle) ImageSources(selector string) ([]string, error) {
	return h.page.srcs, nil
}

func (h *fakePageHandle) Close() error {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	h.engine.closed++
	return nil
}
