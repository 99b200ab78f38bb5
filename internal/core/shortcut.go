package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteShortcut 在页面目录中写入指向来源页面的 <title>.url 快捷方式
func WriteShortcut(pageURL string, title string, dir string) (string, error) {
	path := filepath.Join(dir, title+".url")
	body := "[InternetShortcut]\nURL=" + pageURL

	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("写入快捷方式失败 [%s]: %w", path, err)
	}
	return path, nil
}
