package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrDirectoryExists 页面目录已存在或无法创建
var ErrDirectoryExists = errors.New("目录已存在")

// DirectoryProvisioner 在输出根目录下为每个标题创建独立目录
// 不合并已有目录,并发创建同名目录由文件系统的原子创建保证只有一个成功
type DirectoryProvisioner struct {
	baseDir string
	prefix  string
}

// NewDirectoryProvisioner 创建目录分配器
func NewDirectoryProvisioner(baseDir string, prefix string) *DirectoryProvisioner {
	return &DirectoryProvisioner{
		baseDir: baseDir,
		prefix:  prefix,
	}
}

// BaseDir 输出根目录
func (p *DirectoryProvisioner) BaseDir() string {
	return p.baseDir
}

// EnsureBaseDir 确保输出根目录存在
func (p *DirectoryProvisioner) EnsureBaseDir() error {
	if err := os.MkdirAll(p.baseDir, 0755); err != nil {
		return fmt.Errorf("创建输出根目录失败 [%s]: %w", p.baseDir, err)
	}
	return nil
}

// PathFor 计算标题对应的目录路径: <base>/<prefix><title>
func (p *DirectoryProvisioner) PathFor(title string) string {
	return filepath.Join(p.baseDir, p.prefix+title)
}

// Provision 创建标题对应的目录
// 任何创建失败都返回 ErrDirectoryExists
func (p *DirectoryProvisioner) Provision(title string) (string, error) {
	dir := p.PathFor(title)
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("%w [%s]: %w", ErrDirectoryExists, dir, err)
	}
	return dir, nil
}
