package main

import (
	"fmt"

	"github.com/RecoveryAshes/FetchDyson/internal/core"
	"github.com/RecoveryAshes/FetchDyson/internal/models"
)

// ValidateFlags 验证合并命令行参数后的配置
func ValidateFlags(config *core.Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("配置无效: %w", err)
	}

	mode, _ := models.ParseRenderMode(config.Browser.Mode)
	if mode == models.ModeStatic && config.Browser.Bin != "" {
		return fmt.Errorf("--browser-bin 仅在 dynamic 模式下有效")
	}

	return nil
}
