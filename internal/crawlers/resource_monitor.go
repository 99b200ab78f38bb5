package crawlers

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceMonitor 系统资源检查器
// 批量开始前估算同时打开的标签页是否会耗尽内存,只给出警告,不限制并发
type ResourceMonitor struct {
	config ResourceMonitorConfig

	// 可替换的采样函数
	virtualMemory func() (*mem.VirtualMemoryStat, error)
	cpuPercent    func(interval time.Duration, percpu bool) ([]float64, error)
}

// ResourceMonitorConfig 资源检查配置
type ResourceMonitorConfig struct {
	SafetyReserveMemory uint64        // 安全保留内存(字节)
	TabMemoryUsage      uint64        // 单个标签页平均内存消耗(字节)
	CPULoadThreshold    float64       // CPU负载阈值(%)
	CPUSampleInterval   time.Duration // CPU采样时长
}

// DefaultResourceMonitorConfig 默认配置
func DefaultResourceMonitorConfig() ResourceMonitorConfig {
	return ResourceMonitorConfig{
		SafetyReserveMemory: 500 * 1024 * 1024, // 500MB
		TabMemoryUsage:      100 * 1024 * 1024, // 100MB per tab
		CPULoadThreshold:    90,
		CPUSampleInterval:   200 * time.Millisecond,
	}
}

// NewResourceMonitor 创建资源检查器
func NewResourceMonitor(config ResourceMonitorConfig) *ResourceMonitor {
	if config.TabMemoryUsage == 0 {
		config.TabMemoryUsage = 100 * 1024 * 1024
	}
	return &ResourceMonitor{
		config:        config,
		virtualMemory: mem.VirtualMemory,
		cpuPercent:    cpu.Percent,
	}
}

// CheckCapacity 检查系统能否承载tabs个并发标签页
// 返回 false 和原因说明;采样失败时视为可承载
func (rm *ResourceMonitor) CheckCapacity(tabs int) (bool, string) {
	if tabs <= 0 {
		return true, ""
	}

	vm, err := rm.virtualMemory()
	if err != nil {
		log.Warn().Err(err).Msg("获取系统内存失败,跳过资源检查")
		return true, ""
	}

	need := uint64(tabs)*rm.config.TabMemoryUsage + rm.config.SafetyReserveMemory
	if vm.Available < need {
		return false, fmt.Sprintf("可用内存 %.2f GB 低于 %d 个标签页的预估需求 %.2f GB",
			toGB(vm.Available), tabs, toGB(need))
	}

	if rm.config.CPULoadThreshold > 0 && rm.cpuPercent != nil {
		percents, err := rm.cpuPercent(rm.config.CPUSampleInterval, false)
		if err == nil && len(percents) > 0 && percents[0] > rm.config.CPULoadThreshold {
			return false, fmt.Sprintf("CPU负载 %.1f%% 超过阈值 %.1f%%", percents[0], rm.config.CPULoadThreshold)
		}
	}

	return true, ""
}

func toGB(b uint64) float64 {
	return float64(b) / (1024 * 1024 * 1024)
}
