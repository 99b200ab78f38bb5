package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/FetchDyson/internal/core"
	"github.com/RecoveryAshes/FetchDyson/internal/crawlers"
	"github.com/RecoveryAshes/FetchDyson/internal/models"
	"github.com/RecoveryAshes/FetchDyson/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// 运行参数
	urlFile    string
	outputDir  string
	mode       string
	headless   bool
	browserBin string
	progress   bool
)

// appConfig 在 PersistentPreRunE 中加载
var appConfig *core.Config

var rootCmd = &cobra.Command{
	Use:   "fetchdyson [url...]",
	Short: "Dyson Logos 地图批量下载工具",
	Long: `FetchDyson - Dyson Logos 地图批量下载工具

为每个页面:
  • 渲染页面并规范化标题
  • 在输出目录下创建 "maps - dyson logos - <标题>" 目录(已存在则跳过)
  • 写入指向原页面的 <标题>.url 快捷方式
  • 并发下载所有全尺寸图片

输出目录可通过 -o 参数、配置文件或环境变量 ` + core.EnvSaveDir + ` 指定。

示例:
  fetchdyson https://dysonlogos.blog/2020/01/01/some-map/
  fetchdyson -f urls.txt -o ~/maps
  fetchdyson -f urls.txt --mode static

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 命令行参数覆盖配置文件
		config.MergeCLIFlags(outputDir, mode, browserBin, logLevel)
		if verbose && logLevel == "" {
			config.Logging.Level = "debug"
		}
		if cmd.Flags().Changed("headless") {
			config.Browser.Headless = headless
		}
		if cmd.Flags().Changed("progress") {
			config.Progress = progress
		}

		logConfig := utils.DefaultLogConfig()
		logConfig.Level = config.Logging.Level
		if config.Logging.LogDir != "" {
			logConfig.LogDir = config.Logging.LogDir
		}
		logConfig.MaxSize = config.Logging.Rotation.MaxSize
		logConfig.MaxBackups = config.Logging.Rotation.MaxBackups
		logConfig.MaxAge = config.Logging.Rotation.MaxAge
		logConfig.Compress = config.Logging.Rotation.Compress
		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}

		appConfig = config
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var fileURLs []string
		if urlFile != "" {
			urls, err := utils.ReadURLsFromFile(urlFile)
			if err != nil {
				return fmt.Errorf("读取URL文件失败: %w", err)
			}
			fileURLs = urls
		}

		urls := utils.CollectURLs(args, fileURLs)
		if len(args) == 0 && urlFile == "" {
			return cmd.Help()
		}
		if len(urls) == 0 {
			utils.Warn("没有有效的URL,无需处理")
			return nil
		}

		if err := ValidateFlags(appConfig); err != nil {
			return err
		}

		return run(appConfig, urls)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FetchDyson %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

// run 在一个共享渲染引擎上处理所有URL,引擎在所有退出路径上关闭
func run(config *core.Config, urls []string) error {
	baseDir, err := config.ResolveBaseDir()
	if err != nil {
		return err
	}

	provisioner := core.NewDirectoryProvisioner(baseDir, config.Output.DirPrefix)
	if err := provisioner.EnsureBaseDir(); err != nil {
		return err
	}
	utils.Infof("📁 输出目录: %s", provisioner.BaseDir())

	client := core.NewHTTPClient()
	downloader := core.NewDownloader(client, config.Download.UserAgent)

	factory, err := core.NewEngineFactory(config.Browser, client)
	if err != nil {
		return err
	}

	// Ctrl+C 取消所有进行中的页面和下载,引擎仍会被关闭
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	utils.Infof("🌐 启动渲染引擎 (%s)", config.Browser.Mode)
	return core.WithEngine(factory, func(engine models.Engine) error {
		pipeline := core.NewPagePipeline(engine, provisioner, downloader, config.Assets)

		runner := core.NewBatchRunner(pipeline)
		if config.Browser.Mode == string(models.ModeDynamic) {
			runner.SetResourceMonitor(crawlers.NewResourceMonitor(crawlers.DefaultResourceMonitorConfig()))
		}
		if config.Progress {
			runner.SetProgressWriter(os.Stderr)
		}

		summary, err := runner.Run(ctx, urls)
		if err != nil {
			utils.Error(err, "批量处理异常结束")
		}
		utils.PrintSummary(summary)

		if errors.Is(ctx.Err(), context.Canceled) {
			utils.Warn("已被中断,未完成的页面已标记为失败")
		}

		utils.Info("✨ 全部页面处理完成")
		return nil
	})
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// 运行参数
	rootCmd.Flags().StringVarP(&urlFile, "url-file", "f", "", "包含URL列表的文件路径")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "输出根目录 (默认读取 "+core.EnvSaveDir+")")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", "", "渲染模式 (dynamic|static)")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "无头浏览器模式")
	rootCmd.Flags().StringVar(&browserBin, "browser-bin", "", "浏览器可执行文件路径")
	rootCmd.Flags().BoolVar(&progress, "progress", true, "显示进度条")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
