package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/devblog-next/internal/app"
	"github.com/devblog-next/internal/cache"
	"github.com/devblog-next/internal/config"
	"github.com/devblog-next/internal/logger"
	"github.com/devblog-next/internal/models"
	"github.com/devblog-next/internal/provider"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiCyan      = "\033[36m"
	ansiBrightMag = "\033[95m"
)

func main() {
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	printStartupBanner()

	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 初始化数据库
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	defer func() {
		if err := models.CloseDB(db); err != nil {
			logger.Warnw("db_close_failed", "error", err)
		}
	}()

	// 自动迁移数据库表
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化 Redis（仅用于公开接口限流）
	store := cache.NewStore(&cfg.Redis)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		logger.Warnw("redis_ping_failed", "error", err)
	}
	cancel()
	defer store.Close()

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	container := provider.NewContainer(cfg, db, store)
	defer container.Close()

	if err := app.Run(app.Options{
		Container: container,
		Logger:    logger.S(),
		Signals:   []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:      mode,
	}); err != nil {
		logger.Errorw("app_run_failed", "error", err)
		exitCode = 1
	}
}

func printStartupBanner() {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║              📝 DevBlog-Next API 启动中              ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + "██████╗ ███████╗██╗   ██╗██████╗ ██╗      ██████╗  ██████╗ " + ansiReset)
	fmt.Println(ansiCyan + "██╔══██╗██╔════╝██║   ██║██╔══██╗██║     ██╔═══██╗██╔════╝ " + ansiReset)
	fmt.Println(ansiCyan + "██║  ██║█████╗  ██║   ██║██████╔╝██║     ██║   ██║██║  ███╗" + ansiReset)
	fmt.Println(ansiCyan + "██║  ██║██╔══╝  ╚██╗ ██╔╝██╔══██╗██║     ██║   ██║██║   ██║" + ansiReset)
	fmt.Println(ansiCyan + "██████╔╝███████╗ ╚████╔╝ ██████╔╝███████╗╚██████╔╝╚██████╔╝" + ansiReset)
	fmt.Println(ansiCyan + "╚═════╝ ╚══════╝  ╚═══╝  ╚═════╝ ╚══════╝ ╚═════╝  ╚═════╝ " + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Modes: all | api | worker" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}
