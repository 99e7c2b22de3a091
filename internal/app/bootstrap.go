package app

import (
	"errors"

	"github.com/devblog-next/internal/logger"
	"github.com/devblog-next/internal/provider"
	"github.com/devblog-next/internal/router"
	"github.com/devblog-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(container *provider.Container, mode string) (*Runner, error) {
	if container == nil || container.Config == nil {
		return nil, errors.New("container is nil")
	}
	cfg := container.Config

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	} else if mode == ModeAll {
		logger.Infow("worker_skipped_queue_disabled")
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Container == nil || opts.Container.Config == nil {
		return errors.New("container is nil")
	}

	runner, err := BuildRunner(opts.Container, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Container.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
