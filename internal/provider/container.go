package provider

import (
	"time"

	"github.com/devblog-next/internal/cache"
	"github.com/devblog-next/internal/config"
	"github.com/devblog-next/internal/constants"
	"github.com/devblog-next/internal/logger"
	"github.com/devblog-next/internal/queue"
	"github.com/devblog-next/internal/repository"
	"github.com/devblog-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Store
	QueueClient *queue.Client

	// Repositories
	PostRepo repository.PostRepository

	// Services
	ViewRecorder  service.ViewRecorder
	PostService   *service.PostService
	TagService    *service.TagService
	UploadService *service.UploadService
}

// NewContainer 创建依赖容器，db 与 store 由调用方打开并负责关闭
func NewContainer(cfg *config.Config, db *gorm.DB, store *cache.Store) *Container {
	c := &Container{
		Config: cfg,
		DB:     db,
		Cache:  store,
	}
	c.initQueue()
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initQueue() {
	client, err := queue.NewClient(&c.Config.Queue)
	if err != nil {
		logger.Warnw("provider_queue_client_init_failed", "error", err)
		client, _ = queue.NewClient(nil)
	}
	c.QueueClient = client
}

func (c *Container) initRepositories() {
	c.PostRepo = repository.NewPostRepository(c.DB)
}

func (c *Container) initServices() {
	blog := c.Config.Blog.Normalize()
	timeout := time.Duration(blog.ViewTimeoutSeconds) * time.Second

	asyncViews := service.NewAsyncViewRecorder(c.PostRepo, timeout)
	c.ViewRecorder = asyncViews
	if blog.ViewRecorder == constants.ViewRecorderQueue {
		c.ViewRecorder = service.NewQueueViewRecorder(c.QueueClient, asyncViews, timeout)
	}

	c.PostService = service.NewPostService(c.PostRepo, c.ViewRecorder, service.NewMarkdownRenderer(), blog)
	c.TagService = service.NewTagService(c.PostRepo)
	c.UploadService = service.NewUploadService(c.Config.Upload)
}

// Close 等待后台浏览量写入并关闭队列客户端
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if w, ok := c.ViewRecorder.(interface{ Wait() }); ok {
		w.Wait()
	}
	return c.QueueClient.Close()
}
