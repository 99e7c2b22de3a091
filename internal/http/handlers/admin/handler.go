package admin

import (
	"github.com/devblog-next/internal/config"
	"github.com/devblog-next/internal/provider"
	"github.com/devblog-next/internal/service"
)

// Handler 文章管理与图片上传接口
type Handler struct {
	Blog          config.BlogConfig
	PostService   *service.PostService
	UploadService *service.UploadService
}

// New 从容器装配管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{
		Blog:          c.Config.Blog.Normalize(),
		PostService:   c.PostService,
		UploadService: c.UploadService,
	}
}
