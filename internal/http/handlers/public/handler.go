package public

import (
	"github.com/devblog-next/internal/config"
	"github.com/devblog-next/internal/provider"
	"github.com/devblog-next/internal/service"
)

// Handler 读者侧只读接口
type Handler struct {
	Blog        config.BlogConfig
	PostService *service.PostService
	TagService  *service.TagService
}

// New 从容器装配读者侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{
		Blog:        c.Config.Blog.Normalize(),
		PostService: c.PostService,
		TagService:  c.TagService,
	}
}
