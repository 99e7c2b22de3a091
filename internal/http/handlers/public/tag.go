package public

import (
	"github.com/devblog-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetTags 获取已发布文章的标签列表
func (h *Handler) GetTags(c *gin.Context) {
	tags := h.TagService.ListTags(c.Request.Context())
	c.Header("Cache-Control", h.Blog.TagsCacheControl())
	response.Success(c, tags)
}
