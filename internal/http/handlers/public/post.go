package public

import (
	handlershared "github.com/devblog-next/internal/http/handlers/shared"
	"github.com/devblog-next/internal/http/response"
	"github.com/devblog-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetPosts 获取已发布文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	blog := h.Blog
	page, limit := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page"),
		handlershared.QueryInt(c, "limit"),
		blog.DefaultPageSize,
		blog.MaxPageSize,
	)
	filter := repository.PostListFilter{
		Query: c.Query("query"),
		Tags:  handlershared.QueryTags(c),
	}

	result, err := h.PostService.ListPublic(c.Request.Context(), page, limit, filter)
	if err != nil {
		respondWithMappedError(c, err, publicPostErrorRules, "文章列表获取失败")
		return
	}

	response.Success(c, result)
}

// GetPostBySlug 根据 slug 获取文章详情
func (h *Handler) GetPostBySlug(c *gin.Context) {
	post, err := h.PostService.GetPublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, publicPostErrorRules, "文章获取失败")
		return
	}

	response.Success(c, post)
}
