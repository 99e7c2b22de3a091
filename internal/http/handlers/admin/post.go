package admin

import (
	"strings"

	handlershared "github.com/devblog-next/internal/http/handlers/shared"
	"github.com/devblog-next/internal/http/response"
	"github.com/devblog-next/internal/repository"
	"github.com/devblog-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PreviewPostRequest Markdown 预览请求
type PreviewPostRequest struct {
	Content string `json:"content"`
}

// GetAdminPosts 获取文章列表 (Admin)
func (h *Handler) GetAdminPosts(c *gin.Context) {
	blog := h.Blog
	page, limit := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page"),
		handlershared.QueryInt(c, "limit"),
		blog.DefaultPageSize,
		blog.MaxPageSize,
	)
	filter := repository.PostListFilter{
		Query:  c.Query("query"),
		Tags:   handlershared.QueryTags(c),
		Status: strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}

	result, err := h.PostService.ListAdmin(c.Request.Context(), page, limit, filter)
	if err != nil {
		respondWithMappedError(c, err, handlershared.CommonPostErrorRules, "文章列表获取失败")
		return
	}

	response.Success(c, result)
}

// GetPostStats 文章数量概览 (Admin)
func (h *Handler) GetPostStats(c *gin.Context) {
	stats, err := h.PostService.Stats(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, handlershared.CommonPostErrorRules, "文章统计获取失败")
		return
	}
	response.Success(c, stats)
}

// GetAdminPost 获取文章详情 (Admin)
func (h *Handler) GetAdminPost(c *gin.Context) {
	post, err := h.PostService.GetAdminByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, handlershared.CommonPostErrorRules, "文章获取失败")
		return
	}

	response.Success(c, post)
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	var req service.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
		return
	}

	post, err := h.PostService.Create(c.Request.Context(), req)
	if err != nil {
		respondWithMappedError(c, err, adminPostMutationErrorRules, "文章创建失败")
		return
	}

	response.Success(c, post)
}

// UpdatePost 更新文章，未提供的字段保持不变
func (h *Handler) UpdatePost(c *gin.Context) {
	var req service.UpdatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
		return
	}

	post, err := h.PostService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondWithMappedError(c, err, adminPostMutationErrorRules, "文章更新失败")
		return
	}

	response.Success(c, post)
}

// DeletePost 删除文章（物理删除）
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.PostService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondWithMappedError(c, err, adminPostMutationErrorRules, "文章删除失败")
		return
	}

	response.Success(c, nil)
}

// PreviewPost 渲染 Markdown 预览
func (h *Handler) PreviewPost(c *gin.Context) {
	var req PreviewPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
		return
	}

	html, err := h.PostService.PreviewMarkdown(req.Content)
	if err != nil {
		respondError(c, response.CodeInternal, "预览渲染失败", err)
		return
	}

	response.Success(c, gin.H{
		"html":            html,
		"reading_minutes": service.ReadingMinutes(req.Content),
	})
}
