package service

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/devblog-next/internal/config"
	"github.com/devblog-next/internal/constants"
	"github.com/devblog-next/internal/logger"
	"github.com/devblog-next/internal/models"
	"github.com/devblog-next/internal/repository"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

const (
	maxPostTags      = 20
	maxPostTagLength = 50

	publicPostOrder = "published_at DESC, created_at DESC"
	adminPostOrder  = "created_at DESC"
)

// PostService 文章业务服务
type PostService struct {
	repo     repository.PostRepository
	views    ViewRecorder
	renderer *MarkdownRenderer
	blog     config.BlogConfig
	now      func() time.Time
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository, views ViewRecorder, renderer *MarkdownRenderer, blog config.BlogConfig) *PostService {
	if renderer == nil {
		renderer = NewMarkdownRenderer()
	}
	return &PostService{
		repo:     repo,
		views:    views,
		renderer: renderer,
		blog:     blog.Normalize(),
		now:      time.Now,
	}
}

// PostListResult 文章列表查询结果
type PostListResult struct {
	Posts   []models.Post `json:"posts"`
	Total   int64         `json:"total"`
	HasMore bool          `json:"hasMore"`
}

// PostDetail 文章详情（含渲染后的正文）
type PostDetail struct {
	models.Post
	ContentHTML    string `json:"content_html"`
	ReadingMinutes int    `json:"reading_minutes"`
}

// CreatePostInput 创建文章输入
type CreatePostInput struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Content       string   `json:"content"`
	FeaturedImage string   `json:"featured_image"`
	Status        string   `json:"status"`
	Tags          []string `json:"tags"`
}

// UpdatePostInput 更新文章输入，nil 字段保持原值
type UpdatePostInput struct {
	Title         *string   `json:"title"`
	Slug          *string   `json:"slug"`
	Description   *string   `json:"description"`
	Content       *string   `json:"content"`
	FeaturedImage *string   `json:"featured_image"`
	Status        *string   `json:"status"`
	Tags          *[]string `json:"tags"`
}

// ListPublic 获取已发布文章列表
func (s *PostService) ListPublic(ctx context.Context, page, limit int, filter repository.PostListFilter) (*PostListResult, error) {
	filter.Status = constants.PostStatusPublished
	filter.OrderBy = publicPostOrder
	return s.list(ctx, page, limit, filter)
}

// ListAdmin 获取后台文章列表，Status 为空表示全部状态
func (s *PostService) ListAdmin(ctx context.Context, page, limit int, filter repository.PostListFilter) (*PostListResult, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	if filter.Status != "" && !isAllowedPostStatus(filter.Status) {
		return nil, &ValidationError{Fields: map[string]string{"status": "状态不合法"}}
	}
	filter.OrderBy = adminPostOrder
	return s.list(ctx, page, limit, filter)
}

func (s *PostService) list(ctx context.Context, page, limit int, filter repository.PostListFilter) (*PostListResult, error) {
	if page < 1 || limit < 1 {
		return nil, &ValidationError{Fields: map[string]string{"page": "分页参数不合法"}}
	}
	if limit > s.blog.MaxPageSize {
		limit = s.blog.MaxPageSize
	}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return nil, &ValidationError{Fields: map[string]string{"page": "页码超出范围"}}
	}
	filter.Page = page
	filter.PageSize = limit
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Tags = normalizeTags(filter.Tags)

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeUnavailable(err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return &PostListResult{
		Posts:   posts,
		Total:   total,
		HasMore: hasMorePages(total, page, limit),
	}, nil
}

// hasMorePages 等价于 total > page*limit，不做乘法以免溢出
func hasMorePages(total int64, page, limit int) bool {
	if total <= 0 || page < 1 || limit < 1 {
		return false
	}
	return int64(page) <= (total-1)/int64(limit)
}

// PostStats 后台文章数量概览
type PostStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Draft     int64 `json:"draft"`
	Archived  int64 `json:"archived"`
}

// Stats 统计各状态文章数量
func (s *PostService) Stats(ctx context.Context) (*PostStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, storeUnavailable(err)
	}
	stats := &PostStats{
		Published: counts[constants.PostStatusPublished],
		Draft:     counts[constants.PostStatusDraft],
		Archived:  counts[constants.PostStatusArchived],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// GetPublicBySlug 获取已发布文章详情并记录一次浏览
func (s *PostService) GetPublicBySlug(ctx context.Context, slug string) (*PostDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}
	post, err := s.repo.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, storeUnavailable(err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	if s.views != nil {
		s.views.RecordView(ctx, post.ID)
	}
	return s.buildDetail(post), nil
}

// GetAdminByID 后台按 ID 获取文章（不限状态）
func (s *PostService) GetAdminByID(ctx context.Context, id string) (*PostDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeUnavailable(err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return s.buildDetail(post), nil
}

// PreviewMarkdown 渲染编辑器预览
func (s *PostService) PreviewMarkdown(content string) (string, error) {
	return s.renderer.Render(content)
}

// Create 创建文章
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	input = input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSlugAvailable(ctx, input.Slug, nil); err != nil {
		return nil, err
	}

	post := models.Post{
		Title:         input.Title,
		Slug:          input.Slug,
		Description:   input.Description,
		Content:       input.Content,
		FeaturedImage: input.FeaturedImage,
		Status:        input.Status,
		Tags:          models.StringArray(input.Tags),
	}
	if post.Status == constants.PostStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, &post); err != nil {
		return nil, s.translateMutationError(err)
	}
	logger.Infow("post_created", "post_id", post.ID, "slug", post.Slug, "status", post.Status)
	return &post, nil
}

// Update 更新文章
func (s *PostService) Update(ctx context.Context, id string, input UpdatePostInput) (*models.Post, error) {
	id = strings.TrimSpace(id)
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeUnavailable(err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	merged := input.applyTo(post).normalize()
	if err := merged.validate(); err != nil {
		return nil, err
	}
	if merged.Slug != post.Slug {
		if err := s.ensureSlugAvailable(ctx, merged.Slug, &post.ID); err != nil {
			return nil, err
		}
	}

	wasPublished := post.IsPublished()
	post.Title = merged.Title
	post.Slug = merged.Slug
	post.Description = merged.Description
	post.Content = merged.Content
	post.FeaturedImage = merged.FeaturedImage
	post.Status = merged.Status
	post.Tags = models.StringArray(merged.Tags)
	if !wasPublished && post.IsPublished() {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, s.translateMutationError(err)
	}
	logger.Infow("post_updated", "post_id", post.ID, "slug", post.Slug, "status", post.Status)
	return post, nil
}

// Delete 删除文章
func (s *PostService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeUnavailable(err)
	}
	if post == nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mutationFailed(err)
	}
	logger.Infow("post_deleted", "post_id", id, "slug", post.Slug)
	return nil
}

func (s *PostService) ensureSlugAvailable(ctx context.Context, slug string, excludeID *string) error {
	count, err := s.repo.CountBySlug(ctx, slug, excludeID)
	if err != nil {
		return storeUnavailable(err)
	}
	if count > 0 {
		return ErrSlugExists
	}
	return nil
}

func (s *PostService) translateMutationError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugExists
	}
	return mutationFailed(err)
}

func (s *PostService) buildDetail(post *models.Post) *PostDetail {
	html, err := s.renderer.Render(post.Content)
	if err != nil {
		logger.Warnw("post_render_failed", "post_id", post.ID, "error", err)
	}
	return &PostDetail{
		Post:           *post,
		ContentHTML:    html,
		ReadingMinutes: ReadingMinutes(post.Content),
	}
}

func (in CreatePostInput) normalize() CreatePostInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = resolvePostSlug(in.Slug, in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = constants.PostStatusDraft
	}
	in.Tags = normalizeTags(in.Tags)
	return in
}

func (in CreatePostInput) validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("标题不能为空"), validation.RuneLength(1, 255)),
		validation.Field(&in.Slug, validation.Required.Error("slug 不能为空"), validation.RuneLength(1, 255), validation.By(validateSlug)),
		validation.Field(&in.Content, validation.Required.Error("正文不能为空")),
		validation.Field(&in.Status, validation.Required, validation.In(
			constants.PostStatusDraft,
			constants.PostStatusPublished,
			constants.PostStatusArchived,
		).Error("状态不合法")),
		validation.Field(&in.FeaturedImage, validation.RuneLength(0, 500), validation.By(validateImageURL)),
		validation.Field(&in.Tags,
			validation.Length(0, maxPostTags).Error("标签数量超过限制"),
			validation.Each(validation.RuneLength(1, maxPostTagLength).Error("标签长度超过限制")),
		),
	)
	return toValidationError(err)
}

func (in UpdatePostInput) applyTo(post *models.Post) CreatePostInput {
	merged := CreatePostInput{
		Title:         post.Title,
		Slug:          post.Slug,
		Description:   post.Description,
		Content:       post.Content,
		FeaturedImage: post.FeaturedImage,
		Status:        post.Status,
		Tags:          []string(post.Tags),
	}
	if in.Title != nil {
		merged.Title = *in.Title
	}
	if in.Slug != nil {
		merged.Slug = *in.Slug
	}
	if in.Description != nil {
		merged.Description = *in.Description
	}
	if in.Content != nil {
		merged.Content = *in.Content
	}
	if in.FeaturedImage != nil {
		merged.FeaturedImage = *in.FeaturedImage
	}
	if in.Status != nil {
		merged.Status = *in.Status
	}
	if in.Tags != nil {
		merged.Tags = *in.Tags
	}
	return merged
}

func validateImageURL(value interface{}) error {
	text, _ := value.(string)
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "/") && !strings.HasPrefix(text, "//") {
		return nil
	}
	parsed, err := url.Parse(text)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.New("图片地址不合法")
	}
	return nil
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for key, fieldErr := range fieldErrs {
			if fieldErr != nil {
				fields[key] = fieldErr.Error()
			}
		}
		return &ValidationError{Fields: fields}
	}
	return &ValidationError{Fields: map[string]string{"input": err.Error()}}
}

func isAllowedPostStatus(status string) bool {
	switch status {
	case constants.PostStatusDraft, constants.PostStatusPublished, constants.PostStatusArchived:
		return true
	default:
		return false
	}
}
