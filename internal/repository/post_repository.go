package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/devblog-next/internal/constants"
	"github.com/devblog-next/internal/models"

	"gorm.io/gorm"
)

var postSearchColumns = []string{"title", "description", "content"}

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(ctx context.Context, filter PostListFilter) ([]models.Post, int64, error)
	GetBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	CountBySlug(ctx context.Context, slug string, excludeID *string) (int64, error)
	IncrementViewCount(ctx context.Context, id string) (int64, error)
	ListPublishedTags(ctx context.Context) ([]models.StringArray, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// List 文章列表，返回当前页数据与满足条件的总数
func (r *GormPostRepository) List(ctx context.Context, filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})

	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, postSearchColumns)
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if len(filter.Tags) > 0 {
		query = query.Where(buildJSONArrayOverlapCondition(r.db, "posts.tags"), filter.Tags)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}

	posts := make([]models.Post, 0)
	if total == 0 {
		return posts, 0, nil
	}
	if err := applyPagination(query, filter.Page, filter.PageSize).Order(orderBy).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetBySlug 根据 slug 获取文章，未找到返回 nil
func (r *GormPostRepository) GetBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Post, error) {
	query := r.db.WithContext(ctx).Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("status = ?", constants.PostStatusPublished)
	}

	var post models.Post
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByID 根据 ID 获取文章，未找到返回 nil
func (r *GormPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建文章
func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update 保存文章全部字段（不含浏览量）
func (r *GormPostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Model(post).
		Select("title", "slug", "description", "content", "featured_image", "status", "tags", "published_at", "updated_at").
		Updates(post).Error
}

// Delete 物理删除文章
func (r *GormPostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{}).Error
}

// CountBySlug 统计 slug 数量
func (r *GormPostRepository) CountBySlug(ctx context.Context, slug string, excludeID *string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementViewCount 原子递增已发布文章的浏览量，返回受影响行数
func (r *GormPostRepository) IncrementViewCount(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND status = ?", id, constants.PostStatusPublished).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListPublishedTags 读取所有已发布文章的标签列
func (r *GormPostRepository) ListPublishedTags(ctx context.Context) ([]models.StringArray, error) {
	var rows []models.StringArray
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("status = ?", constants.PostStatusPublished).
		Pluck("tags", &rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByStatus 按状态统计文章数量
func (r *GormPostRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusRow struct {
		Status string
		Total  int64
	}
	var rows []statusRow
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
