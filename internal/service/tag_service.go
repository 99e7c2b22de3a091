package service

import (
	"context"
	"sort"
	"strings"

	"github.com/devblog-next/internal/logger"
	"github.com/devblog-next/internal/repository"
)

// TagService 标签聚合服务
type TagService struct {
	repo repository.PostRepository
}

// NewTagService 创建标签服务
func NewTagService(repo repository.PostRepository) *TagService {
	return &TagService{repo: repo}
}

// ListTags 返回已发布文章标签的升序去重并集，读取失败时返回空列表
func (s *TagService) ListTags(ctx context.Context) []string {
	rows, err := s.repo.ListPublishedTags(ctx)
	if err != nil {
		logger.Warnw("tag_list_failed", "error", err)
		return []string{}
	}

	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, row := range rows {
		for _, tag := range row {
			value := strings.TrimSpace(tag)
			if value == "" {
				continue
			}
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			tags = append(tags, value)
		}
	}
	sort.Strings(tags)
	return tags
}
