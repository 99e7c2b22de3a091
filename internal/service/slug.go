package service

import (
	"errors"
	"strings"

	"github.com/gosimple/slug"
)

// resolvePostSlug 优先使用传入 slug，缺省时由标题生成
func resolvePostSlug(raw, title string) string {
	value := strings.TrimSpace(raw)
	if value != "" {
		return strings.ToLower(value)
	}
	return slug.Make(strings.TrimSpace(title))
}

func validateSlug(value interface{}) error {
	text, _ := value.(string)
	if text == "" {
		return nil
	}
	if !slug.IsSlug(text) {
		return errors.New("只能包含小写字母、数字、- 与 _")
	}
	return nil
}

// normalizeTags 去除首尾空白、空值与重复项，保留原有顺序
func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		value := strings.TrimSpace(tag)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
