package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("资源不存在")
	ErrValidation       = errors.New("参数校验失败")
	ErrSlugExists       = errors.New("slug 已存在")
	ErrStoreUnavailable = errors.New("数据存储暂不可用")
	ErrMutationFailed   = errors.New("文章保存失败")
	ErrUploadRejected   = errors.New("上传文件不符合要求")
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, e.Fields[key]))
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func storeUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func mutationFailed(err error) error {
	return fmt.Errorf("%w: %v", ErrMutationFailed, err)
}
