package shared

import (
	"errors"

	"github.com/devblog-next/internal/http/response"
	"github.com/devblog-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Msg    string
}

// RespondMappedError 按规则表输出错误响应，未命中时使用兜底错误并记录日志。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackMsg string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		response.ErrorWithData(c, response.CodeBadRequest, service.ErrValidation.Error(), gin.H{"fields": validationErr.Fields})
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			if rule.Code >= response.CodeInternal {
				RespondError(c, rule.Code, rule.Msg, err)
				return
			}
			RespondError(c, rule.Code, rule.Msg, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackMsg, err)
}

// ConcatMappedErrors 合并多组规则。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// CommonPostErrorRules 文章相关通用错误映射。
var CommonPostErrorRules = []MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "文章不存在"},
	{Target: service.ErrValidation, Code: response.CodeBadRequest, Msg: service.ErrValidation.Error()},
	{Target: service.ErrStoreUnavailable, Code: response.CodeInternal, Msg: "服务暂不可用，请稍后重试"},
}
