package admin

import (
	handlershared "github.com/devblog-next/internal/http/handlers/shared"
	"github.com/devblog-next/internal/http/response"
	"github.com/devblog-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var adminPostMutationErrorRules = handlershared.ConcatMappedErrors(
	[]handlershared.MappedError{
		{Target: service.ErrSlugExists, Code: response.CodeBadRequest, Msg: "slug 已被使用"},
		{Target: service.ErrMutationFailed, Code: response.CodeInternal, Msg: "文章保存失败"},
	},
	handlershared.CommonPostErrorRules,
)

var adminUploadErrorRules = []handlershared.MappedError{
	{Target: service.ErrUploadRejected, Code: response.CodeBadRequest, Msg: "上传文件不符合要求"},
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackMsg string) {
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal, fallbackMsg)
}
