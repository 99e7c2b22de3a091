package public

import (
	handlershared "github.com/devblog-next/internal/http/handlers/shared"
	"github.com/devblog-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

var publicPostErrorRules = handlershared.CommonPostErrorRules

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackMsg string) {
	handlershared.RespondMappedError(c, err, rules, response.CodeInternal, fallbackMsg)
}
