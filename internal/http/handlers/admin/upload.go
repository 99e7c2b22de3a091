package admin

import (
	"github.com/devblog-next/internal/constants"
	"github.com/devblog-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UploadFile 图片上传
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "缺少上传文件", nil)
		return
	}
	scene := c.DefaultPostForm("scene", constants.UploadSceneCommon)

	url, err := h.UploadService.SaveImage(file, scene)
	if err != nil {
		respondWithMappedError(c, err, adminUploadErrorRules, "文件上传失败")
		return
	}

	requestLog(c).Infow("admin_upload_saved", "url", url, "size", file.Size)
	response.Success(c, gin.H{
		"url":      url,
		"filename": file.Filename,
		"size":     file.Size,
	})
}
