package controller

import (
	"fmt"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/service"
	"stareduca_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	Storage *service.StorageService
}

func NewUploadController(storage *service.StorageService) *UploadController {
	return &UploadController{Storage: storage}
}

// UploadImage godoc
// @Summary 上传图片
// @Description 帖子配图上传，最大 5MB，按文件头嗅探真实类型
// @Tags 上传
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "图片文件"
// @Success 201 {object} util.Response{data=object} "上传成功"
// @Failure 400 {object} util.Response "文件过大或类型不支持"
// @Router /api/upload [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "archivo requerido")
		return
	}
	if fileHeader.Size > util.MaxImageUploadBytes {
		util.BadRequest(ctx, "la imagen no puede exceder 5MB")
		return
	}

	sniff, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	mimeType, err := util.ValidateMimeType(sniff, util.AllowedImageMimeTypes)
	sniff.Close()
	if err != nil {
		util.BadRequest(ctx, "tipo de imagen no soportado")
		return
	}

	// 嗅探消耗了文件头，重新打开再上传
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("posts/%s/%s%s", claims.Subject, model.GenerateUUID(), util.ImageExtension(mimeType))
	url, err := c.Storage.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"url": url})
}
