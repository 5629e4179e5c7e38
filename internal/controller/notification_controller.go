package controller

import (
	"stareduca_backend/internal/service"
	"stareduca_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Notifications *service.NotificationService
}

func NewNotificationController(notifications *service.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

// ListNotifications godoc
// @Summary 通知列表
// @Description 当前学生的通知，按时间倒序，附带未读数
// @Tags 通知
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "数量，默认20，最大50"
// @Param   unread query bool false "只看未读"
// @Success 200 {object} util.Response{data=service.NotificationPage} "成功"
// @Router /api/notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, err := c.Notifications.List(claims.Subject, queryInt(ctx, "limit", 0), ctx.Query("unread") == "true")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, page)
}

// MarkRead godoc
// @Summary 标记已读
// @Description 按 ID 列表标记，或 markAll 一键全读
// @Tags 通知
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.MarkReadRequest true "要标记的通知"
// @Success 200 {object} util.Response "成功"
// @Router /api/notifications [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.MarkReadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Notifications.MarkRead(claims.Subject, req); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"updated": true})
}
