package controller

import (
	"errors"
	"stareduca_backend/internal/service"
	"stareduca_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GamificationController struct {
	Gamification *service.GamificationService
}

func NewGamificationController(gamification *service.GamificationService) *GamificationController {
	return &GamificationController{Gamification: gamification}
}

// GetSummary godoc
// @Summary 游戏化面板
// @Description 经验总量、等级、连续天数、最近流水和徽章
// @Tags 游戏化
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.GamificationSummary} "成功"
// @Router /api/gamification [get]
func (c *GamificationController) GetSummary(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.Gamification.Summary(claims.Subject)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx, "Estudiante no encontrado")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, summary)
}

// AwardXP godoc
// @Summary 记一笔经验
// @Description 固定来源的金额由服务端决定，只有课时和课程完成才接受请求金额
// @Tags 游戏化
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   x-timezone header string false "时区"
// @Param   body body service.AwardRequest true "经验来源"
// @Success 200 {object} util.Response{data=service.AwardResult} "成功"
// @Failure 400 {object} util.Response "来源或金额无效"
// @Failure 429 {object} util.Response "发帖经验超出当日上限"
// @Router /api/gamification [post]
func (c *GamificationController) AwardXP(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AwardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Gamification.AwardXP(claims.Subject, req, ctx.GetHeader("x-timezone"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidXpReason):
			util.BadRequest(ctx, "Razón de XP inválida")
		case errors.Is(err, util.ErrInvalidXpAmount):
			util.BadRequest(ctx, "Cantidad de XP inválida")
		case errors.Is(err, util.ErrDailyPostLimit):
			util.TooManyRequests(ctx, "Límite diario de XP por publicaciones alcanzado")
		case errors.Is(err, util.ErrStudentNotFound):
			util.NotFound(ctx, "Estudiante no encontrado")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
