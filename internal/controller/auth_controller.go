package controller

import (
	"errors"
	"stareduca_backend/internal/service"
	"stareduca_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// swagger:model ExchangeRequest
type ExchangeRequest struct {
	Code string `json:"code" binding:"required"`
}

// Exchange godoc
// @Summary 授权码换会话
// @Description 用 Hub Central 下发的一次性授权码换取本地 JWT 会话
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ExchangeRequest true "授权码"
// @Param   x-timezone header string false "学生所在时区，默认 America/Lima"
// @Success 200 {object} util.Response{data=service.SessionResponse} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "授权码无效或已过期"
// @Failure 403 {object} util.Response "非 Junior 学生"
// @Router /api/auth/exchange [post]
func (c *AuthController) Exchange(ctx *gin.Context) {
	var req ExchangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	timezone := ctx.GetHeader("x-timezone")

	session, err := c.AuthService.ExchangeCode(ctx.Request.Context(), req.Code, timezone)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidExchangeCode):
			util.Error(ctx, 401, "Código inválido o expirado")
		case errors.Is(err, util.ErrNotJuniorStudent):
			util.Error(ctx, 403, "Esta aplicación es solo para estudiantes Junior")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, session)
}

// DevLogin godoc
// @Summary 开发环境登录
// @Description 仅 localhost 可用，用固定测试学生签发 7 天会话
// @Tags 认证
// @Produce  json
// @Param   x-timezone header string false "时区"
// @Success 200 {object} util.Response{data=service.SessionResponse} "成功"
// @Failure 403 {object} util.Response "非本地环境"
// @Router /api/auth/dev-login [post]
func (c *AuthController) DevLogin(ctx *gin.Context) {
	timezone := ctx.GetHeader("x-timezone")

	session, err := c.AuthService.DevLogin(ctx.Request.Host, timezone)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, session)
}

// GetProfile godoc
// @Summary 获取当前学生档案
// @Description 返回会话学生的经验、等级和连续学习天数
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.SessionStudent} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.AuthService.Profile(claims.Subject)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx, "Estudiante no encontrado")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}
