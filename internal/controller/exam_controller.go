package controller

import (
	"errors"
	"stareduca_backend/internal/service"
	"stareduca_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// GetExam godoc
// @Summary 课程考试
// @Description 课程当前生效的考试题目，不包含正确答案
// @Tags 考试
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId query string true "课程ID"
// @Success 200 {object} util.Response{data=service.ExamView} "成功"
// @Failure 404 {object} util.Response "课程没有生效的考试"
// @Router /api/exams [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := ctx.Query("courseId")
	if courseID == "" {
		util.BadRequest(ctx, "courseId es requerido")
		return
	}

	exam, err := c.ExamService.GetForCourse(claims.Subject, courseID)
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx, "Examen no encontrado")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, exam)
}

// SubmitExam godoc
// @Summary 提交考试答卷
// @Description 服务端判卷并按分档发放经验，满分可获得徽章
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "考试ID"
// @Param   x-timezone header string false "时区"
// @Param   body body service.SubmitRequest true "题目ID到选项下标的映射"
// @Success 200 {object} util.Response{data=service.SubmitResult} "成功"
// @Failure 400 {object} util.Response "有题目未作答"
// @Failure 404 {object} util.Response "考试不存在"
// @Router /api/exams/{id}/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ExamService.Submit(claims.Subject, ctx.Param("id"), req.Answers, ctx.GetHeader("x-timezone"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx, "Examen no encontrado")
		case errors.Is(err, util.ErrIncompleteAnswers):
			util.BadRequest(ctx, "Debes responder todas las preguntas")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
