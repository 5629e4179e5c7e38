package controller

import (
	"errors"
	"stareduca_backend/internal/service"
	"stareduca_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetProgress godoc
// @Summary 课程进度
// @Description 当前学生在某门课程下的课时进度明细
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId query string true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgressView} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
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

	view, err := c.ProgressService.CourseProgress(claims.Subject, courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "Curso no encontrado")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

// swagger:model SaveProgressBody
type SaveProgressBody struct {
	CourseID            string `json:"courseId" binding:"required"`
	LessonID            string `json:"lessonId"`
	WatchTimeSeconds    int    `json:"watchTimeSeconds"`
	IsCompleted         bool   `json:"isCompleted"`
	MarkCourseCompleted bool   `json:"markCourseCompleted"`
}

// SaveProgress godoc
// @Summary 上报学习进度
// @Description 上报课时观看进度，或把整门课程标记为已结业
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SaveProgressBody true "进度数据"
// @Success 200 {object} util.Response{data=service.ProgressSnapshot} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/progress [post]
func (c *ProgressController) SaveProgress(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var body SaveProgressBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var snapshot *service.ProgressSnapshot
	var err error
	switch {
	case body.MarkCourseCompleted:
		snapshot, err = c.ProgressService.MarkCourseCompleted(claims.Subject, body.CourseID)
	case body.LessonID != "":
		snapshot, err = c.ProgressService.SaveLessonProgress(claims.Subject, service.SaveProgressRequest{
			CourseID:         body.CourseID,
			LessonID:         body.LessonID,
			WatchTimeSeconds: body.WatchTimeSeconds,
			IsCompleted:      body.IsCompleted,
		})
	default:
		util.BadRequest(ctx, "lessonId o markCourseCompleted es requerido")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "Curso no encontrado")
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx, "Lección no encontrada")
		case errors.Is(err, util.ErrLessonNotInCourse):
			util.BadRequest(ctx, "La lección no pertenece al curso indicado")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, snapshot)
}
