package controller

import (
	"errors"
	"stareduca_backend/internal/service"
	"stareduca_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// ListCourses godoc
// @Summary 课程目录
// @Description 已发布课程列表，带当前学生的进度聚合
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   category query string false "按分类过滤"
// @Param   enrolled query bool false "只看已报名"
// @Success 200 {object} util.Response{data=[]service.CourseSummary} "成功"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	category := ctx.Query("category")
	enrolledOnly := ctx.Query("enrolled") == "true"

	courses, err := c.CourseService.Catalog(claims.Subject, category, enrolledOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 课程的模块和课时，课时按顺序逐个解锁
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseDetail} "成功"
// @Failure 404 {object} util.Response "课程不存在或未发布"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.CourseService.Detail(claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "Curso no encontrado")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}
