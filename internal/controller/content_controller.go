package controller

import (
	"errors"
	"stareduca_backend/internal/service"
	"stareduca_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ContentController 内容后台接口，走 X-Admin-Key 鉴权
type ContentController struct {
	Content *service.ContentService
}

func NewContentController(content *service.ContentService) *ContentController {
	return &ContentController{Content: content}
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 内容后台
// @Accept  json
// @Produce  json
// @Param   X-Admin-Key header string true "后台密钥"
// @Param   body body service.CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Failure 403 {object} util.Response "密钥无效"
// @Router /api/admin/courses [post]
func (c *ContentController) CreateCourse(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Content.CreateCourse(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 内容后台
// @Accept  json
// @Produce  json
// @Param   X-Admin-Key header string true "后台密钥"
// @Param   id path string true "课程ID"
// @Param   body body service.CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id} [put]
func (c *ContentController) UpdateCourse(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Content.UpdateCourse(ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "Curso no encontrado")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, course)
}

// AddModule godoc
// @Summary 给课程加模块
// @Tags 内容后台
// @Accept  json
// @Produce  json
// @Param   X-Admin-Key header string true "后台密钥"
// @Param   id path string true "课程ID"
// @Param   body body service.ModuleRequest true "模块信息"
// @Success 201 {object} util.Response{data=model.Module} "创建成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/modules [post]
func (c *ContentController) AddModule(ctx *gin.Context) {
	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.Content.AddModule(ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "Curso no encontrado")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, module)
}

// AddLesson godoc
// @Summary 给模块加课时
// @Tags 内容后台
// @Accept  json
// @Produce  json
// @Param   X-Admin-Key header string true "后台密钥"
// @Param   id path string true "模块ID"
// @Param   body body service.LessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/admin/modules/{id}/lessons [post]
func (c *ContentController) AddLesson(ctx *gin.Context) {
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Content.AddLesson(ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "Módulo no encontrado")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, lesson)
}

// UploadLessonVideo godoc
// @Summary 上传课时视频
// @Description 探测视频时长写回课时，分钟数向上取整
// @Tags 内容后台
// @Accept  multipart/form-data
// @Produce  json
// @Param   X-Admin-Key header string true "后台密钥"
// @Param   id path string true "课时ID"
// @Param   file formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Lesson} "成功"
// @Failure 400 {object} util.Response "文件格式不支持"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/admin/lessons/{id}/video [post]
func (c *ContentController) UploadLessonVideo(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "archivo requerido")
		return
	}

	lesson, err := c.Content.AttachLessonVideo(ctx.Request.Context(), ctx.Param("id"), fileHeader)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, "Lección no encontrada")
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, lesson)
}

// SetExam godoc
// @Summary 配置课程考试
// @Description 旧考试整体下线，新题目作为当前生效版本
// @Tags 内容后台
// @Accept  json
// @Produce  json
// @Param   X-Admin-Key header string true "后台密钥"
// @Param   id path string true "课程ID"
// @Param   body body service.ExamRequest true "考试题目"
// @Success 201 {object} util.Response{data=model.Exam} "创建成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/exam [put]
func (c *ContentController) SetExam(ctx *gin.Context) {
	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Content.SetExam(ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "Curso no encontrado")
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, exam)
}
