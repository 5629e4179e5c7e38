package controller

import (
	"errors"
	"strconv"
	"stareduca_backend/internal/service"
	"stareduca_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CommunityController struct {
	Community *service.CommunityService
}

func NewCommunityController(community *service.CommunityService) *CommunityController {
	return &CommunityController{Community: community}
}

func queryInt(ctx *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(ctx.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

// ListPosts godoc
// @Summary 社区动态流
// @Description 帖子按时间倒序分页，附带反应汇总和本人反应
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   offset query int false "偏移量"
// @Param   limit query int false "每页数量，默认10，最大50"
// @Success 200 {object} util.Response{data=service.PostPage} "成功"
// @Router /api/posts [get]
func (c *CommunityController) ListPosts(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, err := c.Community.GetPosts(claims.Subject, queryInt(ctx, "offset", 0), queryInt(ctx, "limit", 0))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, page)
}

// swagger:model CreatePostRequest
type CreatePostRequest struct {
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

// CreatePost godoc
// @Summary 发布帖子
// @Description 每人每天最多 3 条，最长 500 字符，发帖送 10 点经验
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   x-timezone header string false "时区"
// @Param   body body CreatePostRequest true "帖子内容"
// @Success 201 {object} util.Response{data=service.CreatePostResult} "创建成功"
// @Failure 400 {object} util.Response "内容为空或过长"
// @Failure 429 {object} util.Response "超出当日发帖上限"
// @Router /api/posts [post]
func (c *CommunityController) CreatePost(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Community.CreatePost(claims.Subject, req.Content, req.ImageURL, ctx.GetHeader("x-timezone"))
	if err != nil {
		if errors.Is(err, util.ErrDailyPostLimit) {
			util.TooManyRequests(ctx, "Has alcanzado el límite de 3 publicaciones por día")
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, result)
}

// swagger:model UpdatePostRequest
type UpdatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdatePost godoc
// @Summary 编辑帖子
// @Description 只有作者本人可以编辑
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "帖子ID"
// @Param   body body UpdatePostRequest true "新内容"
// @Success 200 {object} util.Response{data=model.Post} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "帖子不存在"
// @Router /api/posts/{id} [patch]
func (c *CommunityController) UpdatePost(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.Community.UpdatePost(claims.Subject, ctx.Param("id"), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPostNotFound):
			util.NotFound(ctx, "Publicación no encontrada")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Error(ctx, 403, "No tienes permiso para editar esta publicación")
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, post)
}

// DeletePost godoc
// @Summary 删除帖子
// @Description 连同反应和评论一起删除，只有作者本人可以操作
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "帖子ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "帖子不存在"
// @Router /api/posts/{id} [delete]
func (c *CommunityController) DeletePost(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Community.DeletePost(claims.Subject, ctx.Param("id")); err != nil {
		switch {
		case errors.Is(err, util.ErrPostNotFound):
			util.NotFound(ctx, "Publicación no encontrada")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Error(ctx, 403, "No tienes permiso para eliminar esta publicación")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// swagger:model ReactRequest
type ReactRequest struct {
	Type string `json:"type" binding:"required"`
}

// React godoc
// @Summary 对帖子做出反应
// @Description 每人每帖一条反应，重复提交会原地换类型
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "帖子ID"
// @Param   body body ReactRequest true "反应类型 like/heart/idea/party"
// @Success 200 {object} util.Response{data=object} "类型已更新"
// @Success 201 {object} util.Response{data=object} "新建反应"
// @Failure 400 {object} util.Response "反应类型无效"
// @Failure 404 {object} util.Response "帖子不存在"
// @Router /api/posts/{id}/reactions [post]
func (c *CommunityController) React(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.Community.React(claims.Subject, ctx.Param("id"), req.Type)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidReactionType):
			util.BadRequest(ctx, "Tipo de reacción inválido")
		case errors.Is(err, util.ErrPostNotFound):
			util.NotFound(ctx, "Publicación no encontrada")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if created {
		util.Created(ctx, gin.H{"type": req.Type})
	} else {
		util.Success(ctx, gin.H{"type": req.Type})
	}
}

// RemoveReaction godoc
// @Summary 撤销反应
// @Description 删除本人在该帖子上的反应
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "帖子ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "没有可撤销的反应"
// @Router /api/posts/{id}/reactions [delete]
func (c *CommunityController) RemoveReaction(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Community.RemoveReaction(claims.Subject, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrReactionNotFound) {
			util.NotFound(ctx, "No tienes reacción en esta publicación")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"removed": true})
}

// ListReactions godoc
// @Summary 帖子的反应明细
// @Description 反应列表加按类型的汇总，可用 type 过滤
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "帖子ID"
// @Param   type query string false "反应类型过滤"
// @Success 200 {object} util.Response{data=service.ReactionPage} "成功"
// @Failure 404 {object} util.Response "帖子不存在"
// @Router /api/posts/{id}/reactions [get]
func (c *CommunityController) ListReactions(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, err := c.Community.GetReactions(ctx.Param("id"), ctx.Query("type"))
	if err != nil {
		if errors.Is(err, util.ErrPostNotFound) {
			util.NotFound(ctx, "Publicación no encontrada")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, page)
}

// ListComments godoc
// @Summary 帖子评论
// @Description 评论按时间正序分页
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "帖子ID"
// @Param   offset query int false "偏移量"
// @Param   limit query int false "每页数量，默认20，最大50"
// @Success 200 {object} util.Response{data=service.CommentPage} "成功"
// @Failure 404 {object} util.Response "帖子不存在"
// @Router /api/posts/{id}/comments [get]
func (c *CommunityController) ListComments(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, err := c.Community.GetComments(ctx.Param("id"), queryInt(ctx, "offset", 0), queryInt(ctx, "limit", 0))
	if err != nil {
		if errors.Is(err, util.ErrPostNotFound) {
			util.NotFound(ctx, "Publicación no encontrada")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, page)
}

// swagger:model CreateCommentRequest
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment godoc
// @Summary 发表评论
// @Description 最长 300 字符，评论他人帖子会通知作者
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "帖子ID"
// @Param   body body CreateCommentRequest true "评论内容"
// @Success 201 {object} util.Response{data=service.CommentView} "创建成功"
// @Failure 400 {object} util.Response "内容为空或过长"
// @Failure 404 {object} util.Response "帖子不存在"
// @Router /api/posts/{id}/comments [post]
func (c *CommunityController) CreateComment(ctx *gin.Context) {
	claims := util.GetStudentFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.Community.CreateComment(claims.Subject, ctx.Param("id"), req.Content)
	if err != nil {
		if errors.Is(err, util.ErrPostNotFound) {
			util.NotFound(ctx, "Publicación no encontrada")
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, comment)
}
