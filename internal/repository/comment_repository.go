package repository

import (
	"stareduca_backend/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

// FindByPost 评论按时间正序展示，取 limit+1 条探测下一页
func (r *CommentRepository) FindByPost(postID string, offset, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.DB.Preload("Student").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit + 1).
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) FindByID(id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) Delete(id string) error {
	return r.DB.Delete(&model.Comment{}, "id = ?", id).Error
}
