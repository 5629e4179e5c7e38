package repository

import (
	"stareduca_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

// FindWithPagination 按时间倒序取 limit+1 条，多出的一条用于判断是否还有下一页
func (r *PostRepository) FindWithPagination(offset, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.DB.Preload("Student").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit + 1).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) FindByID(id string) (*model.Post, error) {
	var post model.Post
	err := r.DB.Preload("Student").First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) Update(post *model.Post) error {
	return r.DB.Save(post).Error
}

// CountByStudentSince 学生自给定时刻起发帖数，用于每日 3 条上限
func (r *PostRepository) CountByStudentSince(studentID string, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Post{}).
		Where("student_id = ? AND created_at >= ?", studentID, since).
		Count(&count).Error
	return count, err
}

func (r *PostRepository) IncrementReactionCount(postID string, delta int) error {
	return r.DB.Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("reaction_count", gorm.Expr("reaction_count + ?", delta)).Error
}

func (r *PostRepository) IncrementCommentCount(postID string, delta int) error {
	return r.DB.Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
}

// DeleteCascade 删除帖子及其反应和评论
func (r *PostRepository) DeleteCascade(postID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, "id = ?", postID).Error
	})
}
