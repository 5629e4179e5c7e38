package repository

import (
	"stareduca_backend/internal/model"

	"gorm.io/gorm"
)

type ReactionRepository struct {
	DB *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{DB: db}
}

func (r *ReactionRepository) Create(reaction *model.Reaction) error {
	return r.DB.Create(reaction).Error
}

func (r *ReactionRepository) FindByPostAndStudent(postID, studentID string) (*model.Reaction, error) {
	var reaction model.Reaction
	err := r.DB.First(&reaction, "post_id = ? AND student_id = ?", postID, studentID).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *ReactionRepository) UpdateType(id, reactionType string) error {
	return r.DB.Model(&model.Reaction{}).Where("id = ?", id).Update("type", reactionType).Error
}

func (r *ReactionRepository) Delete(id string) error {
	return r.DB.Delete(&model.Reaction{}, "id = ?", id).Error
}

// FindByPost 帖子的全部反应，可按类型过滤
func (r *ReactionRepository) FindByPost(postID, typeFilter string) ([]model.Reaction, error) {
	var reactions []model.Reaction
	query := r.DB.Preload("Student").Where("post_id = ?", postID)
	if typeFilter != "" {
		query = query.Where("type = ?", typeFilter)
	}
	err := query.Order("created_at DESC").Find(&reactions).Error
	return reactions, err
}

// FindByPosts 批量取多个帖子的反应，用于列表页聚合
func (r *ReactionRepository) FindByPosts(postIDs []string) ([]model.Reaction, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var reactions []model.Reaction
	err := r.DB.Where("post_id IN ?", postIDs).Find(&reactions).Error
	return reactions, err
}
