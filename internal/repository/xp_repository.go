package repository

import (
	"stareduca_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type XpRepository struct {
	DB *gorm.DB
}

func NewXpRepository(db *gorm.DB) *XpRepository {
	return &XpRepository{DB: db}
}

func (r *XpRepository) Create(tx *model.XpTransaction) error {
	return r.DB.Create(tx).Error
}

func (r *XpRepository) RecentByStudent(studentID string, limit int) ([]model.XpTransaction, error) {
	var rows []model.XpTransaction
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// CountByReasonSince 统计某来源自给定时刻起的流水条数，用于每日上限
func (r *XpRepository) CountByReasonSince(studentID, reason string, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.XpTransaction{}).
		Where("student_id = ? AND reason = ? AND created_at >= ?", studentID, reason, since).
		Count(&count).Error
	return count, err
}

func (r *XpRepository) FindBadge(studentID, examID string) (*model.StudentExamBadge, error) {
	var badge model.StudentExamBadge
	err := r.DB.First(&badge, "student_id = ? AND exam_id = ?", studentID, examID).Error
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *XpRepository) CreateBadge(badge *model.StudentExamBadge) error {
	return r.DB.Create(badge).Error
}

func (r *XpRepository) BadgesByStudent(studentID string) ([]model.StudentExamBadge, error) {
	var rows []model.StudentExamBadge
	err := r.DB.Where("student_id = ?", studentID).
		Order("earned_at DESC").
		Find(&rows).Error
	return rows, err
}
