package repository

import (
	"stareduca_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(notification *model.Notification) error {
	return r.DB.Create(notification).Error
}

func (r *NotificationRepository) ListByStudent(studentID string, limit int, unreadOnly bool) ([]model.Notification, error) {
	var rows []model.Notification
	query := r.DB.Where("student_id = ?", studentID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *NotificationRepository) UnreadCount(studentID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("student_id = ? AND is_read = ?", studentID, false).
		Count(&count).Error
	return count, err
}

// MarkRead 只标记属于该学生的通知
func (r *NotificationRepository) MarkRead(studentID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.Model(&model.Notification{}).
		Where("student_id = ? AND id IN ?", studentID, ids).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(studentID string) error {
	return r.DB.Model(&model.Notification{}).
		Where("student_id = ? AND is_read = ?", studentID, false).
		Update("is_read", true).Error
}
