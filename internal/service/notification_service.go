package service

import (
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
)

const notificationsPerPage = 20

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{NotificationRepo: notificationRepo}
}

type NotificationPage struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int64                `json:"unreadCount"`
}

func (s *NotificationService) List(studentID string, limit int, unreadOnly bool) (*NotificationPage, error) {
	limit = clampLimit(limit, notificationsPerPage)

	rows, err := s.NotificationRepo.ListByStudent(studentID, limit, unreadOnly)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.Notification{}
	}

	unread, err := s.NotificationRepo.UnreadCount(studentID)
	if err != nil {
		return nil, err
	}

	return &NotificationPage{Notifications: rows, UnreadCount: unread}, nil
}

type MarkReadRequest struct {
	IDs     []string `json:"ids"`
	MarkAll bool     `json:"markAll"`
}

func (s *NotificationService) MarkRead(studentID string, req MarkReadRequest) error {
	if req.MarkAll {
		return s.NotificationRepo.MarkAllRead(studentID)
	}
	return s.NotificationRepo.MarkRead(studentID, req.IDs)
}
