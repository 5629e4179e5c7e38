package model

import "gorm.io/datatypes"

const (
	NotificationLevelUp     = "level_up"
	NotificationBadgeEarned = "badge_earned"
	NotificationComment     = "comment"
	NotificationReaction    = "reaction"
)

// Notification 站内通知，Data 保存各类型的附加载荷
// swagger:model
type Notification struct {
	UUIDBase
	StudentID string         `gorm:"type:varchar(36);index;not null" json:"studentId"`
	Type      string         `gorm:"type:varchar(30);not null" json:"type"`
	Title     string         `gorm:"type:varchar(100);not null" json:"title"`
	Message   string         `gorm:"type:varchar(255)" json:"message"`
	IsRead    bool           `gorm:"not null;default:false" json:"isRead"`
	Data      datatypes.JSON `json:"data,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
