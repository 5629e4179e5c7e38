package model

import "time"

// XP 来源，课时和课程完成的金额由请求携带，其余为服务端固定值
const (
	XpReasonLessonComplete = "lesson_complete"
	XpReasonCourseStart    = "course_start"
	XpReasonCourseComplete = "course_complete"
	XpReasonMaterialView   = "material_view"
	XpReasonExamPassed     = "exam_passed"
	XpReasonExamGood       = "exam_good"
	XpReasonExamGreat      = "exam_great"
	XpReasonExamPerfect    = "exam_perfect"
	XpReasonDailyLogin     = "daily_login"
	XpReasonPostCreated    = "post_created"
	XpReasonStreakBonus    = "streak_bonus"
)

// XpTransaction 经验值流水账，学生经验永不回收
// swagger:model
type XpTransaction struct {
	UUIDBase
	StudentID   string `gorm:"type:varchar(36);index;not null" json:"studentId"`
	Amount      int    `gorm:"not null" json:"amount"`
	Reason      string `gorm:"type:varchar(50);index;not null" json:"reason"`
	ReferenceID string `gorm:"type:varchar(36)" json:"referenceId,omitempty"`
}

func (XpTransaction) TableName() string {
	return "xp_transactions"
}

// StudentExamBadge 满分徽章，(student, exam) 唯一保证只发一次
// swagger:model
type StudentExamBadge struct {
	UUIDBase
	StudentID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_badge_student_exam" json:"studentId"`
	ExamID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_badge_student_exam" json:"examId"`
	BadgeIcon  string    `gorm:"type:varchar(100)" json:"badgeIcon"`
	BadgeName  string    `gorm:"type:varchar(100)" json:"badgeName"`
	BadgeColor string    `gorm:"type:varchar(20)" json:"badgeColor"`
	EarnedAt   time.Time `gorm:"not null" json:"earnedAt"`
}

func (StudentExamBadge) TableName() string {
	return "student_exam_badges"
}
