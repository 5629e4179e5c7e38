package model

import (
	"time"

	"gorm.io/datatypes"
)

// Exam 课程期末考试，一门课程同时只有一份生效的考试
// swagger:model
type Exam struct {
	UUIDBase
	CourseID     string         `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Title        string         `gorm:"type:varchar(200);not null" json:"title"`
	PassingScore int            `gorm:"not null;default:60" json:"passingScore"`
	BadgeIcon    string         `gorm:"type:varchar(100)" json:"badgeIcon,omitempty"`
	BadgeName    string         `gorm:"type:varchar(100)" json:"badgeName,omitempty"`
	BadgeColor   string         `gorm:"type:varchar(20)" json:"badgeColor,omitempty"`
	IsActive     bool           `gorm:"not null;default:true" json:"isActive"`
	Questions    []ExamQuestion `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// ExamQuestion 单选题，Options 为选项文本数组
// swagger:model
type ExamQuestion struct {
	UUIDBase
	ExamID        string         `gorm:"type:varchar(36);index;not null" json:"examId"`
	Question      string         `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSON `gorm:"not null" json:"options"`
	CorrectOption int            `gorm:"not null" json:"-"`
	OrderIndex    int            `gorm:"not null;default:0" json:"orderIndex"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// ExamResult 每次提交都保留一条记录
// swagger:model
type ExamResult struct {
	UUIDBase
	StudentID      string         `gorm:"type:varchar(36);index;not null" json:"studentId"`
	ExamID         string         `gorm:"type:varchar(36);index;not null" json:"examId"`
	Score          int            `gorm:"not null" json:"score"`
	TotalQuestions int            `gorm:"not null" json:"totalQuestions"`
	Percentage     int            `gorm:"not null" json:"percentage"`
	Passed         bool           `gorm:"not null" json:"passed"`
	Answers        datatypes.JSON `json:"answers,omitempty"`
	CompletedAt    time.Time      `gorm:"not null" json:"completedAt"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}
