package model

import "time"

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
)

// Enrollment 学生与课程的关联，首次上报进度时懒创建
// swagger:model
type Enrollment struct {
	UUIDBase
	StudentID       string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_student_course" json:"studentId"`
	CourseID        string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_student_course" json:"courseId"`
	Status          string     `gorm:"type:varchar(20);not null;default:active" json:"status"`
	ProgressPercent int        `gorm:"not null;default:0" json:"progressPercent"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonProgress 课时观看进度，(student, lesson) 唯一
// swagger:model
type LessonProgress struct {
	UUIDBase
	StudentID        string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_lesson_progress_student_lesson" json:"studentId"`
	LessonID         string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_lesson_progress_student_lesson" json:"lessonId"`
	WatchTimeSeconds int        `gorm:"not null;default:0" json:"watchTimeSeconds"`
	IsCompleted      bool       `gorm:"not null;default:false" json:"isCompleted"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
