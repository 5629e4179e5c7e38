package repository

import (
	"stareduca_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// UpsertLessonProgress 以 (student, lesson) 为键写入进度。
// 完成标记只会从 false 变为 true，重复上报不会清掉已有的完成状态。
func (r *ProgressRepository) UpsertLessonProgress(lp *model.LessonProgress) error {
	updates := []string{"watch_time_seconds", "updated_at"}
	if lp.IsCompleted {
		updates = append(updates, "is_completed", "completed_at")
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(lp).Error
}

func (r *ProgressRepository) FindByStudentAndLesson(studentID, lessonID string) (*model.LessonProgress, error) {
	var lp model.LessonProgress
	err := r.DB.First(&lp, "student_id = ? AND lesson_id = ?", studentID, lessonID).Error
	if err != nil {
		return nil, err
	}
	return &lp, nil
}

func (r *ProgressRepository) FindByStudentAndLessons(studentID string, lessonIDs []string) ([]model.LessonProgress, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	var rows []model.LessonProgress
	err := r.DB.Where("student_id = ? AND lesson_id IN ?", studentID, lessonIDs).Find(&rows).Error
	return rows, err
}

// CompletedLessonIDs 学生已完成的全部课时ID
func (r *ProgressRepository) CompletedLessonIDs(studentID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.LessonProgress{}).
		Where("student_id = ? AND is_completed = ?", studentID, true).
		Pluck("lesson_id", &ids).Error
	return ids, err
}

func (r *ProgressRepository) CountCompletedIn(studentID string, lessonIDs []string) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("student_id = ? AND is_completed = ? AND lesson_id IN ?", studentID, true, lessonIDs).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) FindEnrollment(studentID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.First(&enrollment, "student_id = ? AND course_id = ?", studentID, courseID).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *ProgressRepository) FindEnrollmentsByStudent(studentID string) ([]model.Enrollment, error) {
	var rows []model.Enrollment
	err := r.DB.Where("student_id = ?", studentID).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) CreateEnrollment(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *ProgressRepository) UpdateEnrollment(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

// MarkCourseCompleted 结业：状态、百分比和完成时间一次写入
func (r *ProgressRepository) MarkCourseCompleted(studentID, courseID string) error {
	now := time.Now()
	return r.DB.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Updates(map[string]interface{}{
			"status":           model.EnrollmentCompleted,
			"progress_percent": 100,
			"completed_at":     &now,
		}).Error
}
