package repository

import (
	"stareduca_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

// FindActiveByCourse 课程当前生效的考试，带排序后的题目
func (r *ExamRepository) FindActiveByCourse(courseID string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("exam_questions.order_index ASC")
		}).
		First(&exam, "course_id = ? AND is_active = ?", courseID, true).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) FindByIDWithQuestions(id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("exam_questions.order_index ASC")
		}).
		First(&exam, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) FindByID(id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.First(&exam, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) CreateResult(result *model.ExamResult) error {
	return r.DB.Create(result).Error
}

// LatestResult 学生在该考试的最近一次提交
func (r *ExamRepository) LatestResult(studentID, examID string) (*model.ExamResult, error) {
	var result model.ExamResult
	err := r.DB.Where("student_id = ? AND exam_id = ?", studentID, examID).
		Order("completed_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ExamRepository) BestResult(studentID, examID string) (*model.ExamResult, error) {
	var result model.ExamResult
	err := r.DB.Where("student_id = ? AND exam_id = ?", studentID, examID).
		Order("percentage DESC, completed_at ASC").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ReplaceExam 替换课程考试：旧考试下线，新考试连同题目入库
func (r *ExamRepository) ReplaceExam(exam *model.Exam) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Exam{}).
			Where("course_id = ? AND is_active = ?", exam.CourseID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		exam.IsActive = true
		return tx.Create(exam).Error
	})
}
