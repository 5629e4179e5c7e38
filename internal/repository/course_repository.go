package repository

import (
	"stareduca_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindPublished 按分类过滤已发布课程
func (r *CourseRepository) FindPublished(category string) ([]model.Course, error) {
	var courses []model.Course
	query := r.DB.Where("is_published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("created_at ASC").Find(&courses).Error
	return courses, err
}

// FindByIDWithContent 加载完整的模块和课时树，按 order_index 排序
func (r *CourseRepository) FindByIDWithContent(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.order_index ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.order_index ASC")
		}).
		First(&course, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) CreateModule(module *model.Module) error {
	return r.DB.Create(module).Error
}

func (r *CourseRepository) FindModuleByID(id string) (*model.Module, error) {
	var module model.Module
	err := r.DB.First(&module, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *CourseRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *CourseRepository) UpdateLesson(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *CourseRepository) FindLessonByID(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindLessonCourseID 返回课时所属的课程ID
func (r *CourseRepository) FindLessonCourseID(lessonID string) (string, error) {
	var courseID string
	err := r.DB.Table("lessons").
		Select("modules.course_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lessons.id = ? AND lessons.deleted_at IS NULL", lessonID).
		Scan(&courseID).Error
	if err != nil {
		return "", err
	}
	if courseID == "" {
		return "", gorm.ErrRecordNotFound
	}
	return courseID, nil
}

// CourseLessonRow 跨模块的课时摘要，用于进度统计
type CourseLessonRow struct {
	LessonID        string `gorm:"column:lesson_id"`
	CourseID        string `gorm:"column:course_id"`
	DurationMinutes int    `gorm:"column:duration_minutes"`
}

// FindCourseLessons 一次查询取出多门课程的全部课时
func (r *CourseRepository) FindCourseLessons(courseIDs []string) ([]CourseLessonRow, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	var rows []CourseLessonRow
	err := r.DB.Table("lessons").
		Select("lessons.id AS lesson_id, modules.course_id AS course_id, lessons.duration_minutes").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id IN ?", courseIDs).
		Where("lessons.deleted_at IS NULL AND modules.deleted_at IS NULL").
		Scan(&rows).Error
	return rows, err
}

// LessonIDsByCourse 课程下全部课时ID
func (r *CourseRepository) LessonIDsByCourse(courseID string) ([]string, error) {
	var ids []string
	err := r.DB.Table("lessons").
		Select("lessons.id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID).
		Where("lessons.deleted_at IS NULL AND modules.deleted_at IS NULL").
		Scan(&ids).Error
	return ids, err
}
