package service

import (
	"errors"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type ProgressService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	Courses      *CourseService
}

func NewProgressService(
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	courses *CourseService,
) *ProgressService {
	return &ProgressService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		Courses:      courses,
	}
}

type SaveProgressRequest struct {
	CourseID         string `json:"courseId" binding:"required"`
	LessonID         string `json:"lessonId"`
	WatchTimeSeconds int    `json:"watchTimeSeconds"`
	IsCompleted      bool   `json:"isCompleted"`
}

type ProgressSnapshot struct {
	CourseID         string     `json:"courseId"`
	Status           string     `json:"status,omitempty"`
	TotalLessons     int        `json:"totalLessons"`
	CompletedLessons int        `json:"completedLessons"`
	ProgressPercent  int        `json:"progressPercent"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

type CourseProgressView struct {
	ProgressSnapshot
	Lessons []model.LessonProgress `json:"lessons"`
}

// CourseProgress 课程维度的进度明细，百分比永远从课时进度现算
func (s *ProgressService) CourseProgress(studentID, courseID string) (*CourseProgressView, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lessonIDs, err := s.CourseRepo.LessonIDsByCourse(courseID)
	if err != nil {
		return nil, err
	}

	rows, err := s.ProgressRepo.FindByStudentAndLessons(studentID, lessonIDs)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.LessonProgress{}
	}

	completed := 0
	for _, row := range rows {
		if row.IsCompleted {
			completed++
		}
	}

	view := &CourseProgressView{
		ProgressSnapshot: ProgressSnapshot{
			CourseID:         courseID,
			TotalLessons:     len(lessonIDs),
			CompletedLessons: completed,
			ProgressPercent:  progressPercent(completed, len(lessonIDs)),
		},
		Lessons: rows,
	}

	if enrollment, err := s.ProgressRepo.FindEnrollment(studentID, courseID); err == nil {
		view.Status = enrollment.Status
		view.CompletedAt = enrollment.CompletedAt
	}

	return view, nil
}

// SaveLessonProgress 上报课时进度。重复完成同一课时是幂等操作，
// 报名记录在首次上报时懒创建。
func (s *ProgressService) SaveLessonProgress(studentID string, req SaveProgressRequest) (*ProgressSnapshot, error) {
	courseID, err := s.CourseRepo.FindLessonCourseID(req.LessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if courseID != req.CourseID {
		return nil, util.ErrLessonNotInCourse
	}

	lp := &model.LessonProgress{
		StudentID:        studentID,
		LessonID:         req.LessonID,
		WatchTimeSeconds: req.WatchTimeSeconds,
		IsCompleted:      req.IsCompleted,
	}
	if req.IsCompleted {
		now := time.Now()
		lp.CompletedAt = &now
	}
	if err := s.ProgressRepo.UpsertLessonProgress(lp); err != nil {
		return nil, err
	}

	enrollment, err := s.ensureEnrollment(studentID, req.CourseID)
	if err != nil {
		return nil, err
	}

	lessonIDs, err := s.CourseRepo.LessonIDsByCourse(req.CourseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.ProgressRepo.CountCompletedIn(studentID, lessonIDs)
	if err != nil {
		return nil, err
	}

	percent := progressPercent(int(completed), len(lessonIDs))
	if enrollment.Status != model.EnrollmentCompleted && enrollment.ProgressPercent != percent {
		enrollment.ProgressPercent = percent
		if err := s.ProgressRepo.UpdateEnrollment(enrollment); err != nil {
			return nil, err
		}
	}

	s.Courses.InvalidateCatalog(studentID)

	return &ProgressSnapshot{
		CourseID:         req.CourseID,
		Status:           enrollment.Status,
		TotalLessons:     len(lessonIDs),
		CompletedLessons: int(completed),
		ProgressPercent:  percent,
		CompletedAt:      enrollment.CompletedAt,
	}, nil
}

// MarkCourseCompleted 结业：状态翻转为 completed，百分比定格在 100
func (s *ProgressService) MarkCourseCompleted(studentID, courseID string) (*ProgressSnapshot, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if _, err := s.ensureEnrollment(studentID, courseID); err != nil {
		return nil, err
	}
	if err := s.ProgressRepo.MarkCourseCompleted(studentID, courseID); err != nil {
		return nil, err
	}

	s.Courses.InvalidateCatalog(studentID)

	enrollment, err := s.ProgressRepo.FindEnrollment(studentID, courseID)
	if err != nil {
		return nil, err
	}
	return &ProgressSnapshot{
		CourseID:        courseID,
		Status:          enrollment.Status,
		ProgressPercent: enrollment.ProgressPercent,
		CompletedAt:     enrollment.CompletedAt,
	}, nil
}

func (s *ProgressService) ensureEnrollment(studentID, courseID string) (*model.Enrollment, error) {
	enrollment, err := s.ProgressRepo.FindEnrollment(studentID, courseID)
	if err == nil {
		return enrollment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment = &model.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    model.EnrollmentActive,
	}
	if err := s.ProgressRepo.CreateEnrollment(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}
