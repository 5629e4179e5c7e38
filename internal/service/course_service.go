package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/util"
	"stareduca_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogCacheTTL = 30 * time.Second

type CourseService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	ExamRepo     *repository.ExamRepository
	Redis        *redis.Client
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	examRepo *repository.ExamRepository,
	rdb *redis.Client,
) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		ExamRepo:     examRepo,
		Redis:        rdb,
	}
}

type CourseSummary struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Slug                 string     `json:"slug"`
	Description          string     `json:"description"`
	Category             string     `json:"category"`
	ThumbnailURL         string     `json:"thumbnailUrl,omitempty"`
	XpReward             int        `json:"xpReward"`
	TotalLessons         int        `json:"totalLessons"`
	TotalDurationMinutes int        `json:"totalDurationMinutes"`
	CompletedLessons     int        `json:"completedLessons"`
	ProgressPercent      int        `json:"progressPercent"`
	IsEnrolled           bool       `json:"isEnrolled"`
	Status               string     `json:"status,omitempty"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
}

type LessonView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	VideoURL        string `json:"videoUrl,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	XpReward        int    `json:"xpReward"`
	OrderIndex      int    `json:"orderIndex"`
	IsCompleted     bool   `json:"isCompleted"`
	IsUnlocked      bool   `json:"isUnlocked"`
}

type ModuleView struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	OrderIndex int          `json:"orderIndex"`
	IsUnlocked bool         `json:"isUnlocked"`
	Lessons    []LessonView `json:"lessons"`
}

type CourseDetail struct {
	CourseSummary
	HasExam bool         `json:"hasExam"`
	ExamID  string       `json:"examId,omitempty"`
	Modules []ModuleView `json:"modules"`
}

// progressPercent 四舍五入的完成百分比，总是从课时进度现算
func progressPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func (s *CourseService) catalogCacheKey(studentID, category string, enrolledOnly bool) string {
	ver := int64(0)
	if s.Redis != nil {
		if v, err := s.Redis.Get(context.Background(), "courses:catalog:ver:"+studentID).Int64(); err == nil {
			ver = v
		}
	}
	return fmt.Sprintf("courses:catalog:%s:v%d:%s:%t", studentID, ver, category, enrolledOnly)
}

// InvalidateCatalog 进度有写入时递增版本号，旧缓存键自然过期
func (s *CourseService) InvalidateCatalog(studentID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Incr(context.Background(), "courses:catalog:ver:"+studentID).Err(); err != nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.String("studentId", studentID), zap.Error(err))
	}
}

// Catalog 已发布课程列表，带该学生的进度聚合
func (s *CourseService) Catalog(studentID, category string, enrolledOnly bool) ([]CourseSummary, error) {
	cacheKey := s.catalogCacheKey(studentID, category, enrolledOnly)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			var summaries []CourseSummary
			if json.Unmarshal([]byte(cached), &summaries) == nil {
				return summaries, nil
			}
		}
	}

	courses, err := s.CourseRepo.FindPublished(category)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]string, len(courses))
	for i, c := range courses {
		courseIDs[i] = c.ID
	}

	lessons, err := s.CourseRepo.FindCourseLessons(courseIDs)
	if err != nil {
		return nil, err
	}

	completedIDs, err := s.ProgressRepo.CompletedLessonIDs(studentID)
	if err != nil {
		return nil, err
	}
	completedSet := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		completedSet[id] = true
	}

	enrollments, err := s.ProgressRepo.FindEnrollmentsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	enrollmentByCourse := make(map[string]model.Enrollment, len(enrollments))
	for _, e := range enrollments {
		enrollmentByCourse[e.CourseID] = e
	}

	type courseAgg struct {
		total     int
		duration  int
		completed int
	}
	aggs := make(map[string]*courseAgg, len(courses))
	for _, row := range lessons {
		agg := aggs[row.CourseID]
		if agg == nil {
			agg = &courseAgg{}
			aggs[row.CourseID] = agg
		}
		agg.total++
		agg.duration += row.DurationMinutes
		if completedSet[row.LessonID] {
			agg.completed++
		}
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, course := range courses {
		enrollment, enrolled := enrollmentByCourse[course.ID]
		if enrolledOnly && !enrolled {
			continue
		}

		summary := CourseSummary{
			ID:           course.ID,
			Title:        course.Title,
			Slug:         course.Slug,
			Description:  course.Description,
			Category:     course.Category,
			ThumbnailURL: course.ThumbnailURL,
			XpReward:     course.XpReward,
			IsEnrolled:   enrolled,
		}
		if agg := aggs[course.ID]; agg != nil {
			summary.TotalLessons = agg.total
			summary.TotalDurationMinutes = agg.duration
			summary.CompletedLessons = agg.completed
			summary.ProgressPercent = progressPercent(agg.completed, agg.total)
		}
		if enrolled {
			summary.Status = enrollment.Status
			summary.CompletedAt = enrollment.CompletedAt
		}
		summaries = append(summaries, summary)
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(summaries); err == nil {
			s.Redis.Set(context.Background(), cacheKey, payload, catalogCacheTTL)
		}
	}

	return summaries, nil
}

// Detail 课程详情，逐级解锁：
// 模块要求前一模块全部完成，模块内课时要求前一课时已完成。
// 已完成的课时始终可回看。
func (s *CourseService) Detail(studentID, courseID string) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByIDWithContent(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotFound
	}

	var lessonIDs []string
	for _, m := range course.Modules {
		for _, l := range m.Lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}
	}

	rows, err := s.ProgressRepo.FindByStudentAndLessons(studentID, lessonIDs)
	if err != nil {
		return nil, err
	}
	completedSet := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.IsCompleted {
			completedSet[row.LessonID] = true
		}
	}

	detail := &CourseDetail{
		CourseSummary: CourseSummary{
			ID:           course.ID,
			Title:        course.Title,
			Slug:         course.Slug,
			Description:  course.Description,
			Category:     course.Category,
			ThumbnailURL: course.ThumbnailURL,
			XpReward:     course.XpReward,
		},
		Modules: make([]ModuleView, 0, len(course.Modules)),
	}

	moduleUnlocked := true
	completed, total, duration := 0, 0, 0
	for _, m := range course.Modules {
		mv := ModuleView{
			ID:         m.ID,
			Title:      m.Title,
			OrderIndex: m.OrderIndex,
			IsUnlocked: moduleUnlocked,
			Lessons:    make([]LessonView, 0, len(m.Lessons)),
		}
		prevCompleted := true
		moduleDone := true
		for _, l := range m.Lessons {
			done := completedSet[l.ID]
			mv.Lessons = append(mv.Lessons, LessonView{
				ID:              l.ID,
				Title:           l.Title,
				VideoURL:        l.VideoURL,
				DurationMinutes: l.DurationMinutes,
				XpReward:        l.XpReward,
				OrderIndex:      l.OrderIndex,
				IsCompleted:     done,
				IsUnlocked:      (moduleUnlocked && prevCompleted) || done,
			})
			prevCompleted = done
			if !done {
				moduleDone = false
			}
			total++
			duration += l.DurationMinutes
			if done {
				completed++
			}
		}
		moduleUnlocked = moduleUnlocked && moduleDone
		detail.Modules = append(detail.Modules, mv)
	}

	detail.TotalLessons = total
	detail.TotalDurationMinutes = duration
	detail.CompletedLessons = completed
	detail.ProgressPercent = progressPercent(completed, total)

	if enrollment, err := s.ProgressRepo.FindEnrollment(studentID, courseID); err == nil {
		detail.IsEnrolled = true
		detail.Status = enrollment.Status
		detail.CompletedAt = enrollment.CompletedAt
	}

	if exam, err := s.ExamRepo.FindActiveByCourse(courseID); err == nil {
		detail.HasExam = true
		detail.ExamID = exam.ID
	}

	return detail, nil
}
