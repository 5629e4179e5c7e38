package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"os"
	"path/filepath"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/util"
	"stareduca_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentService 内容后台：建课、挂视频、配考试
type ContentService struct {
	CourseRepo *repository.CourseRepository
	ExamRepo   *repository.ExamRepository
	Storage    *StorageService
}

func NewContentService(
	courseRepo *repository.CourseRepository,
	examRepo *repository.ExamRepository,
	storage *StorageService,
) *ContentService {
	return &ContentService{
		CourseRepo: courseRepo,
		ExamRepo:   examRepo,
		Storage:    storage,
	}
}

type CourseRequest struct {
	Title        string `json:"title" binding:"required"`
	Slug         string `json:"slug" binding:"required"`
	Description  string `json:"description"`
	Category     string `json:"category" binding:"required"`
	ThumbnailURL string `json:"thumbnailUrl"`
	XpReward     int    `json:"xpReward"`
	IsPublished  bool   `json:"isPublished"`
}

type ModuleRequest struct {
	Title      string `json:"title" binding:"required"`
	OrderIndex int    `json:"orderIndex"`
}

type LessonRequest struct {
	Title           string `json:"title" binding:"required"`
	VideoURL        string `json:"videoUrl"`
	DurationMinutes int    `json:"durationMinutes"`
	XpReward        int    `json:"xpReward"`
	OrderIndex      int    `json:"orderIndex"`
}

type ExamQuestionRequest struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectOption int      `json:"correctOption"`
	OrderIndex    int      `json:"orderIndex"`
}

type ExamRequest struct {
	Title        string                `json:"title" binding:"required"`
	PassingScore int                   `json:"passingScore"`
	BadgeIcon    string                `json:"badgeIcon"`
	BadgeName    string                `json:"badgeName"`
	BadgeColor   string                `json:"badgeColor"`
	Questions    []ExamQuestionRequest `json:"questions" binding:"required"`
}

func (s *ContentService) CreateCourse(req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		Category:     req.Category,
		ThumbnailURL: req.ThumbnailURL,
		XpReward:     req.XpReward,
		IsPublished:  req.IsPublished,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *ContentService) UpdateCourse(courseID string, req CourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	course.Title = req.Title
	course.Slug = req.Slug
	course.Description = req.Description
	course.Category = req.Category
	course.ThumbnailURL = req.ThumbnailURL
	course.XpReward = req.XpReward
	course.IsPublished = req.IsPublished
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *ContentService) AddModule(courseID string, req ModuleRequest) (*model.Module, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	module := &model.Module{
		CourseID:   courseID,
		Title:      req.Title,
		OrderIndex: req.OrderIndex,
	}
	if err := s.CourseRepo.CreateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ContentService) AddLesson(moduleID string, req LessonRequest) (*model.Lesson, error) {
	if _, err := s.CourseRepo.FindModuleByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		ModuleID:        moduleID,
		Title:           req.Title,
		VideoURL:        req.VideoURL,
		DurationMinutes: req.DurationMinutes,
		XpReward:        req.XpReward,
		OrderIndex:      req.OrderIndex,
	}
	if err := s.CourseRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// AttachLessonVideo 上传课时视频：先落到临时文件探测时长，
// 再交给存储层，时长按分钟向上取整写回课时。
func (s *ContentService) AttachLessonVideo(ctx context.Context, lessonID string, file *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("unsupported video extension: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "lesson-video-*"+ext)
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.ReadFrom(src); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("lessons/%s/%s%s", lesson.ID, model.GenerateUUID(), ext)
	videoURL, err := s.Storage.UploadFile(ctx, filename, tmpPath, "video/mp4")
	if err != nil {
		return nil, err
	}

	lesson.VideoURL = videoURL
	lesson.DurationMinutes = int(math.Ceil(info.Duration / 60))
	if err := s.CourseRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}

	logger.Log.Info("lesson video attached",
		zap.String("lessonId", lesson.ID),
		zap.Float64("durationSeconds", info.Duration),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height))

	return lesson, nil
}

// SetExam 替换课程考试：旧考试下线，新题目整体入库
func (s *ContentService) SetExam(courseID string, req ExamRequest) (*model.Exam, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if len(req.Questions) == 0 {
		return nil, errors.New("exam needs at least one question")
	}

	passingScore := req.PassingScore
	if passingScore <= 0 {
		passingScore = 60
	}

	exam := &model.Exam{
		CourseID:     courseID,
		Title:        req.Title,
		PassingScore: passingScore,
		BadgeIcon:    req.BadgeIcon,
		BadgeName:    req.BadgeName,
		BadgeColor:   req.BadgeColor,
	}
	for _, q := range req.Questions {
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return nil, fmt.Errorf("correctOption out of range for question %q", q.Question)
		}
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		exam.Questions = append(exam.Questions, model.ExamQuestion{
			Question:      q.Question,
			Options:       datatypes.JSON(options),
			CorrectOption: q.CorrectOption,
			OrderIndex:    q.OrderIndex,
		})
	}

	if err := s.ExamRepo.ReplaceExam(exam); err != nil {
		return nil, err
	}
	return exam, nil
}
