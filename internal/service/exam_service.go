package service

import (
	"encoding/json"
	"errors"
	"math"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/util"
	"stareduca_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExamService struct {
	ExamRepo     *repository.ExamRepository
	Gamification *GamificationService
}

func NewExamService(examRepo *repository.ExamRepository, gamification *GamificationService) *ExamService {
	return &ExamService{ExamRepo: examRepo, Gamification: gamification}
}

type ExamView struct {
	ID           string               `json:"id"`
	CourseID     string               `json:"courseId"`
	Title        string               `json:"title"`
	PassingScore int                  `json:"passingScore"`
	BadgeIcon    string               `json:"badgeIcon,omitempty"`
	BadgeName    string               `json:"badgeName,omitempty"`
	BadgeColor   string               `json:"badgeColor,omitempty"`
	Questions    []model.ExamQuestion `json:"questions"`
	LatestResult *model.ExamResult    `json:"latestResult,omitempty"`
}

type SubmitRequest struct {
	Answers map[string]int `json:"answers" binding:"required"`
}

type SubmitResult struct {
	Score          int          `json:"score"`
	TotalQuestions int          `json:"totalQuestions"`
	Percentage     int          `json:"percentage"`
	PassingScore   int          `json:"passingScore"`
	Passed         bool         `json:"passed"`
	Award          *AwardResult `json:"award,omitempty"`
}

// GetForCourse 课程当前生效的考试。正确答案从不出现在响应里，
// 判卷只在服务端进行。
func (s *ExamService) GetForCourse(studentID, courseID string) (*ExamView, error) {
	exam, err := s.ExamRepo.FindActiveByCourse(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	view := &ExamView{
		ID:           exam.ID,
		CourseID:     exam.CourseID,
		Title:        exam.Title,
		PassingScore: exam.PassingScore,
		BadgeIcon:    exam.BadgeIcon,
		BadgeName:    exam.BadgeName,
		BadgeColor:   exam.BadgeColor,
		Questions:    exam.Questions,
	}

	if result, err := s.ExamRepo.LatestResult(studentID, exam.ID); err == nil {
		view.LatestResult = result
	}

	return view, nil
}

// examXpReason 按成绩分档的经验来源
func examXpReason(percentage int) string {
	switch {
	case percentage == 100:
		return model.XpReasonExamPerfect
	case percentage >= 90:
		return model.XpReasonExamGreat
	case percentage >= 80:
		return model.XpReasonExamGood
	default:
		return model.XpReasonExamPassed
	}
}

// Submit 服务端判卷：要求全部题目作答，按通过线分档发经验，
// 每次提交都落一条成绩记录。
func (s *ExamService) Submit(studentID, examID string, answers map[string]int, timezone string) (*SubmitResult, error) {
	exam, err := s.ExamRepo.FindByIDWithQuestions(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	if !exam.IsActive || len(exam.Questions) == 0 {
		return nil, util.ErrExamNotFound
	}

	correct := 0
	for _, q := range exam.Questions {
		answer, ok := answers[q.ID]
		if !ok {
			return nil, util.ErrIncompleteAnswers
		}
		if answer == q.CorrectOption {
			correct++
		}
	}

	total := len(exam.Questions)
	percentage := int(math.Round(float64(correct) / float64(total) * 100))
	passed := percentage >= exam.PassingScore

	answersJSON, _ := json.Marshal(answers)
	result := &model.ExamResult{
		StudentID:      studentID,
		ExamID:         exam.ID,
		Score:          correct,
		TotalQuestions: total,
		Percentage:     percentage,
		Passed:         passed,
		Answers:        datatypes.JSON(answersJSON),
		CompletedAt:    time.Now(),
	}
	if err := s.ExamRepo.CreateResult(result); err != nil {
		return nil, err
	}

	out := &SubmitResult{
		Score:          correct,
		TotalQuestions: total,
		Percentage:     percentage,
		PassingScore:   exam.PassingScore,
		Passed:         passed,
	}

	if passed {
		award, err := s.Gamification.AwardXP(studentID, AwardRequest{
			Reason:      examXpReason(percentage),
			ReferenceID: exam.ID,
		}, timezone)
		if err != nil {
			// 成绩已落库，经验发放失败不拦住学生看结果
			logger.Log.Error("exam XP award failed",
				zap.String("studentId", studentID),
				zap.String("examId", exam.ID),
				zap.Error(err))
		} else {
			out.Award = award
		}
	}

	return out, nil
}
