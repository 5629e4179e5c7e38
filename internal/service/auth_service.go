package service

import (
	"context"
	"errors"
	"stareduca_backend/internal/config"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/util"
	"stareduca_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// devStudent 本地开发用的固定测试学生
var devStudent = model.Student{
	ExternalID: "dev-student-001",
	FirstName:  "Estudiante",
	LastName:   "Demo",
	Email:      "demo@stareduca.dev",
	Code:       "E-DEV00001",
	FamilyID:   "dev-family-001",
}

type AuthService struct {
	StudentRepo  *repository.StudentRepository
	Gamification *GamificationService
	Hub          *HubClient
	Config       *config.Config
}

func NewAuthService(
	studentRepo *repository.StudentRepository,
	gamification *GamificationService,
	hub *HubClient,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		StudentRepo:  studentRepo,
		Gamification: gamification,
		Hub:          hub,
		Config:       cfg,
	}
}

type SessionStudent struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Code          string `json:"code"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	XpTotal       int    `json:"xpTotal"`
	CurrentLevel  int    `json:"currentLevel"`
	LevelName     string `json:"levelName"`
	CurrentStreak int    `json:"currentStreak"`
	MaxStreak     int    `json:"maxStreak"`
}

type SessionResponse struct {
	Token   string         `json:"token"`
	Student SessionStudent `json:"student"`
}

func sessionStudent(s *model.Student) SessionStudent {
	return SessionStudent{
		ID:            s.ID,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Code:          s.Code,
		AvatarURL:     s.AvatarURL,
		XpTotal:       s.XpTotal,
		CurrentLevel:  s.CurrentLevel,
		LevelName:     LevelName(s.CurrentLevel),
		CurrentStreak: s.CurrentStreak,
		MaxStreak:     s.MaxStreak,
	}
}

// isJuniorCode 只有 Junior 学生码能进入这套系统
func isJuniorCode(code string) bool {
	return strings.HasPrefix(code, "E-") || strings.HasPrefix(code, "STAR-JUN-")
}

// ExchangeCode 用 Hub Central 的一次性授权码换本地会话。
// 当天首次登录附带 5 点经验并推进连续天数。
func (s *AuthService) ExchangeCode(ctx context.Context, code, timezone string) (*SessionResponse, error) {
	hubStudent, err := s.Hub.ExchangeCode(ctx, code)
	if err != nil {
		logger.Log.Warn("Hub Central exchange failed", zap.Error(err))
		return nil, util.ErrInvalidExchangeCode
	}

	if !isJuniorCode(hubStudent.Code) {
		return nil, util.ErrNotJuniorStudent
	}

	student, err := s.StudentRepo.FindByExternalID(hubStudent.ID)
	switch {
	case err == nil:
		// 档案以 Hub 下发的为准
		if err := s.StudentRepo.UpdateProfile(student.ID, map[string]interface{}{
			"first_name": hubStudent.FirstName,
			"last_name":  hubStudent.LastName,
			"email":      hubStudent.Email,
			"code":       hubStudent.Code,
			"family_id":  hubStudent.FamilyID,
			"avatar_url": hubStudent.AvatarURL,
		}); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		student = &model.Student{
			ExternalID:   hubStudent.ID,
			FirstName:    hubStudent.FirstName,
			LastName:     hubStudent.LastName,
			Email:        hubStudent.Email,
			Code:         hubStudent.Code,
			FamilyID:     hubStudent.FamilyID,
			AvatarURL:    hubStudent.AvatarURL,
			CurrentLevel: 1,
		}
		if err := s.StudentRepo.Create(student); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	// 当天首次活动才发登录经验
	today := TodayInTimezone(timezone)
	if student.LastActivityDate != today {
		if _, err := s.Gamification.AwardXP(student.ID, AwardRequest{
			Reason: model.XpReasonDailyLogin,
		}, timezone); err != nil {
			logger.Log.Warn("daily login XP award failed", zap.String("studentId", student.ID), zap.Error(err))
		}
	}

	student, err = s.StudentRepo.FindByID(student.ID)
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(student, false, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{Token: token, Student: sessionStudent(student)}, nil
}

// DevLogin 本地开发登录，仅 localhost 可用，签发 7 天会话
func (s *AuthService) DevLogin(host, timezone string) (*SessionResponse, error) {
	if !strings.Contains(host, "localhost") && !strings.Contains(host, "127.0.0.1") {
		return nil, util.ErrPermissionDenied
	}

	today := TodayInTimezone(timezone)

	student, err := s.StudentRepo.FindByExternalID(devStudent.ExternalID)
	switch {
	case err == nil:
		if err := s.StudentRepo.UpdateProfile(student.ID, map[string]interface{}{
			"last_activity_date": today,
		}); err != nil {
			return nil, err
		}
		student.LastActivityDate = today
	case errors.Is(err, gorm.ErrRecordNotFound):
		fresh := devStudent
		fresh.CurrentLevel = 1
		fresh.LastActivityDate = today
		if err := s.StudentRepo.Create(&fresh); err != nil {
			return nil, err
		}
		student = &fresh
	default:
		return nil, err
	}

	token, err := util.GenerateJWT(student, true, s.Config.JWT.Secret, s.Config.JWT.DevExpireTime)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{Token: token, Student: sessionStudent(student)}, nil
}

// Profile 当前会话学生的完整档案
func (s *AuthService) Profile(studentID string) (*SessionStudent, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	profile := sessionStudent(student)
	return &profile, nil
}
