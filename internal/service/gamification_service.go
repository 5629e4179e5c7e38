package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/util"
	"stareduca_backend/pkg/monitoring"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	dailyPostXpLimit  = 3
	defaultBadgeColor = "from-yellow-300 to-yellow-500"
)

// xpReasonAmounts 各来源的固定经验值，0 表示金额由请求携带
// （课时和课程的奖励配置在内容上，不在这里）
var xpReasonAmounts = map[string]int{
	model.XpReasonLessonComplete: 0,
	model.XpReasonCourseComplete: 0,
	model.XpReasonCourseStart:    10,
	model.XpReasonMaterialView:   5,
	model.XpReasonExamPassed:     100,
	model.XpReasonExamGood:       125,
	model.XpReasonExamGreat:      150,
	model.XpReasonExamPerfect:    200,
	model.XpReasonDailyLogin:     5,
	model.XpReasonPostCreated:    10,
	model.XpReasonStreakBonus:    50,
}

// startOfUTCDay 日配额统一按 UTC 日历日计窗，
// 客户端上报的时区只影响连续天数，改不了配额窗口
func startOfUTCDay() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

type GamificationService struct {
	StudentRepo      *repository.StudentRepository
	XpRepo           *repository.XpRepository
	ExamRepo         *repository.ExamRepository
	NotificationRepo *repository.NotificationRepository
}

func NewGamificationService(
	studentRepo *repository.StudentRepository,
	xpRepo *repository.XpRepository,
	examRepo *repository.ExamRepository,
	notificationRepo *repository.NotificationRepository,
) *GamificationService {
	return &GamificationService{
		StudentRepo:      studentRepo,
		XpRepo:           xpRepo,
		ExamRepo:         examRepo,
		NotificationRepo: notificationRepo,
	}
}

type AwardRequest struct {
	Amount      int    `json:"amount"`
	Reason      string `json:"reason" binding:"required"`
	ReferenceID string `json:"referenceId"`
}

type BadgeInfo struct {
	ID       string    `json:"id,omitempty"`
	Icon     string    `json:"icon"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	EarnedAt time.Time `json:"earnedAt,omitempty"`
}

type AwardResult struct {
	XpAwarded     int        `json:"xpAwarded"`
	Reason        string     `json:"reason"`
	NewTotal      int        `json:"newTotal"`
	LeveledUp     bool       `json:"leveledUp"`
	NewLevel      int        `json:"newLevel,omitempty"`
	NewLevelName  string     `json:"newLevelName,omitempty"`
	CurrentStreak int        `json:"currentStreak"`
	MaxStreak     int        `json:"maxStreak"`
	BadgeEarned   *BadgeInfo `json:"badgeEarned,omitempty"`
}

type XpEntry struct {
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type GamificationSummary struct {
	XpTotal       int         `json:"xpTotal"`
	CurrentLevel  int         `json:"currentLevel"`
	LevelName     string      `json:"levelName"`
	XpToNextLevel int         `json:"xpToNextLevel"`
	CurrentStreak int         `json:"currentStreak"`
	MaxStreak     int         `json:"maxStreak"`
	RecentXp      []XpEntry   `json:"recentXp"`
	Badges        []BadgeInfo `json:"badges"`
}

func (s *GamificationService) Summary(studentID string) (*GamificationSummary, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	recent, err := s.XpRepo.RecentByStudent(studentID, 10)
	if err != nil {
		return nil, err
	}
	entries := make([]XpEntry, len(recent))
	for i, tx := range recent {
		entries[i] = XpEntry{Amount: tx.Amount, Reason: tx.Reason, CreatedAt: tx.CreatedAt}
	}

	badges, err := s.XpRepo.BadgesByStudent(studentID)
	if err != nil {
		return nil, err
	}
	badgeInfos := make([]BadgeInfo, len(badges))
	for i, b := range badges {
		badgeInfos[i] = BadgeInfo{
			ID:       b.ID,
			Icon:     b.BadgeIcon,
			Name:     b.BadgeName,
			Color:    b.BadgeColor,
			EarnedAt: b.EarnedAt,
		}
	}

	return &GamificationSummary{
		XpTotal:       student.XpTotal,
		CurrentLevel:  student.CurrentLevel,
		LevelName:     LevelName(student.CurrentLevel),
		XpToNextLevel: XpForNextLevel(student.XpTotal),
		CurrentStreak: student.CurrentStreak,
		MaxStreak:     student.MaxStreak,
		RecentXp:      entries,
		Badges:        badgeInfos,
	}, nil
}

// AwardXP 记一笔经验流水并推进等级和连续天数。
// 固定金额的来源忽略请求里的 amount，杜绝客户端自报经验。
func (s *GamificationService) AwardXP(studentID string, req AwardRequest, timezone string) (*AwardResult, error) {
	fixed, ok := xpReasonAmounts[req.Reason]
	if !ok {
		return nil, util.ErrInvalidXpReason
	}
	amount := fixed
	if fixed == 0 {
		if req.Amount <= 0 {
			return nil, util.ErrInvalidXpAmount
		}
		amount = req.Amount
	}

	// 发帖经验每天最多 3 次
	if req.Reason == model.XpReasonPostCreated {
		count, err := s.XpRepo.CountByReasonSince(studentID, model.XpReasonPostCreated, startOfUTCDay())
		if err != nil {
			return nil, err
		}
		if count >= dailyPostXpLimit {
			return nil, util.ErrDailyPostLimit
		}
	}

	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	if err := s.XpRepo.Create(&model.XpTransaction{
		StudentID:   studentID,
		Amount:      amount,
		Reason:      req.Reason,
		ReferenceID: req.ReferenceID,
	}); err != nil {
		return nil, err
	}
	monitoring.XpAwardCounter.WithLabelValues(req.Reason).Inc()

	oldLevel := CalculateLevel(student.XpTotal)
	student.XpTotal += amount
	newLevel := CalculateLevel(student.XpTotal)

	today := TodayInTimezone(timezone)
	student.CurrentStreak = NextStreak(student.LastActivityDate, today, student.CurrentStreak)
	if student.CurrentStreak > student.MaxStreak {
		student.MaxStreak = student.CurrentStreak
	}
	student.LastActivityDate = today
	student.CurrentLevel = newLevel

	if err := s.StudentRepo.Update(student); err != nil {
		return nil, err
	}

	result := &AwardResult{
		XpAwarded:     amount,
		Reason:        req.Reason,
		NewTotal:      student.XpTotal,
		CurrentStreak: student.CurrentStreak,
		MaxStreak:     student.MaxStreak,
	}

	if newLevel > oldLevel {
		result.LeveledUp = true
		result.NewLevel = newLevel
		result.NewLevelName = LevelName(newLevel)
		s.notifyLevelUp(studentID, oldLevel, newLevel)
	}

	if req.Reason == model.XpReasonExamPerfect && req.ReferenceID != "" {
		result.BadgeEarned = s.awardExamBadge(studentID, req.ReferenceID)
	}

	return result, nil
}

func (s *GamificationService) notifyLevelUp(studentID string, oldLevel, newLevel int) {
	payload, _ := json.Marshal(map[string]interface{}{
		"level":         newLevel,
		"previousLevel": oldLevel,
		"levelName":     LevelName(newLevel),
	})
	s.NotificationRepo.Create(&model.Notification{
		StudentID: studentID,
		Type:      model.NotificationLevelUp,
		Title:     "¡Subiste de nivel!",
		Message:   fmt.Sprintf("¡Felicidades! Ahora eres %s (Nivel %d)", LevelName(newLevel), newLevel),
		Data:      datatypes.JSON(payload),
	})
}

// awardExamBadge 满分徽章最多发一次，靠唯一索引兜底并发提交
func (s *GamificationService) awardExamBadge(studentID, examID string) *BadgeInfo {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil || exam.BadgeIcon == "" || exam.BadgeName == "" {
		return nil
	}

	if _, err := s.XpRepo.FindBadge(studentID, examID); err == nil {
		return nil
	}

	color := exam.BadgeColor
	if color == "" {
		color = defaultBadgeColor
	}

	badge := &model.StudentExamBadge{
		StudentID:  studentID,
		ExamID:     examID,
		BadgeIcon:  exam.BadgeIcon,
		BadgeName:  exam.BadgeName,
		BadgeColor: color,
		EarnedAt:   time.Now(),
	}
	if err := s.XpRepo.CreateBadge(badge); err != nil {
		return nil
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"badge_icon": exam.BadgeIcon,
		"badge_name": exam.BadgeName,
	})
	s.NotificationRepo.Create(&model.Notification{
		StudentID: studentID,
		Type:      model.NotificationBadgeEarned,
		Title:     "¡Nueva Insignia!",
		Message:   fmt.Sprintf("Has ganado la insignia %q", exam.BadgeName),
		Data:      datatypes.JSON(payload),
	})

	return &BadgeInfo{Icon: exam.BadgeIcon, Name: exam.BadgeName, Color: color}
}
