package service

import (
	"encoding/json"
	"errors"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/util"
	"testing"
	"time"
)

func TestAwardXP_FixedAmountIgnoresClientAmount(t *testing.T) {
	db := newTestDB(t)
	svc := newGamificationService(db)
	student := createTestStudent(t, db, "Ana", 0)

	result, err := svc.AwardXP(student.ID, AwardRequest{Amount: 9999, Reason: model.XpReasonDailyLogin}, "")
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if result.XpAwarded != 5 {
		t.Fatalf("daily_login must award 5, got %d", result.XpAwarded)
	}
	if result.NewTotal != 5 {
		t.Fatalf("new total = %d, want 5", result.NewTotal)
	}

	var tx model.XpTransaction
	if err := db.First(&tx, "student_id = ?", student.ID).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if tx.Amount != 5 || tx.Reason != model.XpReasonDailyLogin {
		t.Fatalf("transaction = %d/%s, want 5/daily_login", tx.Amount, tx.Reason)
	}
}

func TestAwardXP_VariableReasonRequiresAmount(t *testing.T) {
	db := newTestDB(t)
	svc := newGamificationService(db)
	student := createTestStudent(t, db, "Ana", 0)

	if _, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonLessonComplete}, ""); !errors.Is(err, util.ErrInvalidXpAmount) {
		t.Fatalf("expected ErrInvalidXpAmount, got %v", err)
	}

	result, err := svc.AwardXP(student.ID, AwardRequest{Amount: 25, Reason: model.XpReasonLessonComplete}, "")
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if result.XpAwarded != 25 {
		t.Fatalf("lesson_complete should honor request amount, got %d", result.XpAwarded)
	}
}

func TestAwardXP_UnknownReasonRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newGamificationService(db)
	student := createTestStudent(t, db, "Ana", 0)

	if _, err := svc.AwardXP(student.ID, AwardRequest{Amount: 10, Reason: "hacking"}, ""); !errors.Is(err, util.ErrInvalidXpReason) {
		t.Fatalf("expected ErrInvalidXpReason, got %v", err)
	}
}

func TestAwardXP_LevelUpCreatesNotification(t *testing.T) {
	db := newTestDB(t)
	svc := newGamificationService(db)
	student := createTestStudent(t, db, "Ana", 95)

	result, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonDailyLogin}, "")
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if !result.LeveledUp || result.NewLevel != 2 || result.NewLevelName != "Aprendiz" {
		t.Fatalf("expected level up to 2 Aprendiz, got %+v", result)
	}

	var notif model.Notification
	if err := db.First(&notif, "student_id = ? AND type = ?", student.ID, model.NotificationLevelUp).Error; err != nil {
		t.Fatalf("level up notification missing: %v", err)
	}
	if notif.Title != "¡Subiste de nivel!" {
		t.Fatalf("unexpected title %q", notif.Title)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(notif.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["levelName"] != "Aprendiz" {
		t.Fatalf("payload levelName = %v", payload["levelName"])
	}
}

func TestAwardXP_StreakAdvances(t *testing.T) {
	db := newTestDB(t)
	svc := newGamificationService(db)
	student := createTestStudent(t, db, "Ana", 0)

	// 首次活动从 1 起步
	result, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonDailyLogin}, "")
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if result.CurrentStreak != 1 || result.MaxStreak != 1 {
		t.Fatalf("streak = %d/%d, want 1/1", result.CurrentStreak, result.MaxStreak)
	}

	// 同一天再发不加天数
	result, err = svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonMaterialView}, "")
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if result.CurrentStreak != 1 {
		t.Fatalf("same day streak = %d, want 1", result.CurrentStreak)
	}
}

func TestAwardXP_PostCreatedDailyCap(t *testing.T) {
	db := newTestDB(t)
	svc := newGamificationService(db)
	student := createTestStudent(t, db, "Ana", 0)

	for i := 0; i < 3; i++ {
		if _, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonPostCreated}, ""); err != nil {
			t.Fatalf("award %d: %v", i+1, err)
		}
	}

	if _, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonPostCreated}, ""); !errors.Is(err, util.ErrDailyPostLimit) {
		t.Fatalf("expected ErrDailyPostLimit on 4th award, got %v", err)
	}
}

func TestAwardXP_PostCapWindowIsUtcDay(t *testing.T) {
	db := newTestDB(t)
	svc := newGamificationService(db)
	student := createTestStudent(t, db, "Ana", 0)

	// 昨天（UTC）的发帖经验不占今天的配额
	yesterday := startOfUTCDay().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		tx := &model.XpTransaction{
			StudentID: student.ID,
			Amount:    10,
			Reason:    model.XpReasonPostCreated,
		}
		tx.CreatedAt = yesterday
		if err := db.Create(tx).Error; err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}

	if _, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonPostCreated}, ""); err != nil {
		t.Fatalf("yesterday's awards must not count toward today: %v", err)
	}

	// 报一个别的时区也挪不动配额窗口
	for i := 0; i < 2; i++ {
		if _, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonPostCreated}, "Asia/Tokyo"); err != nil {
			t.Fatalf("award %d: %v", i+2, err)
		}
	}
	if _, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonPostCreated}, "Asia/Tokyo"); !errors.Is(err, util.ErrDailyPostLimit) {
		t.Fatalf("expected ErrDailyPostLimit on 4th award today, got %v", err)
	}
}

func TestAwardXP_PerfectExamBadgeOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newGamificationService(db)
	student := createTestStudent(t, db, "Ana", 0)

	exam := &model.Exam{
		CourseID:  model.GenerateUUID(),
		Title:     "Examen final",
		BadgeIcon: "🏆",
		BadgeName: "Maestro de Finanzas",
	}
	if err := db.Create(exam).Error; err != nil {
		t.Fatalf("create exam: %v", err)
	}

	first, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonExamPerfect, ReferenceID: exam.ID}, "")
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if first.BadgeEarned == nil || first.BadgeEarned.Name != "Maestro de Finanzas" {
		t.Fatalf("expected badge on first perfect score, got %+v", first.BadgeEarned)
	}
	if first.BadgeEarned.Color != defaultBadgeColor {
		t.Fatalf("empty badge color should default, got %q", first.BadgeEarned.Color)
	}

	second, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonExamPerfect, ReferenceID: exam.ID}, "")
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if second.BadgeEarned != nil {
		t.Fatalf("badge must not be awarded twice")
	}

	var count int64
	db.Model(&model.StudentExamBadge{}).Where("student_id = ?", student.ID).Count(&count)
	if count != 1 {
		t.Fatalf("badge rows = %d, want 1", count)
	}
}

func TestSummary_AggregatesProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newGamificationService(db)
	student := createTestStudent(t, db, "Ana", 0)

	if _, err := svc.AwardXP(student.ID, AwardRequest{Reason: model.XpReasonCourseStart}, ""); err != nil {
		t.Fatalf("AwardXP: %v", err)
	}

	summary, err := svc.Summary(student.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.XpTotal != 10 || summary.CurrentLevel != 1 {
		t.Fatalf("summary = %d xp level %d, want 10/1", summary.XpTotal, summary.CurrentLevel)
	}
	if summary.XpToNextLevel != 90 {
		t.Fatalf("xp to next = %d, want 90", summary.XpToNextLevel)
	}
	if len(summary.RecentXp) != 1 || summary.RecentXp[0].Reason != model.XpReasonCourseStart {
		t.Fatalf("recent xp = %+v", summary.RecentXp)
	}
}
