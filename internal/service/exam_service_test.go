package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/util"
	"strings"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newExamService(db *gorm.DB) *ExamService {
	return NewExamService(repository.NewExamRepository(db), newGamificationService(db))
}

func createTestExam(t *testing.T, db *gorm.DB, questionCount int) *model.Exam {
	t.Helper()

	exam := &model.Exam{
		CourseID:     model.GenerateUUID(),
		Title:        "Examen final",
		PassingScore: 60,
		BadgeIcon:    "🏆",
		BadgeName:    "Maestro",
		IsActive:     true,
	}
	options, _ := json.Marshal([]string{"A", "B", "C", "D"})
	for i := 0; i < questionCount; i++ {
		exam.Questions = append(exam.Questions, model.ExamQuestion{
			Question:      fmt.Sprintf("Pregunta %d", i+1),
			Options:       datatypes.JSON(options),
			CorrectOption: i % 4,
			OrderIndex:    i,
		})
	}
	if err := db.Create(exam).Error; err != nil {
		t.Fatalf("create exam: %v", err)
	}
	return exam
}

func examAnswers(exam *model.Exam, correct int) map[string]int {
	answers := make(map[string]int, len(exam.Questions))
	for i, q := range exam.Questions {
		if i < correct {
			answers[q.ID] = q.CorrectOption
		} else {
			answers[q.ID] = (q.CorrectOption + 1) % 4
		}
	}
	return answers
}

func TestSubmit_ScoresAndAwardsByTier(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	student := createTestStudent(t, db, "Ana", 0)
	exam := createTestExam(t, db, 5)

	// 4 de 5 = 80%，分档 exam_good 125
	result, err := svc.Submit(student.ID, exam.ID, examAnswers(exam, 4), "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Score != 4 || result.Percentage != 80 || !result.Passed {
		t.Fatalf("result = %d/%d%% passed=%v, want 4/80/true", result.Score, result.Percentage, result.Passed)
	}
	if result.Award == nil || result.Award.XpAwarded != 125 || result.Award.Reason != model.XpReasonExamGood {
		t.Fatalf("award = %+v, want 125 exam_good", result.Award)
	}

	var saved model.ExamResult
	if err := db.First(&saved, "student_id = ? AND exam_id = ?", student.ID, exam.ID).Error; err != nil {
		t.Fatalf("result row missing: %v", err)
	}
	if saved.Percentage != 80 || !saved.Passed {
		t.Fatalf("saved result = %d%% passed=%v", saved.Percentage, saved.Passed)
	}
}

func TestSubmit_PerfectScoreEarnsBadge(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	student := createTestStudent(t, db, "Ana", 0)
	exam := createTestExam(t, db, 4)

	result, err := svc.Submit(student.ID, exam.ID, examAnswers(exam, 4), "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Percentage != 100 {
		t.Fatalf("percentage = %d, want 100", result.Percentage)
	}
	if result.Award == nil || result.Award.Reason != model.XpReasonExamPerfect {
		t.Fatalf("award = %+v, want exam_perfect", result.Award)
	}
	if result.Award.BadgeEarned == nil {
		t.Fatalf("perfect score must earn the badge")
	}

	// 再考一次满分不再发徽章
	again, err := svc.Submit(student.ID, exam.ID, examAnswers(exam, 4), "")
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if again.Award != nil && again.Award.BadgeEarned != nil {
		t.Fatalf("badge awarded twice")
	}
}

func TestSubmit_FailingScoreAwardsNothing(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	student := createTestStudent(t, db, "Ana", 0)
	exam := createTestExam(t, db, 5)

	result, err := svc.Submit(student.ID, exam.ID, examAnswers(exam, 2), "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Passed || result.Award != nil {
		t.Fatalf("40%% must fail without award, got %+v", result)
	}

	var count int64
	db.Model(&model.XpTransaction{}).Where("student_id = ?", student.ID).Count(&count)
	if count != 0 {
		t.Fatalf("xp transactions = %d, want 0", count)
	}
}

func TestSubmit_RequiresAllAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	student := createTestStudent(t, db, "Ana", 0)
	exam := createTestExam(t, db, 3)

	answers := examAnswers(exam, 3)
	delete(answers, exam.Questions[1].ID)

	if _, err := svc.Submit(student.ID, exam.ID, answers, ""); !errors.Is(err, util.ErrIncompleteAnswers) {
		t.Fatalf("expected ErrIncompleteAnswers, got %v", err)
	}
}

func TestGetForCourse_NeverShipsCorrectAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	student := createTestStudent(t, db, "Ana", 0)
	exam := createTestExam(t, db, 3)

	view, err := svc.GetForCourse(student.ID, exam.CourseID)
	if err != nil {
		t.Fatalf("GetForCourse: %v", err)
	}
	if len(view.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(view.Questions))
	}

	payload, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(strings.ToLower(string(payload)), "correctoption") {
		t.Fatalf("serialized exam leaks correct answers: %s", payload)
	}
}

func TestGetForCourse_InactiveExamHidden(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	student := createTestStudent(t, db, "Ana", 0)
	exam := createTestExam(t, db, 2)

	if err := db.Model(&model.Exam{}).Where("id = ?", exam.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := svc.GetForCourse(student.ID, exam.CourseID); !errors.Is(err, util.ErrExamNotFound) {
		t.Fatalf("expected ErrExamNotFound, got %v", err)
	}
}
