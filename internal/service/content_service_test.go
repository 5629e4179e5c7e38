package service

import (
	"errors"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func newContentService(db *gorm.DB) *ContentService {
	return NewContentService(
		repository.NewCourseRepository(db),
		repository.NewExamRepository(db),
		nil,
	)
}

func TestCreateCourseHierarchy(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)

	course, err := svc.CreateCourse(CourseRequest{
		Title:       "Emprendimiento Junior",
		Slug:        "emprendimiento-junior",
		Category:    "negocios",
		XpReward:    150,
		IsPublished: true,
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	module, err := svc.AddModule(course.ID, ModuleRequest{Title: "Primeros pasos"})
	if err != nil {
		t.Fatalf("AddModule: %v", err)
	}

	lesson, err := svc.AddLesson(module.ID, LessonRequest{Title: "¿Qué es un negocio?", XpReward: 25})
	if err != nil {
		t.Fatalf("AddLesson: %v", err)
	}
	if lesson.ModuleID != module.ID {
		t.Fatalf("lesson module = %s, want %s", lesson.ModuleID, module.ID)
	}

	if _, err := svc.AddModule("missing", ModuleRequest{Title: "x"}); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if _, err := svc.AddLesson("missing", LessonRequest{Title: "x"}); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestUpdateCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)
	course, _ := createTestCourse(t, db, 1)

	updated, err := svc.UpdateCourse(course.ID, CourseRequest{
		Title:       "Finanzas para niños v2",
		Slug:        course.Slug,
		Category:    "finanzas",
		IsPublished: false,
	})
	if err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}
	if updated.Title != "Finanzas para niños v2" || updated.IsPublished {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := svc.UpdateCourse("missing", CourseRequest{Title: "x", Slug: "x", Category: "x"}); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestSetExam_ReplacesActiveExam(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)
	course, _ := createTestCourse(t, db, 1)

	question := ExamQuestionRequest{
		Question:      "¿Qué es el ahorro?",
		Options:       []string{"Gastar todo", "Guardar parte del dinero", "Pedir prestado"},
		CorrectOption: 1,
	}

	first, err := svc.SetExam(course.ID, ExamRequest{Title: "Examen v1", Questions: []ExamQuestionRequest{question}})
	if err != nil {
		t.Fatalf("SetExam: %v", err)
	}
	if !first.IsActive || first.PassingScore != 60 {
		t.Fatalf("exam = active=%v passing=%d, want true/60", first.IsActive, first.PassingScore)
	}

	second, err := svc.SetExam(course.ID, ExamRequest{
		Title:        "Examen v2",
		PassingScore: 80,
		Questions:    []ExamQuestionRequest{question, question},
	})
	if err != nil {
		t.Fatalf("second SetExam: %v", err)
	}

	var old model.Exam
	if err := db.First(&old, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("load old exam: %v", err)
	}
	if old.IsActive {
		t.Fatalf("old exam must be deactivated")
	}

	var active model.Exam
	if err := db.First(&active, "course_id = ? AND is_active = ?", course.ID, true).Error; err != nil {
		t.Fatalf("load active exam: %v", err)
	}
	if active.ID != second.ID || active.PassingScore != 80 {
		t.Fatalf("active exam = %s/%d, want %s/80", active.ID, active.PassingScore, second.ID)
	}

	var questionCount int64
	db.Model(&model.ExamQuestion{}).Where("exam_id = ?", second.ID).Count(&questionCount)
	if questionCount != 2 {
		t.Fatalf("question rows = %d, want 2", questionCount)
	}
}

func TestSetExam_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)
	course, _ := createTestCourse(t, db, 1)

	if _, err := svc.SetExam(course.ID, ExamRequest{Title: "Vacío"}); err == nil {
		t.Fatalf("exam without questions must be rejected")
	}

	bad := ExamQuestionRequest{
		Question:      "¿Opción fuera de rango?",
		Options:       []string{"A", "B"},
		CorrectOption: 2,
	}
	if _, err := svc.SetExam(course.ID, ExamRequest{Title: "Malo", Questions: []ExamQuestionRequest{bad}}); err == nil {
		t.Fatalf("out of range correctOption must be rejected")
	}

	if _, err := svc.SetExam("missing", ExamRequest{Title: "x"}); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}
