package service

import (
	"errors"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/util"
	"testing"
)

func TestCatalog_AggregatesAndFilters(t *testing.T) {
	db := newTestDB(t)
	courses := newCourseService(db)
	progress := newProgressService(db)
	student := createTestStudent(t, db, "Ana", 0)

	enrolled, lessons := createTestCourse(t, db, 2)
	createTestCourse(t, db, 3)

	// 未发布课程不进目录
	hidden := &model.Course{Title: "Borrador", Slug: model.GenerateUUID(), Category: "finanzas"}
	if err := db.Create(hidden).Error; err != nil {
		t.Fatalf("create draft: %v", err)
	}

	if _, err := progress.SaveLessonProgress(student.ID, SaveProgressRequest{
		CourseID:    enrolled.ID,
		LessonID:    lessons[0].ID,
		IsCompleted: true,
	}); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	summaries, err := courses.Catalog(student.ID, "", false)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("catalog size = %d, want 2", len(summaries))
	}

	var found *CourseSummary
	for i := range summaries {
		if summaries[i].ID == enrolled.ID {
			found = &summaries[i]
		}
	}
	if found == nil {
		t.Fatalf("enrolled course missing from catalog")
	}
	if !found.IsEnrolled || found.CompletedLessons != 1 || found.ProgressPercent != 50 {
		t.Fatalf("summary = %+v, want enrolled 1/50%%", found)
	}
	if found.TotalDurationMinutes != 10 {
		t.Fatalf("duration = %d, want 10", found.TotalDurationMinutes)
	}

	onlyEnrolled, err := courses.Catalog(student.ID, "", true)
	if err != nil {
		t.Fatalf("Catalog enrolled: %v", err)
	}
	if len(onlyEnrolled) != 1 || onlyEnrolled[0].ID != enrolled.ID {
		t.Fatalf("enrolledOnly returned %d courses", len(onlyEnrolled))
	}
}

func TestDetail_SequentialUnlock(t *testing.T) {
	db := newTestDB(t)
	courses := newCourseService(db)
	progress := newProgressService(db)
	student := createTestStudent(t, db, "Ana", 0)
	course, lessons := createTestCourse(t, db, 3)

	detail, err := courses.Detail(student.ID, course.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	got := detail.Modules[0].Lessons
	if !got[0].IsUnlocked || got[1].IsUnlocked || got[2].IsUnlocked {
		t.Fatalf("fresh course must unlock only the first lesson: %v %v %v",
			got[0].IsUnlocked, got[1].IsUnlocked, got[2].IsUnlocked)
	}

	if _, err := progress.SaveLessonProgress(student.ID, SaveProgressRequest{
		CourseID:    course.ID,
		LessonID:    lessons[0].ID,
		IsCompleted: true,
	}); err != nil {
		t.Fatalf("complete lesson: %v", err)
	}

	detail, err = courses.Detail(student.ID, course.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	got = detail.Modules[0].Lessons
	if !got[0].IsCompleted || !got[1].IsUnlocked || got[2].IsUnlocked {
		t.Fatalf("after first completion: completed=%v second=%v third=%v",
			got[0].IsCompleted, got[1].IsUnlocked, got[2].IsUnlocked)
	}
}

func TestDetail_ModuleGateRequiresFullPreviousModule(t *testing.T) {
	db := newTestDB(t)
	courses := newCourseService(db)
	progress := newProgressService(db)
	student := createTestStudent(t, db, "Ana", 0)

	course := &model.Course{Title: "Finanzas", Slug: model.GenerateUUID(), Category: "finanzas", IsPublished: true}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	m1 := &model.Module{CourseID: course.ID, Title: "Módulo 1", OrderIndex: 0}
	m2 := &model.Module{CourseID: course.ID, Title: "Módulo 2", OrderIndex: 1}
	for _, m := range []*model.Module{m1, m2} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("create module: %v", err)
		}
	}
	lessonA := &model.Lesson{ModuleID: m1.ID, Title: "A", OrderIndex: 0}
	lessonB := &model.Lesson{ModuleID: m1.ID, Title: "B", OrderIndex: 1}
	lessonC := &model.Lesson{ModuleID: m2.ID, Title: "C", OrderIndex: 0}
	for _, l := range []*model.Lesson{lessonA, lessonB, lessonC} {
		if err := db.Create(l).Error; err != nil {
			t.Fatalf("create lesson: %v", err)
		}
	}

	// 乱序只完成了 B，模块 1 未完整，模块 2 必须保持锁定
	if _, err := progress.SaveLessonProgress(student.ID, SaveProgressRequest{
		CourseID:    course.ID,
		LessonID:    lessonB.ID,
		IsCompleted: true,
	}); err != nil {
		t.Fatalf("complete B: %v", err)
	}

	detail, err := courses.Detail(student.ID, course.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if detail.Modules[1].IsUnlocked {
		t.Fatalf("module 2 must stay locked while module 1 is incomplete")
	}
	if detail.Modules[1].Lessons[0].IsUnlocked {
		t.Fatalf("lesson C must stay locked while module 1 is incomplete")
	}
	if !detail.Modules[0].Lessons[0].IsUnlocked {
		t.Fatalf("first lesson of the first module must be unlocked")
	}
	// B 已完成可回看
	if !detail.Modules[0].Lessons[1].IsUnlocked {
		t.Fatalf("completed lesson B must stay accessible")
	}

	if _, err := progress.SaveLessonProgress(student.ID, SaveProgressRequest{
		CourseID:    course.ID,
		LessonID:    lessonA.ID,
		IsCompleted: true,
	}); err != nil {
		t.Fatalf("complete A: %v", err)
	}

	detail, err = courses.Detail(student.ID, course.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if !detail.Modules[1].IsUnlocked || !detail.Modules[1].Lessons[0].IsUnlocked {
		t.Fatalf("module 2 must unlock once module 1 is fully complete")
	}
}

func TestDetail_UnpublishedCourseHidden(t *testing.T) {
	db := newTestDB(t)
	courses := newCourseService(db)
	student := createTestStudent(t, db, "Ana", 0)

	draft := &model.Course{Title: "Borrador", Slug: model.GenerateUUID()}
	if err := db.Create(draft).Error; err != nil {
		t.Fatalf("create draft: %v", err)
	}

	if _, err := courses.Detail(student.ID, draft.ID); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestDetail_AttachesActiveExam(t *testing.T) {
	db := newTestDB(t)
	courses := newCourseService(db)
	student := createTestStudent(t, db, "Ana", 0)
	course, _ := createTestCourse(t, db, 1)

	exam := &model.Exam{CourseID: course.ID, Title: "Final", IsActive: true}
	if err := db.Create(exam).Error; err != nil {
		t.Fatalf("create exam: %v", err)
	}

	detail, err := courses.Detail(student.ID, course.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if !detail.HasExam || detail.ExamID != exam.ID {
		t.Fatalf("detail exam = %v/%s, want true/%s", detail.HasExam, detail.ExamID, exam.ID)
	}
}
