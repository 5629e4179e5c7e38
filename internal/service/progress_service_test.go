package service

import (
	"errors"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/util"
	"testing"
)

func TestSaveLessonProgress_ComputesPercent(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "Ana", 0)
	course, lessons := createTestCourse(t, db, 4)

	for i := 0; i < 3; i++ {
		snapshot, err := svc.SaveLessonProgress(student.ID, SaveProgressRequest{
			CourseID:         course.ID,
			LessonID:         lessons[i].ID,
			WatchTimeSeconds: 300,
			IsCompleted:      true,
		})
		if err != nil {
			t.Fatalf("save lesson %d: %v", i+1, err)
		}
		if i == 2 && snapshot.ProgressPercent != 75 {
			t.Fatalf("3 of 4 lessons = %d%%, want 75", snapshot.ProgressPercent)
		}
	}

	var enrollment model.Enrollment
	if err := db.First(&enrollment, "student_id = ? AND course_id = ?", student.ID, course.ID).Error; err != nil {
		t.Fatalf("enrollment should be lazily created: %v", err)
	}
	if enrollment.Status != model.EnrollmentActive || enrollment.ProgressPercent != 75 {
		t.Fatalf("enrollment = %s/%d%%, want active/75", enrollment.Status, enrollment.ProgressPercent)
	}
}

func TestSaveLessonProgress_RepeatCompletionIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "Ana", 0)
	course, lessons := createTestCourse(t, db, 2)

	req := SaveProgressRequest{
		CourseID:    course.ID,
		LessonID:    lessons[0].ID,
		IsCompleted: true,
	}
	if _, err := svc.SaveLessonProgress(student.ID, req); err != nil {
		t.Fatalf("first save: %v", err)
	}
	snapshot, err := svc.SaveLessonProgress(student.ID, req)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if snapshot.CompletedLessons != 1 || snapshot.ProgressPercent != 50 {
		t.Fatalf("snapshot = %d lessons %d%%, want 1/50", snapshot.CompletedLessons, snapshot.ProgressPercent)
	}

	var count int64
	db.Model(&model.LessonProgress{}).Where("student_id = ? AND lesson_id = ?", student.ID, lessons[0].ID).Count(&count)
	if count != 1 {
		t.Fatalf("lesson progress rows = %d, want 1", count)
	}
}

func TestSaveLessonProgress_CompletionNeverRegresses(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "Ana", 0)
	course, lessons := createTestCourse(t, db, 1)

	if _, err := svc.SaveLessonProgress(student.ID, SaveProgressRequest{
		CourseID:    course.ID,
		LessonID:    lessons[0].ID,
		IsCompleted: true,
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// 继续回看视频时只更新观看时长
	if _, err := svc.SaveLessonProgress(student.ID, SaveProgressRequest{
		CourseID:         course.ID,
		LessonID:         lessons[0].ID,
		WatchTimeSeconds: 30,
	}); err != nil {
		t.Fatalf("rewatch: %v", err)
	}

	var lp model.LessonProgress
	if err := db.First(&lp, "student_id = ? AND lesson_id = ?", student.ID, lessons[0].ID).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if !lp.IsCompleted {
		t.Fatalf("completion must not regress")
	}
	if lp.WatchTimeSeconds != 30 {
		t.Fatalf("watch time = %d, want 30", lp.WatchTimeSeconds)
	}
}

func TestSaveLessonProgress_RejectsForeignLesson(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "Ana", 0)
	courseA, _ := createTestCourse(t, db, 1)
	_, lessonsB := createTestCourse(t, db, 1)

	_, err := svc.SaveLessonProgress(student.ID, SaveProgressRequest{
		CourseID:    courseA.ID,
		LessonID:    lessonsB[0].ID,
		IsCompleted: true,
	})
	if !errors.Is(err, util.ErrLessonNotInCourse) {
		t.Fatalf("expected ErrLessonNotInCourse, got %v", err)
	}

	_, err = svc.SaveLessonProgress(student.ID, SaveProgressRequest{
		CourseID: courseA.ID,
		LessonID: "missing",
	})
	if !errors.Is(err, util.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestMarkCourseCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "Ana", 0)
	course, _ := createTestCourse(t, db, 3)

	snapshot, err := svc.MarkCourseCompleted(student.ID, course.ID)
	if err != nil {
		t.Fatalf("MarkCourseCompleted: %v", err)
	}
	if snapshot.Status != model.EnrollmentCompleted || snapshot.ProgressPercent != 100 {
		t.Fatalf("snapshot = %s/%d%%, want completed/100", snapshot.Status, snapshot.ProgressPercent)
	}
	if snapshot.CompletedAt == nil {
		t.Fatalf("completedAt must be set")
	}
}

func TestCourseProgress_UnknownCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	student := createTestStudent(t, db, "Ana", 0)

	if _, err := svc.CourseProgress(student.ID, "missing"); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}
