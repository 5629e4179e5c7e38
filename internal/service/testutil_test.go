package service

import (
	"fmt"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/pkg/database"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newGamificationService(db *gorm.DB) *GamificationService {
	return NewGamificationService(
		repository.NewStudentRepository(db),
		repository.NewXpRepository(db),
		repository.NewExamRepository(db),
		repository.NewNotificationRepository(db),
	)
}

func newCommunityService(db *gorm.DB) *CommunityService {
	return NewCommunityService(
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		repository.NewReactionRepository(db),
		repository.NewStudentRepository(db),
		repository.NewNotificationRepository(db),
		newGamificationService(db),
	)
}

func newCourseService(db *gorm.DB) *CourseService {
	return NewCourseService(
		repository.NewCourseRepository(db),
		repository.NewProgressRepository(db),
		repository.NewExamRepository(db),
		nil,
	)
}

func newProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewCourseRepository(db),
		repository.NewProgressRepository(db),
		newCourseService(db),
	)
}

func createTestStudent(t *testing.T, db *gorm.DB, firstName string, xpTotal int) *model.Student {
	t.Helper()

	student := &model.Student{
		ExternalID:   model.GenerateUUID(),
		Code:         "E-TEST0001",
		FirstName:    firstName,
		XpTotal:      xpTotal,
		CurrentLevel: CalculateLevel(xpTotal),
	}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	return student
}

// createTestCourse 建一门已发布课程：单模块，lessonCount 个课时
func createTestCourse(t *testing.T, db *gorm.DB, lessonCount int) (*model.Course, []model.Lesson) {
	t.Helper()

	course := &model.Course{
		Title:       "Finanzas para niños",
		Slug:        model.GenerateUUID(),
		Category:    "finanzas",
		XpReward:    100,
		IsPublished: true,
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	module := &model.Module{CourseID: course.ID, Title: "Módulo 1", OrderIndex: 0}
	if err := db.Create(module).Error; err != nil {
		t.Fatalf("create module: %v", err)
	}

	lessons := make([]model.Lesson, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lessons[i] = model.Lesson{
			ModuleID:        module.ID,
			Title:           fmt.Sprintf("Lección %d", i+1),
			DurationMinutes: 5,
			XpReward:        25,
			OrderIndex:      i,
		}
		if err := db.Create(&lessons[i]).Error; err != nil {
			t.Fatalf("create lesson: %v", err)
		}
	}

	return course, lessons
}
