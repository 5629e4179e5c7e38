package database

import (
	"fmt"
	"log"
	"stareduca_backend/internal/config"
	"stareduca_backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.Port,
		cfg.SSLMode,
		cfg.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate 执行全部表结构迁移，测试环境也复用这份清单
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Student{},
		&model.Course{},
		&model.Module{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.LessonProgress{},
		&model.Exam{},
		&model.ExamQuestion{},
		&model.ExamResult{},
		&model.XpTransaction{},
		&model.StudentExamBadge{},
		&model.Post{},
		&model.Comment{},
		&model.Reaction{},
		&model.Notification{},
	)
}
