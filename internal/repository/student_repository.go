package repository

import (
	"stareduca_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Create(student).Error
}

func (r *StudentRepository) FindByID(id string) (*model.Student, error) {
	var student model.Student
	err := r.DB.First(&student, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) FindByExternalID(externalID string) (*model.Student, error) {
	var student model.Student
	err := r.DB.First(&student, "external_id = ?", externalID).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) Update(student *model.Student) error {
	return r.DB.Save(student).Error
}

// UpdateProfile 只覆盖 Hub 下发的档案字段，不触碰游戏化字段
func (r *StudentRepository) UpdateProfile(id string, fields map[string]interface{}) error {
	return r.DB.Model(&model.Student{}).Where("id = ?", id).Updates(fields).Error
}
