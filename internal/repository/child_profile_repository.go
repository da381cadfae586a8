package repository

import (
	"primary_reading_backend/internal/model"

	"gorm.io/gorm"
)

type ChildProfileRepository struct {
	DB *gorm.DB
}

func NewChildProfileRepository(db *gorm.DB) *ChildProfileRepository {
	return &ChildProfileRepository{DB: db}
}

func (r *ChildProfileRepository) Create(profile *model.ChildProfile) error {
	return r.DB.Create(profile).Error
}

// FindByIDForUser 只返回属于该家长的档案，避免越权读取
func (r *ChildProfileRepository) FindByIDForUser(id, userID uint) (*model.ChildProfile, error) {
	var profile model.ChildProfile
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&profile).Error
	return &profile, err
}

func (r *ChildProfileRepository) FindByUserID(userID uint) ([]model.ChildProfile, error) {
	var profiles []model.ChildProfile
	err := r.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&profiles).Error
	return profiles, err
}

func (r *ChildProfileRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ChildProfile{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *ChildProfileRepository) Update(profile *model.ChildProfile) error {
	return r.DB.Save(profile).Error
}

func (r *ChildProfileRepository) Delete(id, userID uint) error {
	return r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.ChildProfile{}).Error
}

func (r *ChildProfileRepository) AddPoints(id uint, points int) error {
	return r.DB.Model(&model.ChildProfile{}).
		Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", points)).
		Error
}
