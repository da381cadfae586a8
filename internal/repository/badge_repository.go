package repository

import (
	"primary_reading_backend/internal/model"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindEnabled() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("enabled = ?", true).Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) FindByChild(childID uint) ([]model.ChildBadge, error) {
	var awarded []model.ChildBadge
	err := r.DB.Preload("Badge").Where("child_profile_id = ?", childID).Find(&awarded).Error
	return awarded, err
}

func (r *BadgeRepository) HasBadge(childID, badgeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ChildBadge{}).
		Where("child_profile_id = ? AND badge_id = ?", childID, badgeID).
		Count(&count).Error
	return count > 0, err
}

func (r *BadgeRepository) Award(award *model.ChildBadge) error {
	return r.DB.Create(award).Error
}
