package repository

import (
	"primary_reading_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CheckinRepository struct {
	DB *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{DB: db}
}

func (r *CheckinRepository) FindLatest(childID uint) (*model.ReadingCheckin, error) {
	var checkin model.ReadingCheckin
	err := r.DB.Where("child_profile_id = ?", childID).Order("checkin_at DESC").First(&checkin).Error
	return &checkin, err
}

func (r *CheckinRepository) FindOnDate(childID uint, day time.Time) (*model.ReadingCheckin, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)
	var checkin model.ReadingCheckin
	err := r.DB.Where("child_profile_id = ? AND checkin_at >= ? AND checkin_at < ?", childID, start, end).
		First(&checkin).Error
	return &checkin, err
}

func (r *CheckinRepository) Create(checkin *model.ReadingCheckin) error {
	return r.DB.Create(checkin).Error
}
