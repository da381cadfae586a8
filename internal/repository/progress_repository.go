package repository

import (
	"primary_reading_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByChildAndStory(childID, storyID uint) (*model.ReadingProgress, error) {
	var progress model.ReadingProgress
	err := r.DB.Where("child_profile_id = ? AND story_id = ?", childID, storyID).First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) FindByChild(childID uint) ([]model.ReadingProgress, error) {
	var progress []model.ReadingProgress
	err := r.DB.Where("child_profile_id = ?", childID).Order("updated_at DESC").Find(&progress).Error
	return progress, err
}

// Upsert 推进阅读进度；段落位置只前进不后退
func (r *ProgressRepository) Upsert(childID, storyID uint, segment int, completed bool) (*model.ReadingProgress, error) {
	var progress model.ReadingProgress
	err := r.DB.Where("child_profile_id = ? AND story_id = ?", childID, storyID).First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		progress = model.ReadingProgress{
			ChildProfileID: childID,
			StoryID:        storyID,
			CurrentSegment: segment,
			Completed:      completed,
		}
		if completed {
			now := time.Now()
			progress.CompletedAt = &now
		}
		return &progress, r.DB.Create(&progress).Error
	}
	if err != nil {
		return nil, err
	}

	if segment > progress.CurrentSegment {
		progress.CurrentSegment = segment
	}
	if completed && !progress.Completed {
		progress.Completed = true
		now := time.Now()
		progress.CompletedAt = &now
	}
	return &progress, r.DB.Save(&progress).Error
}

func (r *ProgressRepository) CountCompleted(childID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ReadingProgress{}).
		Where("child_profile_id = ? AND completed = ?", childID, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) CreateAnswer(answer *model.QuestionAnswer) error {
	return r.DB.Create(answer).Error
}

func (r *ProgressRepository) FindAnswer(childID, questionID uint) (*model.QuestionAnswer, error) {
	var answer model.QuestionAnswer
	err := r.DB.Where("child_profile_id = ? AND question_id = ?", childID, questionID).First(&answer).Error
	return &answer, err
}

func (r *ProgressRepository) CountCorrectAnswers(childID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuestionAnswer{}).
		Where("child_profile_id = ? AND correct = ?", childID, true).
		Count(&count).Error
	return count, err
}
