package repository

import (
	"primary_reading_backend/internal/model"

	"gorm.io/gorm"
)

type StoryRepository struct {
	DB *gorm.DB
}

func NewStoryRepository(db *gorm.DB) *StoryRepository {
	return &StoryRepository{DB: db}
}

// Create 一次写入故事及其段落、题目
func (r *StoryRepository) Create(story *model.Story) error {
	return r.DB.Create(story).Error
}

// FindByIDForOwner 按 created_by 过滤；非属主查询返回 gorm.ErrRecordNotFound，
// 不暴露"存在但无权限"的信息
func (r *StoryRepository) FindByIDForOwner(id, ownerID uint) (*model.Story, error) {
	var story model.Story
	err := r.DB.
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("segment_order ASC")
		}).
		Preload("Questions").
		Where("id = ? AND created_by = ?", id, ownerID).
		First(&story).Error
	return &story, err
}

// FindReadable 属主的所有故事加上公开故事
func (r *StoryRepository) FindReadable(id, userID uint) (*model.Story, error) {
	var story model.Story
	err := r.DB.
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("segment_order ASC")
		}).
		Preload("Questions").
		Where("id = ? AND (created_by = ? OR is_public = ?)", id, userID, true).
		First(&story).Error
	return &story, err
}

type StoryFilter struct {
	OwnerID    uint
	YearLevel  int
	OnlyPublic bool
	AllOwners  bool // 管理端列表不按属主过滤
	Page       int
	Limit      int
}

func (r *StoryRepository) List(filter StoryFilter) ([]model.Story, int64, error) {
	query := r.DB.Model(&model.Story{})

	if filter.OnlyPublic {
		query = query.Where("is_public = ?", true)
	} else if !filter.AllOwners {
		query = query.Where("created_by = ?", filter.OwnerID)
	}
	if filter.YearLevel > 0 {
		query = query.Where("year_level = ?", filter.YearLevel)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	var stories []model.Story
	err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&stories).Error
	return stories, total, err
}

func (r *StoryRepository) UpdateCoverImage(storyID uint, imagePath, imageURL string) error {
	return r.DB.Model(&model.Story{}).
		Where("id = ?", storyID).
		Updates(map[string]interface{}{
			"cover_image_path": imagePath,
			"cover_image_url":  imageURL,
		}).Error
}

func (r *StoryRepository) UpdateSegmentImage(segmentID uint, img *model.GeneratedImage) error {
	return r.DB.Model(&model.StorySegment{}).
		Where("id = ?", segmentID).
		Updates(map[string]interface{}{
			"image_path":     img.StoragePath,
			"image_url":      img.ImageURL,
			"thumbnail_path": img.ThumbnailPath,
			"thumbnail_url":  img.ThumbnailURL,
			"image_prompt":   img.Prompt,
		}).Error
}

// DeleteStoryRow 硬删除故事主行，删除工作流中唯一致命的一步
func (r *StoryRepository) DeleteStoryRow(storyID uint) error {
	return r.DB.Unscoped().Where("id = ?", storyID).Delete(&model.Story{}).Error
}

// DeleteDependents 删除某张从属表中该故事的所有行，返回删除行数
func (r *StoryRepository) DeleteDependents(storyID uint, value interface{}) (int64, error) {
	result := r.DB.Unscoped().Where("story_id = ?", storyID).Delete(value)
	return result.RowsAffected, result.Error
}

func (r *StoryRepository) FindQuestionByID(questionID uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, questionID).Error
	return &question, err
}

func (r *StoryRepository) UpsertRating(rating *model.StoryRating) error {
	var existing model.StoryRating
	err := r.DB.Where("story_id = ? AND user_id = ?", rating.StoryID, rating.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(rating).Error
	}
	if err != nil {
		return err
	}
	existing.Rating = rating.Rating
	existing.Comment = rating.Comment
	return r.DB.Save(&existing).Error
}
