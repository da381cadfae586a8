package database

import (
	"fmt"
	"log"
	"primary_reading_backend/internal/config"
	"primary_reading_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := SeedBadges(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.ChildProfile{},
		&model.Story{},
		&model.StorySegment{},
		&model.Question{},
		&model.StoryRating{},
		&model.ReadingProgress{},
		&model.QuestionAnswer{},
		&model.ReadingCheckin{},
		&model.Badge{},
		&model.ChildBadge{},
		&model.StoryShare{},
		&model.ReadingSession{},
	)
}

// SeedBadges 默认徽章定义，表为空时插入
func SeedBadges(db *gorm.DB) error {
	var count int64
	db.Model(&model.Badge{}).Count(&count)
	if count > 0 {
		return nil
	}

	defaults := []model.Badge{
		{Code: "first_story", Name: "First Story", Description: "Finished your very first story", Icon: "badges/first_story.png", Criteria: model.CriteriaStoriesCompleted, Threshold: 1, Enabled: true},
		{Code: "bookworm", Name: "Bookworm", Description: "Finished 10 stories", Icon: "badges/bookworm.png", Criteria: model.CriteriaStoriesCompleted, Threshold: 10, Enabled: true},
		{Code: "story_master", Name: "Story Master", Description: "Finished 50 stories", Icon: "badges/story_master.png", Criteria: model.CriteriaStoriesCompleted, Threshold: 50, Enabled: true},
		{Code: "three_day_streak", Name: "On a Roll", Description: "Read 3 days in a row", Icon: "badges/streak_3.png", Criteria: model.CriteriaStreakDays, Threshold: 3, Enabled: true},
		{Code: "week_streak", Name: "Reading Habit", Description: "Read 7 days in a row", Icon: "badges/streak_7.png", Criteria: model.CriteriaStreakDays, Threshold: 7, Enabled: true},
		{Code: "quiz_whiz", Name: "Quiz Whiz", Description: "Answered 25 questions correctly", Icon: "badges/quiz_whiz.png", Criteria: model.CriteriaCorrectAnswers, Threshold: 25, Enabled: true},
	}
	for _, b := range defaults {
		if err := db.Create(&b).Error; err != nil {
			return err
		}
	}
	return nil
}
