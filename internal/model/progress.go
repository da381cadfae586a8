package model

import "time"

// ReadingProgress 某个孩子对某个故事的阅读进度
type ReadingProgress struct {
	BaseModel
	ChildProfileID uint       `gorm:"index:idx_child_story_progress,unique;type:bigint unsigned;not null" json:"childProfileId"`
	StoryID        uint       `gorm:"index:idx_child_story_progress,unique;type:bigint unsigned;not null" json:"storyId"`
	CurrentSegment int        `gorm:"default:0" json:"currentSegment"`
	Completed      bool       `gorm:"default:false" json:"completed"`
	CompletedAt    *time.Time `json:"completedAt"`
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}

// QuestionAnswer 孩子提交的答题记录
type QuestionAnswer struct {
	BaseModel
	ChildProfileID uint   `gorm:"index;type:bigint unsigned;not null" json:"childProfileId"`
	StoryID        uint   `gorm:"index;type:bigint unsigned;not null" json:"storyId"`
	QuestionID     uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	Answer         string `gorm:"size:500" json:"answer"`
	Correct        bool   `gorm:"default:false" json:"correct"`
	PointsEarned   int    `gorm:"default:0" json:"pointsEarned"`
}

func (QuestionAnswer) TableName() string {
	return "question_answers"
}

// ReadingCheckin 记录孩子每天的阅读打卡，用于连续阅读天数
type ReadingCheckin struct {
	BaseModel
	ChildProfileID uint      `gorm:"index;type:bigint unsigned;not null" json:"childProfileId"`
	CheckinAt      time.Time `gorm:"not null;index:idx_child_checkin_date,unique" json:"checkinAt"`
	StreakDays     int       `gorm:"default:1" json:"streakDays"` // 连续阅读天数
}

func (ReadingCheckin) TableName() string {
	return "reading_checkins"
}
