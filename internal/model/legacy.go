package model

import "time"

// StoryShare 早期版本的故事分享表，仅在删除故事时一并清理
type StoryShare struct {
	BaseModel
	StoryID  uint   `gorm:"index;type:bigint unsigned;not null" json:"storyId"`
	UserID   uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ShareKey string `gorm:"size:64" json:"shareKey"`
}

func (StoryShare) TableName() string {
	return "story_shares"
}

// ReadingSession 早期版本的阅读会话记录，仅在删除故事时一并清理
type ReadingSession struct {
	BaseModel
	StoryID        uint       `gorm:"index;type:bigint unsigned;not null" json:"storyId"`
	ChildProfileID uint       `gorm:"index;type:bigint unsigned;not null" json:"childProfileId"`
	StartedAt      time.Time  `json:"startedAt"`
	EndedAt        *time.Time `json:"endedAt"`
}

func (ReadingSession) TableName() string {
	return "reading_sessions"
}
