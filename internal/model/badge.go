package model

import "time"

type BadgeCriteria string

const (
	CriteriaStoriesCompleted BadgeCriteria = "stories_completed"
	CriteriaStreakDays       BadgeCriteria = "streak_days"
	CriteriaCorrectAnswers   BadgeCriteria = "correct_answers"
)

// Badge 徽章定义，启动时播种默认徽章
type Badge struct {
	BaseModel
	Code        string        `gorm:"size:50;unique;not null" json:"code"`
	Name        string        `gorm:"size:100;not null" json:"name"`
	Description string        `gorm:"size:500" json:"description"`
	Icon        string        `gorm:"size:255" json:"icon"`
	Criteria    BadgeCriteria `gorm:"size:30;not null" json:"criteria"`
	Threshold   int           `gorm:"not null" json:"threshold"`
	Enabled     bool          `gorm:"default:true" json:"enabled"`
}

func (Badge) TableName() string {
	return "badges"
}

// ChildBadge 某个孩子获得的徽章
type ChildBadge struct {
	BaseModel
	ChildProfileID uint      `gorm:"index:idx_child_badge,unique;type:bigint unsigned;not null" json:"childProfileId"`
	BadgeID        uint      `gorm:"index:idx_child_badge,unique;type:bigint unsigned;not null" json:"badgeId"`
	EarnedAt       time.Time `json:"earnedAt"`

	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (ChildBadge) TableName() string {
	return "child_badges"
}
