package model

import (
	"time"
)

type UserRole string

const (
	Parent UserRole = "parent"
	Admin  UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"Name"`
	Email     string    `gorm:"size:100;unique;not null" json:"Email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('parent','admin');default:'parent'" json:"Role"`
	Language  string    `gorm:"size:10;default:'en'" json:"Language"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"Disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastSeen"`
}

func (User) TableName() string {
	return "users"
}

// ChildProfile 家长账号下的儿童阅读档案
// swagger:model ChildProfile
type ChildProfile struct {
	BaseModel
	UserID    uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Name      string `gorm:"size:100;not null" json:"name"`
	YearLevel int    `gorm:"not null" json:"yearLevel"` // 1-6
	Avatar    string `gorm:"size:255" json:"avatar"`
	Interests string `gorm:"size:500" json:"interests"` // 逗号分隔的兴趣主题
	Points    int    `gorm:"default:0" json:"points"`
}

func (ChildProfile) TableName() string {
	return "child_profiles"
}
