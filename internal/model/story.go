package model

type StoryStatus string

const (
	StoryDraft     StoryStatus = "draft"
	StoryPublished StoryStatus = "published"
)

// Story AI 生成的分级阅读故事
// swagger:model Story
type Story struct {
	BaseModel
	CreatedBy      uint        `gorm:"index;type:bigint unsigned;not null" json:"createdBy"`
	ChildProfileID *uint       `gorm:"index;type:bigint unsigned" json:"childProfileId"`
	Title          string      `gorm:"size:255;not null" json:"title"`
	Description    string      `gorm:"size:1000" json:"description"`
	Topic          string      `gorm:"size:255;not null" json:"topic"`
	YearLevel      int         `gorm:"index;not null" json:"yearLevel"`
	Content        string      `gorm:"type:longtext" json:"content"` // 模型原始输出，用于重新解析/重新配图
	WordCount      int         `gorm:"default:0" json:"wordCount"`
	Status         StoryStatus `gorm:"type:enum('draft','published');default:'published'" json:"status"`
	IsPublic       bool        `gorm:"default:false" json:"isPublic"`
	CoverImagePath string      `gorm:"size:500" json:"-"`
	CoverImageURL  string      `gorm:"size:1000" json:"coverImageUrl"`

	Segments  []StorySegment `gorm:"foreignKey:StoryID" json:"segments,omitempty"`
	Questions []Question     `gorm:"foreignKey:StoryID" json:"questions,omitempty"`
}

func (Story) TableName() string {
	return "stories"
}

// StorySegment 故事的一个阅读段落（阅读界面中的一"页"）
// SegmentOrder 在同一故事内唯一，定义阅读顺序
// swagger:model StorySegment
type StorySegment struct {
	BaseModel
	StoryID       uint   `gorm:"index:idx_story_segment_order,unique;type:bigint unsigned;not null" json:"storyId"`
	SegmentOrder  int    `gorm:"index:idx_story_segment_order,unique;not null" json:"segmentOrder"`
	Title         string `gorm:"size:255" json:"title"`
	Content       string `gorm:"type:text" json:"content"`
	ImagePrompt   string `gorm:"size:2000" json:"-"`
	ImagePath     string `gorm:"size:500" json:"-"` // 对象存储中的持久引用
	ImageURL      string `gorm:"size:1000" json:"imageUrl"`
	ThumbnailPath string `gorm:"size:500" json:"-"`
	ThumbnailURL  string `gorm:"size:1000" json:"thumbnailUrl"`
}

func (StorySegment) TableName() string {
	return "story_segments"
}

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
	DragDrop       QuestionType = "drag_drop"
	Sequence       QuestionType = "sequence"
)

// Question 故事的理解题
// swagger:model Question
type Question struct {
	BaseModel
	StoryID       uint         `gorm:"index;type:bigint unsigned;not null" json:"storyId"`
	QuestionText  string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType  QuestionType `gorm:"size:30;not null" json:"questionType"`
	Options       string       `gorm:"type:text" json:"options"` // JSON 数组，按出题顺序
	CorrectAnswer string       `gorm:"size:500;not null" json:"correctAnswer"`
	Explanation   string       `gorm:"size:1000" json:"explanation"`
	Points        int          `gorm:"default:10" json:"points"`
	Difficulty    int          `gorm:"default:1" json:"difficulty"`
}

func (Question) TableName() string {
	return "questions"
}

// StoryRating 家长对故事的评分
type StoryRating struct {
	BaseModel
	StoryID uint   `gorm:"index:idx_story_user_rating,unique;type:bigint unsigned;not null" json:"storyId"`
	UserID  uint   `gorm:"index:idx_story_user_rating,unique;type:bigint unsigned;not null" json:"userId"`
	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"size:1000" json:"comment"`
}

func (StoryRating) TableName() string {
	return "story_ratings"
}
