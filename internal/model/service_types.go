package model

type ImagePromptKind string

const (
	CoverPrompt   ImagePromptKind = "cover"
	SegmentPrompt ImagePromptKind = "segment"
)

// ImagePrompt 从故事文本中提取出的单条插图提示，只在生成期间存在，不落库
type ImagePrompt struct {
	SegmentOrder int             `json:"segmentOrder"`
	Title        string          `json:"title"`
	PromptText   string          `json:"promptText"`
	Kind         ImagePromptKind `json:"kind"`
}

// ParsedQuestion 从故事文本理解题部分解析出的题目，入库前须通过校验
type ParsedQuestion struct {
	QuestionText  string       `json:"questionText"`
	QuestionType  QuestionType `json:"questionType"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
	Points        int          `json:"points"`
	Difficulty    int          `json:"difficulty"`
}

// GeneratedImage 单张插图的生成结果；ImageURL/ThumbnailURL 为限时签名链接，
// 持久引用是对应的存储路径
type GeneratedImage struct {
	SegmentOrder  int             `json:"segmentOrder"`
	ImageURL      string          `json:"imageUrl"`
	ThumbnailURL  string          `json:"thumbnailUrl"`
	StoragePath   string          `json:"storagePath"`
	ThumbnailPath string          `json:"thumbnailPath"`
	Prompt        string          `json:"prompt"`
	RevisedPrompt string          `json:"revisedPrompt"`
	Kind          ImagePromptKind `json:"kind"`
}
