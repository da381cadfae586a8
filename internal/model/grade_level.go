package model

type ReadingLevel string

const (
	Beginner     ReadingLevel = "beginner"
	Intermediate ReadingLevel = "intermediate"
	Advanced     ReadingLevel = "advanced"
)

type PlotComplexity string

const (
	PlotSimple   PlotComplexity = "simple"
	PlotModerate PlotComplexity = "moderate"
	PlotLayered  PlotComplexity = "layered"
)

// GradeLevelConfig 每个年级（1-6）的分级阅读参数，进程启动时定义，从不修改
type GradeLevelConfig struct {
	Year                int            `json:"year"`
	Age                 int            `json:"age"`
	ReadingLevel        ReadingLevel   `json:"readingLevel"`
	WordCountMin        int            `json:"wordCountMin"`
	WordCountMax        int            `json:"wordCountMax"`
	WordCountTarget     int            `json:"wordCountTarget"`
	AvgSentenceLength   int            `json:"avgSentenceLength"`
	MaxSentenceLength   int            `json:"maxSentenceLength"`
	Vocabulary          string         `json:"vocabulary"`
	QuestionTypes       []QuestionType `json:"questionTypes"`
	QuestionsPerStory   int            `json:"questionsPerStory"`
	QuestionComplexity  int            `json:"questionComplexity"` // 1-3
	PlotComplexity      PlotComplexity `json:"plotComplexity"`
	MaxCharacters       int            `json:"maxCharacters"`
	AllowSubplot        bool           `json:"allowSubplot"`
	Themes              []string       `json:"themes"`
	FontSize            int            `json:"fontSize"`
	ImageFrequency      int            `json:"imageFrequency"` // 每多少段配一张插图
	AudioSupport        bool           `json:"audioSupport"`
	HighlightingSupport bool           `json:"highlightingSupport"`
}

var gradeLevels = map[int]GradeLevelConfig{
	1: {
		Year: 1, Age: 6, ReadingLevel: Beginner,
		WordCountMin: 100, WordCountMax: 200, WordCountTarget: 150,
		AvgSentenceLength: 6, MaxSentenceLength: 9,
		Vocabulary:        "very simple everyday words, high-frequency sight words, lots of repetition",
		QuestionTypes:     []QuestionType{MultipleChoice, TrueFalse},
		QuestionsPerStory: 3, QuestionComplexity: 1,
		PlotComplexity: PlotSimple, MaxCharacters: 2, AllowSubplot: false,
		Themes:   []string{"animals", "family", "friendship", "colours", "school"},
		FontSize: 22, ImageFrequency: 1, AudioSupport: true, HighlightingSupport: true,
	},
	2: {
		Year: 2, Age: 7, ReadingLevel: Beginner,
		WordCountMin: 150, WordCountMax: 300, WordCountTarget: 220,
		AvgSentenceLength: 7, MaxSentenceLength: 11,
		Vocabulary:        "simple words with some new vocabulary, short compound sentences",
		QuestionTypes:     []QuestionType{MultipleChoice, TrueFalse},
		QuestionsPerStory: 3, QuestionComplexity: 1,
		PlotComplexity: PlotSimple, MaxCharacters: 3, AllowSubplot: false,
		Themes:   []string{"animals", "adventure", "family", "nature", "helping others"},
		FontSize: 20, ImageFrequency: 1, AudioSupport: true, HighlightingSupport: true,
	},
	3: {
		Year: 3, Age: 8, ReadingLevel: Intermediate,
		WordCountMin: 250, WordCountMax: 450, WordCountTarget: 350,
		AvgSentenceLength: 9, MaxSentenceLength: 14,
		Vocabulary:        "growing vocabulary with descriptive words, occasional challenge words explained by context",
		QuestionTypes:     []QuestionType{MultipleChoice, TrueFalse, ShortAnswer},
		QuestionsPerStory: 4, QuestionComplexity: 2,
		PlotComplexity: PlotModerate, MaxCharacters: 4, AllowSubplot: false,
		Themes:   []string{"adventure", "mystery", "science", "history", "friendship"},
		FontSize: 18, ImageFrequency: 2, AudioSupport: true, HighlightingSupport: true,
	},
	4: {
		Year: 4, Age: 9, ReadingLevel: Intermediate,
		WordCountMin: 350, WordCountMax: 600, WordCountTarget: 480,
		AvgSentenceLength: 11, MaxSentenceLength: 17,
		Vocabulary:        "richer vocabulary, figurative language introduced, varied sentence openers",
		QuestionTypes:     []QuestionType{MultipleChoice, TrueFalse, ShortAnswer, Sequence},
		QuestionsPerStory: 4, QuestionComplexity: 2,
		PlotComplexity: PlotModerate, MaxCharacters: 5, AllowSubplot: true,
		Themes:   []string{"adventure", "mystery", "space", "ancient worlds", "inventions"},
		FontSize: 16, ImageFrequency: 2, AudioSupport: false, HighlightingSupport: true,
	},
	5: {
		Year: 5, Age: 10, ReadingLevel: Advanced,
		WordCountMin: 500, WordCountMax: 800, WordCountTarget: 650,
		AvgSentenceLength: 13, MaxSentenceLength: 20,
		Vocabulary:        "advanced vocabulary with idioms and metaphors, complex sentence structures",
		QuestionTypes:     []QuestionType{MultipleChoice, TrueFalse, ShortAnswer, Sequence, DragDrop},
		QuestionsPerStory: 5, QuestionComplexity: 3,
		PlotComplexity: PlotLayered, MaxCharacters: 6, AllowSubplot: true,
		Themes:   []string{"mythology", "science fiction", "historical fiction", "survival", "mystery"},
		FontSize: 14, ImageFrequency: 3, AudioSupport: false, HighlightingSupport: false,
	},
	6: {
		Year: 6, Age: 11, ReadingLevel: Advanced,
		WordCountMin: 650, WordCountMax: 1000, WordCountTarget: 800,
		AvgSentenceLength: 14, MaxSentenceLength: 22,
		Vocabulary:        "sophisticated vocabulary, nuanced emotional language, multiple viewpoints",
		QuestionTypes:     []QuestionType{MultipleChoice, TrueFalse, ShortAnswer, Sequence, DragDrop},
		QuestionsPerStory: 5, QuestionComplexity: 3,
		PlotComplexity: PlotLayered, MaxCharacters: 7, AllowSubplot: true,
		Themes:   []string{"dystopia-lite", "mythology", "moral dilemmas", "exploration", "coming of age"},
		FontSize: 14, ImageFrequency: 3, AudioSupport: false, HighlightingSupport: false,
	},
}

// GradeLevelFor 返回指定年级的阅读配置，年级超出 1-6 时 ok 为 false
func GradeLevelFor(year int) (GradeLevelConfig, bool) {
	cfg, ok := gradeLevels[year]
	return cfg, ok
}

// AllGradeLevels 按年级升序返回全部配置
func AllGradeLevels() []GradeLevelConfig {
	out := make([]GradeLevelConfig, 0, len(gradeLevels))
	for year := 1; year <= 6; year++ {
		if cfg, ok := gradeLevels[year]; ok {
			out = append(out, cfg)
		}
	}
	return out
}
