package service

import (
	"context"
	"fmt"
	"primary_reading_backend/internal/config"
	"primary_reading_backend/internal/model"
	"primary_reading_backend/internal/util"
	"primary_reading_backend/pkg/logger"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatCompleter 文本生成客户端，*openai.Client 满足该接口，测试用假实现
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// StoryGenerator 按年级参数构造提示词并调用文本生成 API
type StoryGenerator struct {
	client ChatCompleter
	model  string
}

func NewStoryGenerator(cfg config.AIConfig) *StoryGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &StoryGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// NewStoryGeneratorWithClient 测试注入用
func NewStoryGeneratorWithClient(client ChatCompleter, model string) *StoryGenerator {
	return &StoryGenerator{client: client, model: model}
}

// GeneratedStory 一次生成调用的结果；Content 为模型原始输出，
// 段落、插图提示和理解题都从中解析
type GeneratedStory struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

const storySystemPrompt = "You are a children's author who writes engaging, age-appropriate " +
	"stories for primary school readers. You always follow the requested structure exactly, " +
	"including segment headings, image prompts and the comprehension question section."

// GenerateStory 生成一篇分级故事；模型输出为空时返回错误（无安全降级）
func (g *StoryGenerator) GenerateStory(ctx context.Context, topic string, grade model.GradeLevelConfig, research string) (*GeneratedStory, error) {
	prompt := g.buildPrompt(topic, grade, research)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: storySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   maxTokensFor(grade),
	})
	if err != nil {
		return nil, fmt.Errorf("story generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, util.ErrEmptyStoryContent
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, util.ErrEmptyStoryContent
	}

	story := &GeneratedStory{
		Title:       extractLabelledLine(content, "Title:"),
		Description: extractLabelledLine(content, "Description:"),
		Content:     content,
	}

	if story.Title == "" {
		story.Title = fmt.Sprintf("A Story About %s", strings.Title(topic))
	}
	if story.Description == "" {
		story.Description = fmt.Sprintf("A year %d story about %s.", grade.Year, topic)
	}

	logger.Log.Info("story generated",
		zap.String("topic", topic),
		zap.Int("yearLevel", grade.Year),
		zap.Int("contentLength", len(content)))

	return story, nil
}

func (g *StoryGenerator) buildPrompt(topic string, grade model.GradeLevelConfig, research string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a children's story about \"%s\" for a year %d reader (age %d, %s level).\n\n",
		topic, grade.Year, grade.Age, grade.ReadingLevel)

	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- Length: %d-%d words, aim for about %d words.\n",
		grade.WordCountMin, grade.WordCountMax, grade.WordCountTarget)
	fmt.Fprintf(&b, "- Sentences: average %d words, never more than %d words.\n",
		grade.AvgSentenceLength, grade.MaxSentenceLength)
	fmt.Fprintf(&b, "- Vocabulary: %s.\n", grade.Vocabulary)
	fmt.Fprintf(&b, "- Plot: %s, at most %d named characters", grade.PlotComplexity, grade.MaxCharacters)
	if grade.AllowSubplot {
		b.WriteString(", one small subplot is allowed")
	} else {
		b.WriteString(", no subplots")
	}
	b.WriteString(".\n\n")

	b.WriteString("Structure the output exactly like this:\n")
	b.WriteString("Title: <story title>\n")
	b.WriteString("Description: <one sentence summary for parents>\n\n")
	b.WriteString("## Segment 1: <segment title>\n")
	b.WriteString("<segment text>\n")
	b.WriteString("**[Image Prompt: <a child-friendly illustration prompt for this segment>]**\n\n")
	fmt.Fprintf(&b, "Use 3 to 5 segments. Every segment needs an image prompt line.\n\n")

	fmt.Fprintf(&b, "After the story add a section titled \"Suggested Comprehension Questions\" with %d questions.\n", grade.QuestionsPerStory)
	b.WriteString("Format each question like:\n")
	b.WriteString("1. **Multiple Choice:** <question>\n")
	b.WriteString("a) <option>\nb) <option>\nc) <option>\nd) <option>\n")
	b.WriteString("(Correct answer: b)\n")
	b.WriteString("2. **True/False:** <statement>\n")
	b.WriteString("(Correct answer: True)\n")
	types := make([]string, 0, len(grade.QuestionTypes))
	for _, t := range grade.QuestionTypes {
		types = append(types, string(t))
	}
	fmt.Fprintf(&b, "Allowed question types: %s. Complexity level %d of 3.\n",
		strings.Join(types, ", "), grade.QuestionComplexity)

	if research != "" {
		b.WriteString("\nUse the following background facts to keep the story accurate:\n")
		b.WriteString(research)
		b.WriteString("\n")
	}

	return b.String()
}

// maxTokensFor 按目标字数放宽的输出上限
func maxTokensFor(grade model.GradeLevelConfig) int {
	tokens := grade.WordCountMax * 4
	if tokens < 2000 {
		tokens = 2000
	}
	return tokens
}

// extractLabelledLine 在输出各行中查找 "Label:" 前缀（允许 markdown 加粗），
// 返回其后的文本；找不到返回空串
func extractLabelledLine(content, label string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		trimmed = strings.TrimPrefix(trimmed, "**")
		idx := strings.Index(trimmed, label)
		if idx < 0 || idx > 2 {
			continue
		}
		value := trimmed[idx+len(label):]
		value = strings.TrimSpace(strings.Trim(value, "*"))
		if value != "" {
			return value
		}
	}
	return ""
}
