package service

import (
	"context"
	"errors"
	"primary_reading_backend/internal/model"
	"primary_reading_backend/internal/util"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatCompleter struct {
	response string
	err      error
	lastReq  openai.ChatCompletionRequest
}

func (f *fakeChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.response}},
		},
	}, nil
}

func gradeForTest(t *testing.T, year int) model.GradeLevelConfig {
	t.Helper()
	grade, ok := model.GradeLevelFor(year)
	require.True(t, ok)
	return grade
}

func TestGenerateStoryExtractsTitleAndDescription(t *testing.T) {
	fake := &fakeChatCompleter{response: `Title: The Brave Ant
Description: An ant crosses a big garden.

## Segment 1: The Journey
Once there was a very brave ant.
**[Image Prompt: An ant at the edge of a garden]**
`}
	g := NewStoryGeneratorWithClient(fake, "test-model")

	story, err := g.GenerateStory(context.Background(), "ants", gradeForTest(t, 2), "")
	require.NoError(t, err)

	assert.Equal(t, "The Brave Ant", story.Title)
	assert.Equal(t, "An ant crosses a big garden.", story.Description)
	assert.Contains(t, story.Content, "## Segment 1")
	assert.Equal(t, "test-model", fake.lastReq.Model)
}

func TestGenerateStoryBoldLabels(t *testing.T) {
	fake := &fakeChatCompleter{response: "**Title:** The Quiet Owl\n**Description:** An owl learns to sing.\nStory body."}
	g := NewStoryGeneratorWithClient(fake, "test-model")

	story, err := g.GenerateStory(context.Background(), "owls", gradeForTest(t, 3), "")
	require.NoError(t, err)

	assert.Equal(t, "The Quiet Owl", story.Title)
	assert.Equal(t, "An owl learns to sing.", story.Description)
}

func TestGenerateStoryFallbackTitle(t *testing.T) {
	fake := &fakeChatCompleter{response: "Just a story body without any labels at all."}
	g := NewStoryGeneratorWithClient(fake, "test-model")

	story, err := g.GenerateStory(context.Background(), "dragons", gradeForTest(t, 4), "")
	require.NoError(t, err)

	assert.Contains(t, story.Title, "Dragons")
	assert.NotEmpty(t, story.Description)
}

func TestGenerateStoryEmptyContent(t *testing.T) {
	fake := &fakeChatCompleter{response: "   \n  "}
	g := NewStoryGeneratorWithClient(fake, "test-model")

	_, err := g.GenerateStory(context.Background(), "rivers", gradeForTest(t, 1), "")
	assert.ErrorIs(t, err, util.ErrEmptyStoryContent)
}

func TestGenerateStoryAPIError(t *testing.T) {
	fake := &fakeChatCompleter{err: errors.New("rate limited")}
	g := NewStoryGeneratorWithClient(fake, "test-model")

	_, err := g.GenerateStory(context.Background(), "rivers", gradeForTest(t, 1), "")
	assert.Error(t, err)
}

func TestGenerateStoryPromptContainsGradeConstraints(t *testing.T) {
	fake := &fakeChatCompleter{response: "Title: X\nDescription: Y\nBody."}
	g := NewStoryGeneratorWithClient(fake, "test-model")

	grade := gradeForTest(t, 5)
	_, err := g.GenerateStory(context.Background(), "mythology", grade, "Zeus lived on Mount Olympus.")
	require.NoError(t, err)

	require.Len(t, fake.lastReq.Messages, 2)
	prompt := fake.lastReq.Messages[1].Content
	assert.Contains(t, prompt, "year 5")
	assert.Contains(t, prompt, "500-800 words")
	assert.Contains(t, prompt, "Suggested Comprehension Questions")
	assert.Contains(t, prompt, "Zeus lived on Mount Olympus.")
	assert.GreaterOrEqual(t, fake.lastReq.MaxTokens, 2000)
}
