package service

import (
	"primary_reading_backend/internal/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyWithDirectives = `Title: The Moon Garden
Description: A story about a magic garden.

## Segment 1: A Strange Seed
Lily found a silver seed in the garden one night.
**[Image Prompt: A girl holding a glowing silver seed in a moonlit garden]**

## Segment 2: The Garden Grows
The seed grew into a tree with silver leaves overnight.
**[Image Prompt: A silver tree shining under the moon]**

## Suggested Comprehension Questions
1. **Multiple Choice:** What did Lily find?
a) A silver seed
b) A gold coin
(Correct answer: a)
`

func TestExtractImagePromptsExplicitDirectives(t *testing.T) {
	prompts := ExtractImagePrompts(storyWithDirectives, "The Moon Garden")

	require.Len(t, prompts, 2)
	assert.Equal(t, "A girl holding a glowing silver seed in a moonlit garden", prompts[0].PromptText)
	assert.Equal(t, "A silver tree shining under the moon", prompts[1].PromptText)

	assert.Equal(t, model.CoverPrompt, prompts[0].Kind)
	assert.Equal(t, model.SegmentPrompt, prompts[1].Kind)
	assert.Equal(t, 1, prompts[0].SegmentOrder)
	assert.Equal(t, 2, prompts[1].SegmentOrder)
	assert.Equal(t, "A Strange Seed", prompts[0].Title)
}

func TestExtractImagePromptsDirectiveVariants(t *testing.T) {
	content := `## Segment 1: One
Some text here.
[Image Prompt: bracket only form]

## Segment 2: Two
More text here.
Image Prompt: bare line form

## Segment 3: Three
Even more text.
Suggested Image: suggested form
`
	prompts := ExtractImagePrompts(content, "Variants")

	require.Len(t, prompts, 3)
	assert.Equal(t, "bracket only form", prompts[0].PromptText)
	assert.Equal(t, "bare line form", prompts[1].PromptText)
	assert.Equal(t, "suggested form", prompts[2].PromptText)
}

func TestExtractImagePromptsFallback(t *testing.T) {
	content := `## Segment 1: The Race
Mia ran through the forest to find her lost dog before the rain started falling hard.
`
	prompts := ExtractImagePrompts(content, "The Race")

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0].PromptText, "Mia")
	assert.Contains(t, prompts[0].PromptText, "for the story 'The Race'")
	assert.Contains(t, prompts[0].PromptText, "child-friendly art style")
	assert.Equal(t, model.CoverPrompt, prompts[0].Kind)
}

func TestExtractImagePromptsShortSegmentSkipped(t *testing.T) {
	content := `## Segment 1: Tiny
Too short.

## Segment 2: Long Enough
Tom walked slowly through the quiet village looking for his grandmother's little red house.
`
	prompts := ExtractImagePrompts(content, "Tiny Tale")

	require.Len(t, prompts, 1)
	assert.Equal(t, 2, prompts[0].SegmentOrder)
	// 唯一幸存的提示成为封面
	assert.Equal(t, model.CoverPrompt, prompts[0].Kind)
}

func TestExtractImagePromptsSyntheticCover(t *testing.T) {
	prompts := ExtractImagePrompts("Short.", "The Lost Star")

	require.Len(t, prompts, 1)
	assert.Equal(t, model.CoverPrompt, prompts[0].Kind)
	assert.Contains(t, prompts[0].PromptText, "'The Lost Star'")
	assert.Equal(t, 1, prompts[0].SegmentOrder)
}

func TestExtractImagePromptsHeadinglessContent(t *testing.T) {
	content := "Ben and Amy sailed across the lake in a small wooden boat to visit the island.\n" +
		"**[Image Prompt: Two children in a wooden boat on a lake]**"

	prompts := ExtractImagePrompts(content, "The Island")

	require.Len(t, prompts, 1)
	assert.Equal(t, "Two children in a wooden boat on a lake", prompts[0].PromptText)
	assert.Equal(t, 1, prompts[0].SegmentOrder)
}

func TestExtractImagePromptsQuestionSectionIgnored(t *testing.T) {
	content := `## Segment 1: Only One
Sam planted a sunflower next to the garden wall and watered it every single morning.

## Suggested Comprehension Questions
1. **Short Answer:** Where did Sam plant the sunflower? It was next to the wall of the garden near the house.
(Correct answer: next to the garden wall)
`
	prompts := ExtractImagePrompts(content, "Sunflower")

	require.Len(t, prompts, 1)
	assert.False(t, strings.Contains(prompts[0].PromptText, "Comprehension"))
}

func TestExtractImagePromptsDeterministic(t *testing.T) {
	first := ExtractImagePrompts(storyWithDirectives, "The Moon Garden")
	second := ExtractImagePrompts(storyWithDirectives, "The Moon Garden")
	assert.Equal(t, first, second)
}
