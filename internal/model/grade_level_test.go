package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeLevelForValidYears(t *testing.T) {
	for year := 1; year <= 6; year++ {
		cfg, ok := GradeLevelFor(year)
		require.True(t, ok, "year %d", year)
		assert.Equal(t, year, cfg.Year)
		assert.Less(t, cfg.WordCountMin, cfg.WordCountMax)
		assert.GreaterOrEqual(t, cfg.WordCountTarget, cfg.WordCountMin)
		assert.LessOrEqual(t, cfg.WordCountTarget, cfg.WordCountMax)
		assert.NotEmpty(t, cfg.QuestionTypes)
		assert.Positive(t, cfg.QuestionsPerStory)
	}
}

func TestGradeLevelForInvalidYears(t *testing.T) {
	for _, year := range []int{0, -1, 7, 100} {
		_, ok := GradeLevelFor(year)
		assert.False(t, ok, "year %d", year)
	}
}

func TestGradeLevelsScaleUpwards(t *testing.T) {
	levels := AllGradeLevels()
	require.Len(t, levels, 6)

	for i := 1; i < len(levels); i++ {
		assert.Equal(t, levels[i-1].Year+1, levels[i].Year)
		// 词数和句长随年级单调不减
		assert.GreaterOrEqual(t, levels[i].WordCountTarget, levels[i-1].WordCountTarget)
		assert.GreaterOrEqual(t, levels[i].AvgSentenceLength, levels[i-1].AvgSentenceLength)
	}

	assert.Equal(t, Beginner, levels[0].ReadingLevel)
	assert.Equal(t, Advanced, levels[5].ReadingLevel)
}
