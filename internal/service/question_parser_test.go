package service

import (
	"primary_reading_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyWithQuestions = `## Segment 1: The Cave
Leo found a cave behind the waterfall.

## Suggested Comprehension Questions
1. **Multiple Choice:** What did Leo find behind the waterfall?
a) A cave
b) A boat
c) A treasure chest
d) A bear
(Correct answer: a)
2. **True/False:** Leo was afraid of the dark.
(Correct answer: False)
3. **Short Answer:** Where was the cave?
(Correct answer: behind the waterfall)
`

func TestParseQuestionsFullSection(t *testing.T) {
	questions := ParseQuestions(storyWithQuestions)

	require.Len(t, questions, 3)

	mc := questions[0]
	assert.Equal(t, model.MultipleChoice, mc.QuestionType)
	assert.Equal(t, "What did Leo find behind the waterfall?", mc.QuestionText)
	assert.Equal(t, []string{"A cave", "A boat", "A treasure chest", "A bear"}, mc.Options)
	assert.Equal(t, "A cave", mc.CorrectAnswer)
	assert.Equal(t, 10, mc.Points)
	assert.Equal(t, 1, mc.Difficulty)
	assert.NotEmpty(t, mc.Explanation)

	tf := questions[1]
	assert.Equal(t, model.TrueFalse, tf.QuestionType)
	assert.Equal(t, []string{"True", "False"}, tf.Options)
	assert.Equal(t, "False", tf.CorrectAnswer)

	sa := questions[2]
	assert.Equal(t, model.ShortAnswer, sa.QuestionType)
	assert.Equal(t, "behind the waterfall", sa.CorrectAnswer)
}

func TestParseQuestionsBoldHeader(t *testing.T) {
	content := `Story text.

**Suggested Comprehension Questions**
1. **True/False:** The sky was blue.
(Correct answer: True)
`
	questions := ParseQuestions(content)

	require.Len(t, questions, 1)
	assert.Equal(t, model.TrueFalse, questions[0].QuestionType)
}

func TestParseQuestionsTrueFalseDefaultsToTrue(t *testing.T) {
	content := `## Suggested Comprehension Questions
1. **True/False:** The dog could swim.
`
	questions := ParseQuestions(content)

	require.Len(t, questions, 1)
	assert.Equal(t, "True", questions[0].CorrectAnswer)
}

func TestParseQuestionsOutOfRangeAnswerDropped(t *testing.T) {
	content := `## Suggested Comprehension Questions
1. **Multiple Choice:** How many birds were there?
a) One
b) Two
(Correct answer: d)
`
	// 答案字母指向不存在的选项，题目整体被校验丢弃
	questions := ParseQuestions(content)
	assert.Empty(t, questions)
}

func TestParseQuestionsMalformedBlockSkipped(t *testing.T) {
	content := `## Suggested Comprehension Questions
1. **Multiple Choice:** Which colour was the kite?
a) Red
b) Blue
(Correct answer: b)
Some stray text that is not a question.
2. just a line without the expected format
`
	questions := ParseQuestions(content)

	require.Len(t, questions, 1)
	assert.Equal(t, "Blue", questions[0].CorrectAnswer)
}

func TestParseQuestionsNoSection(t *testing.T) {
	assert.Empty(t, ParseQuestions("A story with no questions at all."))
}

func TestParseQuestionsDeterministic(t *testing.T) {
	first := ParseQuestions(storyWithQuestions)
	second := ParseQuestions(storyWithQuestions)
	assert.Equal(t, first, second)
}
