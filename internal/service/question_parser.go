package service

import (
	"primary_reading_backend/internal/model"
	"regexp"
	"strings"
)

// 理解题解析。上游文本没有格式契约，解析是尽力而为：
// 不匹配的块被静默丢弃，整体从不报错，最坏返回空列表。

var (
	// 题目区标题的两种写法，markdown 标题优先
	questionHeaderRes = []*regexp.Regexp{
		regexp.MustCompile(`(?mi)^#{1,4}\s*Suggested Comprehension Questions:?\s*$`),
		regexp.MustCompile(`(?mi)^\*\*Suggested Comprehension Questions:?\*\*\s*$`),
	}

	questionBlockRe  = regexp.MustCompile(`(?m)^\d+\.\s+\*\*`)
	questionFirstRe  = regexp.MustCompile(`^\d+\.\s+\*\*([^:*]+):?\*\*:?\s*(.+)`)
	optionLineRe     = regexp.MustCompile(`(?m)^\s*([a-d])\)\s*(.+)$`)
	answerLetterRe   = regexp.MustCompile(`\(Correct answer:\s*([a-d])\)`)
	answerBoolRe     = regexp.MustCompile(`\(Correct answer:\s*(True|False)\)`)
	answerLiteralRe  = regexp.MustCompile(`\(Correct answer:\s*([^)]+)\)`)
)

// 分值、难度和鼓励语不来自模型输出，统一固定
const (
	questionPoints      = 10
	questionDifficulty  = 1
	questionExplanation = "Great thinking! Look back at the story if you are not sure."
)

// ParseQuestions 从生成的故事文本中解析理解题，可能返回空列表
func ParseQuestions(content string) []model.ParsedQuestion {
	section := findQuestionSection(content)
	if section == "" {
		return nil
	}

	blocks := splitQuestionBlocks(section)

	questions := make([]model.ParsedQuestion, 0, len(blocks))
	for _, block := range blocks {
		q, ok := parseQuestionBlock(block)
		if !ok {
			continue
		}
		if !validateQuestion(q) {
			continue
		}
		questions = append(questions, q)
	}
	return questions
}

func findQuestionSection(content string) string {
	for _, re := range questionHeaderRes {
		if loc := re.FindStringIndex(content); loc != nil {
			return content[loc[1]:]
		}
	}
	return ""
}

// splitQuestionBlocks 以 "N. **" 开头的行为界切块
func splitQuestionBlocks(section string) []string {
	starts := questionBlockRe.FindAllStringIndex(section, -1)
	blocks := make([]string, 0, len(starts))
	for i, loc := range starts {
		end := len(section)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		blocks = append(blocks, section[loc[0]:end])
	}
	return blocks
}

func parseQuestionBlock(block string) (model.ParsedQuestion, bool) {
	firstLine := block
	if idx := strings.Index(block, "\n"); idx >= 0 {
		firstLine = block[:idx]
	}

	m := questionFirstRe.FindStringSubmatch(strings.TrimSpace(firstLine))
	if m == nil {
		// 头部格式不符，整块丢弃
		return model.ParsedQuestion{}, false
	}

	typeLabel := strings.TrimSpace(m[1])
	q := model.ParsedQuestion{
		QuestionText: strings.TrimSpace(m[2]),
		QuestionType: questionTypeFromLabel(typeLabel),
		Explanation:  questionExplanation,
		Points:       questionPoints,
		Difficulty:   questionDifficulty,
	}

	switch {
	case strings.Contains(typeLabel, "Multiple Choice"):
		q.Options, q.CorrectAnswer = parseMultipleChoice(block)
	case strings.Contains(typeLabel, "True/False"):
		q.Options = []string{"True", "False"}
		// 缺少答案标注时默认 True。这是沿袭下来的行为，按原样保留，
		// 不从题干内容推断
		q.CorrectAnswer = "True"
		if m := answerBoolRe.FindStringSubmatch(block); m != nil {
			q.CorrectAnswer = m[1]
		}
	default:
		if m := answerLiteralRe.FindStringSubmatch(block); m != nil {
			q.CorrectAnswer = strings.TrimSpace(m[1])
		}
	}

	return q, true
}

// parseMultipleChoice 收集 a)-d) 选项并把答案字母还原为选项原文。
// 字母越界时答案留空（随后会被校验过滤），不做自动纠正
func parseMultipleChoice(block string) ([]string, string) {
	var options []string
	for _, m := range optionLineRe.FindAllStringSubmatch(block, -1) {
		options = append(options, strings.TrimSpace(m[2]))
	}

	answer := ""
	if m := answerLetterRe.FindStringSubmatch(block); m != nil {
		idx := int(m[1][0] - 'a')
		if idx >= 0 && idx < len(options) {
			answer = options[idx]
		}
	}
	return options, answer
}

func questionTypeFromLabel(label string) model.QuestionType {
	switch {
	case strings.Contains(label, "Multiple Choice"):
		return model.MultipleChoice
	case strings.Contains(label, "True/False"):
		return model.TrueFalse
	case strings.Contains(label, "Short Answer"):
		return model.ShortAnswer
	case strings.Contains(label, "Drag"):
		return model.DragDrop
	case strings.Contains(label, "Sequence"):
		return model.Sequence
	default:
		return model.QuestionType(strings.ToLower(strings.ReplaceAll(label, " ", "_")))
	}
}

// validateQuestion 入库前校验：题干、题型、答案缺一不可，分值和难度必须为正
func validateQuestion(q model.ParsedQuestion) bool {
	if strings.TrimSpace(q.QuestionText) == "" {
		return false
	}
	if q.QuestionType == "" {
		return false
	}
	if q.CorrectAnswer == "" {
		return false
	}
	if q.Points <= 0 || q.Difficulty <= 0 {
		return false
	}
	return true
}
