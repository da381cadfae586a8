package service

import (
	"fmt"
	"primary_reading_backend/internal/model"
	"regexp"
	"strings"
)

// 插图提示提取。纯文本变换，对相同输入结果确定，从不失败：
// 最坏情况返回一条仅引用标题的封面提示。

var (
	segmentHeadingRe = regexp.MustCompile(`(?mi)^#{0,4}\s*\**\s*Segment\s+(\d+)\s*:?\s*([^\n*#]*)`)

	// 显式插图指令，按优先级依次尝试，命中即停
	imageDirectiveRes = []*regexp.Regexp{
		regexp.MustCompile(`\*\*\[Image Prompt:\s*(.+?)\]\*\*`),
		regexp.MustCompile(`\[Image Prompt:\s*(.+?)\]`),
		regexp.MustCompile(`(?m)^\s*Image Prompt:\s*(.+)$`),
		regexp.MustCompile(`(?m)^\s*Suggested Image:\s*(.+)$`),
		regexp.MustCompile(`(?m)^\s*\*\*Image Suggestion:\*\*\s*(.+)$`),
	}

	questionSectionRe = regexp.MustCompile(`(?mi)^(?:#{1,4}\s*|\*\*)\s*Suggested Comprehension Questions`)

	markupRe        = regexp.MustCompile("[*#_`\\[\\]]")
	characterRe     = regexp.MustCompile(`\b([A-Z][a-z]+)\s+(?:was|were|is|are|had|went|said|saw|ran|jumped|looked|found|walked|loved|lived|[a-z]{3,}ed)\b`)
	settingRe       = regexp.MustCompile(`\b(?:in|at|on|near|inside|under|beside|through)\s+(?:the\s+|a\s+|an\s+)?([a-z]+(?:\s+[a-z]+)?)`)
	gerundActionRe  = regexp.MustCompile(`\b([a-z]{3,}ing)\b`)
	infinitiveRe    = regexp.MustCompile(`\bto\s+([a-z]{3,})\b`)
	sentenceSplitRe = regexp.MustCompile(`[.!?]`)
)

// 首句里会被误认成角色名的词
var notCharacterNames = map[string]bool{
	"The": true, "A": true, "An": true, "It": true, "He": true, "She": true,
	"They": true, "There": true, "This": true, "That": true, "Then": true,
	"One": true, "Once": true, "When": true, "Segment": true,
}

type storySegmentText struct {
	order int
	title string
	body  string
}

// ExtractImagePrompts 从完整故事文本提取有序的插图提示序列。
// 第一条提示标记为封面，其余为段落插图。
func ExtractImagePrompts(content, storyTitle string) []model.ImagePrompt {
	segments := splitSegments(content)

	prompts := make([]model.ImagePrompt, 0, len(segments))
	for _, seg := range segments {
		text, ok := findImageDirective(seg.body)
		if !ok {
			text, ok = fallbackPrompt(seg.body, storyTitle)
		}
		if !ok {
			continue
		}
		prompts = append(prompts, model.ImagePrompt{
			SegmentOrder: seg.order,
			Title:        seg.title,
			PromptText:   text,
			Kind:         model.SegmentPrompt,
		})
	}

	// 全部落空时给一条只引用标题的合成封面
	if len(prompts) == 0 {
		prompts = append(prompts, model.ImagePrompt{
			SegmentOrder: 1,
			Title:        storyTitle,
			PromptText: fmt.Sprintf(
				"Children's book cover illustration for the story '%s'. Bright, colorful, child-friendly art style.",
				storyTitle),
			Kind: model.CoverPrompt,
		})
		return prompts
	}

	prompts[0].Kind = model.CoverPrompt
	return prompts
}

// splitSegments 以 "Segment N" 标题行切分正文；没有任何标题时整篇视作一段。
// 理解题部分不参与切分。
func splitSegments(content string) []storySegmentText {
	if loc := questionSectionRe.FindStringIndex(content); loc != nil {
		content = content[:loc[0]]
	}

	matches := segmentHeadingRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		if strings.TrimSpace(content) == "" {
			return nil
		}
		return []storySegmentText{{order: 1, title: "", body: content}}
	}

	segments := make([]storySegmentText, 0, len(matches))
	for i, m := range matches {
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		title := strings.TrimSpace(content[m[4]:m[5]])
		if title == "" {
			title = "Segment " + content[m[2]:m[3]]
		}

		segments = append(segments, storySegmentText{
			order: i + 1,
			title: title,
			body:  content[m[1]:end],
		})
	}
	return segments
}

// findImageDirective 依次尝试显式指令模式，第一个命中的结果生效
func findImageDirective(body string) (string, bool) {
	for _, re := range imageDirectiveRes {
		if m := re.FindStringSubmatch(body); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// fallbackPrompt 没有显式指令时，从段落首句启发式合成提示；
// 去掉标记后不足50个字符的段落跳过
func fallbackPrompt(body, storyTitle string) (string, bool) {
	plain := strings.TrimSpace(markupRe.ReplaceAllString(body, ""))
	if len(plain) <= 50 {
		return "", false
	}

	first := firstSentence(plain)

	characters := extractCharacters(first)
	subject := "the main character"
	if len(characters) > 0 {
		subject = joinNames(characters)
	}

	var parts []string
	parts = append(parts, subject)
	if action := extractAction(first); action != "" {
		parts = append(parts, action)
	}
	if setting := extractSetting(first); setting != "" {
		parts = append(parts, "in "+setting)
	}

	return fmt.Sprintf(
		"Children's book illustration showing %s for the story '%s'. Bright, colorful, child-friendly art style.",
		strings.Join(parts, " "), storyTitle), true
}

func firstSentence(text string) string {
	if loc := sentenceSplitRe.FindStringIndex(text); loc != nil {
		return text[:loc[0]]
	}
	return text
}

// extractCharacters 首句中"大写词+动词"的组合视作角色名，最多取3个
func extractCharacters(sentence string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range characterRe.FindAllStringSubmatch(sentence, -1) {
		name := m[1]
		if notCharacterNames[name] || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
		if len(names) == 3 {
			break
		}
	}
	return names
}

func extractSetting(sentence string) string {
	if m := settingRe.FindStringSubmatch(strings.ToLower(sentence)); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractAction(sentence string) string {
	lower := strings.ToLower(sentence)
	if m := gerundActionRe.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	if m := infinitiveRe.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	return ""
}

func joinNames(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
