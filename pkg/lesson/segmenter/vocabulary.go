package segmenter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical section names.
const (
	Objectives = "Objectives"
	CrossLinks = "Cross-disciplinary Links"
	Procedure  = "Procedure"
	Assessment = "Assessment"
	Extension  = "Extension"
)

// CanonicalOrder is the five-part structure every generated plan follows.
var CanonicalOrder = []string{Objectives, CrossLinks, Procedure, Assessment, Extension}

type canonicalRule struct {
	name       string
	substrings []string
}

// canonicalRules are tested in order; the first rule with a matching
// substring names the section.
var canonicalRules = []canonicalRule{
	{Objectives, []string{"objective", "learning goal", "teaching goal", "knowledge goal", "教学目标", "学习目标", "目标"}},
	{CrossLinks, []string{
		"cross-disciplinary link", "cross-disciplinary connection", "cross-disciplinary integration",
		"cross disciplinary link", "cross disciplinary connection",
		"interdisciplinary link", "interdisciplinary connection", "cross-curricular",
		"跨学科关联", "跨学科联系", "跨学科整合", "学科关联",
	}},
	{Procedure, []string{"procedure", "teaching steps", "lesson steps", "instructional steps", "teaching process", "教学步骤", "教学过程", "教学流程", "步骤"}},
	{Assessment, []string{"assessment", "evaluation", "评估", "评价"}},
	{Extension, []string{"extension", "extended activit", "follow-up activit", "延伸", "拓展"}},
}

// knownTitles are standalone lines recognised as headings without any
// decoration. Compared lower-cased with a trailing colon removed.
var knownTitles = toSet(
	"objectives",
	"teaching objectives",
	"learning objectives",
	"cross-disciplinary links",
	"cross-disciplinary connections",
	"procedure",
	"teaching procedure",
	"teaching steps",
	"assessment",
	"assessment methods",
	"extension",
	"extension activities",
	"教学目标",
	"跨学科关联",
	"教学步骤",
	"评估方法",
	"延伸活动",
)

// metaCues mark lines of generation meta-commentary. Such lines are never
// heading or body content.
var metaCues = []string{
	"per the request",
	"as requested",
	"let me",
	"need to consider",
	"i need to",
	"the user wants",
	"the user asked",
	"根据要求",
	"根据您的要求",
	"让我",
	"需要考虑",
}

// Canonicalize maps a cleaned heading title onto the controlled vocabulary.
// Titles that match no rule are returned unchanged.
func Canonicalize(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range canonicalRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.name
			}
		}
	}
	return title
}

// IsCanonical reports whether name is one of the five canonical names.
func IsCanonical(name string) bool {
	for _, n := range CanonicalOrder {
		if n == name {
			return true
		}
	}
	return false
}

func toSet(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

func isMetaCommentary(line string) bool {
	lower := strings.ToLower(line)
	for _, cue := range metaCues {
		if containsCue(lower, cue) {
			return true
		}
	}
	return false
}

// containsCue matches CJK cues anywhere and ASCII cues only as whole words,
// so "tablet measurements" does not match "let me".
func containsCue(s, cue string) bool {
	if cue[0] >= utf8.RuneSelf {
		return strings.Contains(s, cue)
	}
	for offset := 0; ; {
		i := strings.Index(s[offset:], cue)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(cue)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(s) || !isWordRune(after)) {
			return true
		}
		offset = start + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
