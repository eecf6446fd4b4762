package sanitizer

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "plain text untouched",
			in:   "## 1. Objectives\nStudents explain forces.",
			want: "## 1. Objectives\nStudents explain forces.",
		},
		{
			name: "multi-line think span",
			in:   "<think>\nThe user wants a plan.\nOkay.\n</think>\n\n## Objectives\nA",
			want: "## Objectives\nA",
		},
		{
			name: "reasoning span with attributes and mixed case",
			in:   "Intro <Reasoning type=\"x\">hidden\nstuff</REASONING> end",
			want: "Intro  end",
		},
		{
			name: "orphan closing tag drops leading reasoning",
			in:   "first I consider grade level\n</think>\n## Objectives\nA",
			want: "## Objectives\nA",
		},
		{
			name: "markup tags stripped",
			in:   "<p>Hello <b>world</b></p><br/>",
			want: "Hello world",
		},
		{
			name: "comparison operators kept",
			in:   "Check that 3 < 5 and 7 > 2.",
			want: "Check that 3 < 5 and 7 > 2.",
		},
		{
			name: "narration sentence removed",
			in:   "Let me structure this first. Students measure speed.",
			want: "Students measure speed.",
		},
		{
			name: "narration mid-line removed up to boundary",
			in:   "Students measure speed. I will now add a table. Then they graph it.",
			want: "Students measure speed. Then they graph it.",
		},
		{
			name: "narration without terminator removes rest of line",
			in:   "Thinking about the rubric\nStudents present.",
			want: "Students present.",
		},
		{
			name: "cue must be a whole word",
			in:   "Letme is not a cue. Thinkingly is not either.",
			want: "Letme is not a cue. Thinkingly is not either.",
		},
		{
			name: "chinese narration",
			in:   "让我先整理一下。学生测量速度。",
			want: "学生测量速度。",
		},
		{
			name: "blank lines collapsed",
			in:   "A\n\n\n\nB\n\n\nC\n\nD",
			want: "A\n\nB\n\nC\n\nD",
		},
		{
			name: "code fence unwrapped",
			in:   "```markdown\n## Objectives\nA\n```",
			want: "## Objectives\nA",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  \n\n## Objectives\n\n  ",
			want: "## Objectives",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeRemovesEveryReasoningTag(t *testing.T) {
	for _, tag := range ReasoningTags {
		t.Run(tag, func(t *testing.T) {
			in := "before <" + tag + ">secret plan\nline two</" + tag + "> after"
			got := Sanitize(in)
			if strings.Contains(got, "secret") || strings.Contains(got, "line two") {
				t.Errorf("enclosed text survived: %q", got)
			}
			if strings.Contains(got, "<"+tag) || strings.Contains(got, "</"+tag) {
				t.Errorf("tag survived: %q", got)
			}
			if !strings.HasPrefix(got, "before") || !strings.HasSuffix(got, "after") {
				t.Errorf("surrounding text lost: %q", got)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"<think>x</think>Let me see. Let me think. Real content.",
		"<<b>think>nested</think> tail",
		"```\n```markdown\nA\n```\n```",
		"A\n\n\n\n\nB",
		"Hmm. I'll write it. 学生实验。让我想想",
		"<thinking>a</thinking><thinking>b</thinking>\n\n\n1. Objectives\n- I will explain.\n- Students do.",
		"Plan <<<<<a>a>a>a>a> body",
		"<<<<<<<<think>x</think>>>>>>>> tail",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestSanitizeDeeplyNestedMarkup(t *testing.T) {
	got := Sanitize("Plan <<<<<a>a>a>a>a> body")
	if got != "Plan  body" {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("markup left in %q", got)
	}
}

func TestDefaultRulesOrder(t *testing.T) {
	rules := DefaultRules()
	index := map[string]int{}
	for i, r := range rules {
		index[r.Name()] = i
	}
	if index["reasoning_span_think"] > index["markup_tags"] {
		t.Error("reasoning spans must be removed before generic markup")
	}
	if index["markup_tags"] > index["narration_sentences"] {
		t.Error("tag rules must run before phrase rules")
	}
	if index["narration_sentences"] > index["blank_lines"] {
		t.Error("phrase rules must run before whitespace normalization")
	}
}

func TestNewWithRules(t *testing.T) {
	s := NewWithRules(regexRule{name: "markup_only", pattern: markupPattern})
	if got := s.Sanitize("a<x>b"); got != "ab" {
		t.Errorf("got %q", got)
	}
}
