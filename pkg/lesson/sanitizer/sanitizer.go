// Package sanitizer removes generation artifacts from raw model output.
//
// Cleaning is an ordered list of rules: tag rules run before phrase rules,
// which run before whitespace normalization. The list is re-applied until the
// text stops changing, so Sanitize(Sanitize(x)) == Sanitize(x).
package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule is one cleaning step.
type Rule interface {
	Name() string
	Apply(text string) string
}

type regexRule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

func (r regexRule) Name() string { return r.name }

func (r regexRule) Apply(text string) string {
	return r.pattern.ReplaceAllString(text, r.replacement)
}

type funcRule struct {
	name string
	fn   func(string) string
}

func (r funcRule) Name() string            { return r.name }
func (r funcRule) Apply(text string) string { return r.fn(text) }

// ReasoningTags are the tag names whose spans are treated as hidden reasoning.
var ReasoningTags = []string{"think", "thinking", "thought", "thoughts", "reasoning", "reflection"}

// NarrationCues open a sentence of meta-commentary. Matching is
// case-insensitive; ASCII cues must end on a word boundary.
var NarrationCues = []string{
	"let me",
	"i will",
	"i'll",
	"i need to",
	"i should",
	"thinking",
	"hmm",
	"让我",
	"我将",
	"我需要",
	"我来",
	"思考",
}

var (
	fencePattern        = regexp.MustCompile("(?s)^\\s*```[A-Za-z]*[ \\t]*\\n(.*?)\\n?```\\s*$")
	markupPattern       = regexp.MustCompile(`</?[A-Za-z!][^<>]*>`)
	blankRunPattern     = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
	orphanClosePatterns = buildOrphanClosePatterns()
)

// Sanitizer applies an ordered rule list.
type Sanitizer struct {
	rules []Rule
}

// New returns a sanitizer with the default rule order.
func New() *Sanitizer {
	return &Sanitizer{rules: DefaultRules()}
}

// NewWithRules returns a sanitizer over a custom rule list.
func NewWithRules(rules ...Rule) *Sanitizer {
	return &Sanitizer{rules: rules}
}

// DefaultRules returns the tag, phrase and whitespace rules in order.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(ReasoningTags)+6)
	for _, tag := range ReasoningTags {
		rules = append(rules, regexRule{
			name:    "reasoning_span_" + tag,
			pattern: regexp.MustCompile(`(?is)<\s*` + tag + `\b[^>]*>.*?<\s*/\s*` + tag + `\s*>`),
		})
	}
	rules = append(rules,
		funcRule{name: "orphan_reasoning_close", fn: dropOrphanClose},
		funcRule{name: "code_fence", fn: unwrapFence},
		regexRule{name: "markup_tags", pattern: markupPattern},
		funcRule{name: "narration_sentences", fn: dropNarration},
		regexRule{name: "blank_lines", pattern: blankRunPattern, replacement: "\n\n"},
		funcRule{name: "trim", fn: strings.TrimSpace},
	)
	return rules
}

// Sanitize cleans raw with the default rules.
func Sanitize(raw string) string {
	return defaultSanitizer.Sanitize(raw)
}

var defaultSanitizer = New()

// Sanitize runs the rule list until the text is stable. The default rules
// only ever remove text, so every changing pass shrinks it and the loop ends.
// A custom rule that rewrites without shrinking stops the loop after its pass.
func (s *Sanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	for {
		next := s.pass(text)
		if next == text {
			return text
		}
		if len(next) >= len(text) {
			return next
		}
		text = next
	}
}

func (s *Sanitizer) pass(text string) string {
	for _, r := range s.rules {
		text = r.Apply(text)
	}
	return text
}

func buildOrphanClosePatterns() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(ReasoningTags))
	for _, tag := range ReasoningTags {
		out = append(out, regexp.MustCompile(`(?is)<\s*/\s*`+tag+`\s*>`))
	}
	return out
}

// dropOrphanClose removes everything up to the last closing reasoning tag.
// Balanced spans are already gone, so any closing tag left has no opener.
func dropOrphanClose(text string) string {
	for _, closeRe := range orphanClosePatterns {
		locs := closeRe.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}
		text = text[locs[len(locs)-1][1]:]
	}
	return text
}

func unwrapFence(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// dropNarration deletes sentences that open with a narration cue.
func dropNarration(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = dropNarrationInLine(line)
	}
	return strings.Join(lines, "\n")
}

func dropNarrationInLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return line
	}
	sentences := splitSentences(line)
	var sb strings.Builder
	dropped := false
	for _, s := range sentences {
		if startsWithCue(s) {
			dropped = true
			continue
		}
		sb.WriteString(s)
	}
	if !dropped {
		return line
	}
	return strings.TrimRightFunc(sb.String(), unicode.IsSpace)
}

// splitSentences cuts a line after each boundary rune, keeping trailing
// whitespace with the sentence it follows.
func splitSentences(line string) []string {
	var out []string
	start := 0
	i := 0
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		i += size
		if !isBoundary(r) {
			continue
		}
		for i < len(line) {
			r2, s2 := utf8.DecodeRuneInString(line[i:])
			if !unicode.IsSpace(r2) {
				break
			}
			i += s2
		}
		out = append(out, line[start:i])
		start = i
	}
	if start < len(line) {
		out = append(out, line[start:])
	}
	return out
}

func isBoundary(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

func startsWithCue(sentence string) bool {
	s := strings.ToLower(strings.TrimLeftFunc(sentence, func(r rune) bool {
		return unicode.IsSpace(r) || r == '*' || r == '_' || r == '-'
	}))
	for _, cue := range NarrationCues {
		if !strings.HasPrefix(s, cue) {
			continue
		}
		if cue[0] >= utf8.RuneSelf {
			return true
		}
		rest := s[len(cue):]
		if rest == "" {
			return true
		}
		next, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsLetter(next) && !unicode.IsDigit(next) {
			return true
		}
	}
	return false
}
