// Package segmenter splits a lesson document into named sections.
package segmenter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxOrdinalTitleRunes = 40

type headingShape struct {
	name    string
	pattern *regexp.Regexp
	accept  func(title string) bool
}

// headingShapes are tried in priority order; the first match wins and the
// remaining shapes are not consulted for that line.
var headingShapes = []headingShape{
	{
		name:    "markdown",
		pattern: regexp.MustCompile(`^\s*#{1,6}\s*(.+?)\s*$`),
	},
	{
		name:    "ordinal",
		pattern: regexp.MustCompile(`^((?:\d{1,2}[.)．]\s+|\d{1,2}、\s*|[一二三四五六七八九十]+[、.．]\s*).+)$`),
		accept:  acceptOrdinalTitle,
	},
	{
		name:    "bold",
		pattern: regexp.MustCompile(`^\s*\*\*\s*([^*]+?)\s*\*\*\s*[:：]?\s*$`),
	},
	{
		name:    "vocabulary",
		pattern: regexp.MustCompile(`^\s*(.+?)\s*[:：]?\s*$`),
		accept: func(title string) bool {
			return knownTitles[strings.ToLower(title)]
		},
	},
}

var (
	ordinalPrefix = regexp.MustCompile(`^(?:\d{1,2}\s*[.)．、]\s*|[一二三四五六七八九十]+\s*[、.．]\s*)`)
	hashPrefix    = regexp.MustCompile(`^#{1,6}`)
)

// Segment scans doc line by line and returns its sections. Lines before the
// first heading are dropped; a heading with no body contributes no entry;
// repeated canonical names are merged by concatenation in encounter order.
func Segment(doc string) Sections {
	var (
		out     Sections
		index   = map[string]int{}
		current string
		acc     []string
	)

	flush := func() {
		body := joinBody(acc)
		acc = acc[:0]
		if current == "" || body == "" {
			return
		}
		if i, ok := index[current]; ok {
			out[i].Body += "\n" + body
			return
		}
		index[current] = len(out)
		out = append(out, Section{Name: current, Body: body})
	}

	for _, line := range strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n") {
		if isMetaCommentary(line) {
			continue
		}
		if title, ok := MatchHeading(line); ok {
			flush()
			current = Canonicalize(title)
			continue
		}
		if current == "" {
			continue
		}
		acc = append(acc, line)
	}
	flush()

	if out == nil {
		return Sections{}
	}
	return out
}

// MatchHeading reports whether line is a heading and returns its cleaned
// title.
func MatchHeading(line string) (string, bool) {
	for _, shape := range headingShapes {
		m := shape.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := CleanTitle(m[1])
		if title == "" {
			return "", false
		}
		if shape.accept != nil && !shape.accept(title) {
			return "", false
		}
		return title, true
	}
	return "", false
}

// CleanTitle strips heading decorations: leading hashes, bold markers,
// ordinals, surrounding whitespace and a trailing colon.
func CleanTitle(raw string) string {
	t := strings.TrimSpace(raw)
	t = hashPrefix.ReplaceAllString(t, "")
	t = strings.Trim(t, "* \t")
	t = ordinalPrefix.ReplaceAllString(t, "")
	t = strings.TrimRight(t, ":： \t")
	t = strings.Trim(t, "* \t")
	return t
}

func acceptOrdinalTitle(title string) bool {
	if utf8.RuneCountInString(title) > maxOrdinalTitleRunes {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(title)
	switch last {
	case '.', ',', ';', '!', '?', '。', '，', '；', '！', '？':
		return false
	}
	return true
}

// joinBody joins accumulated lines, dropping leading and trailing blank
// lines but keeping interior lines verbatim.
func joinBody(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}
