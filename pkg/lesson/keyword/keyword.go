// Package keyword reduces a lesson section to a short media search query.
//
// Extraction runs an ordered list of strategies. Each candidate is validated
// and the first valid one wins; the deterministic fallbacks never touch the
// network, so Extract always returns a short lookup-safe string.
package keyword

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/pkg/lesson/sanitizer"
	"github.com/487058267/agent-cross-discipline/pkg/llm"
)

const (
	// MaxFallbackTokens bounds the deterministic query.
	MaxFallbackTokens = 5

	// MaxQueryTokens and MaxQueryRunes bound any accepted query.
	MaxQueryTokens = 6
	MaxQueryRunes  = 32

	maxTokenRunes  = 12
	maxPromptRunes = 1500
	defaultTimeout = 15 * time.Second
	moduleName     = "KEYWORD"
)

// ErrInvalidQuery is returned by Validate for unusable candidates.
var ErrInvalidQuery = errors.New("unusable keyword query")

// Strategy produces a candidate query for a section.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, body, name string) (string, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc struct {
	Label string
	Fn    func(ctx context.Context, body, name string) (string, error)
}

func (s StrategyFunc) Name() string { return s.Label }

func (s StrategyFunc) Extract(ctx context.Context, body, name string) (string, error) {
	return s.Fn(ctx, body, name)
}

// Extractor runs strategies in order until one yields a valid query.
type Extractor struct {
	strategies []Strategy
	logger     logger.ILogger
}

// NewExtractor builds the default chain: model, section body, section name
// words, then the section name as is.
// A nil provider leaves only the deterministic strategies.
func NewExtractor(provider llm.LLMProvider, timeout time.Duration, log logger.ILogger) *Extractor {
	if log == nil {
		log = logger.NewNop()
	}
	var strategies []Strategy
	if provider != nil {
		strategies = append(strategies, &ModelStrategy{Provider: provider, Timeout: timeout})
	}
	strategies = append(strategies,
		StrategyFunc{Label: "body_fallback", Fn: func(_ context.Context, body, _ string) (string, error) {
			return Fallback(body), nil
		}},
		StrategyFunc{Label: "name_fallback", Fn: func(_ context.Context, _, name string) (string, error) {
			return Fallback(name), nil
		}},
		// canonical names are stop words for body text but still a usable query
		StrategyFunc{Label: "section_name", Fn: func(_ context.Context, _, name string) (string, error) {
			return strings.TrimSpace(name), nil
		}},
	)
	return &Extractor{strategies: strategies, logger: log}
}

// NewExtractorWithStrategies builds an extractor over a custom chain.
func NewExtractorWithStrategies(log logger.ILogger, strategies ...Strategy) *Extractor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Extractor{strategies: strategies, logger: log}
}

// Extract returns a query for the section. It returns "" when the body is
// empty or no strategy produces a valid query.
func (e *Extractor) Extract(ctx context.Context, body, name string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	for _, s := range e.strategies {
		candidate, err := s.Extract(ctx, body, name)
		if err == nil {
			candidate, err = Validate(candidate)
		}
		if err != nil {
			e.logger.Warn(moduleName, "keyword strategy rejected", map[string]interface{}{
				"strategy": s.Name(),
				"section":  name,
				"error":    err.Error(),
			})
			continue
		}
		e.logger.Debug(moduleName, "keyword extracted", map[string]interface{}{
			"strategy": s.Name(),
			"section":  name,
			"query":    candidate,
		})
		return candidate
	}
	return ""
}

// Validate normalizes whitespace and accepts a candidate of 1..MaxQueryTokens
// tokens and at most MaxQueryRunes runes.
func Validate(candidate string) (string, error) {
	fields := strings.Fields(candidate)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty", ErrInvalidQuery)
	}
	if len(fields) > MaxQueryTokens {
		return "", fmt.Errorf("%w: %d tokens", ErrInvalidQuery, len(fields))
	}
	q := strings.Join(fields, " ")
	if n := utf8.RuneCountInString(q); n > MaxQueryRunes {
		return "", fmt.Errorf("%w: %d runes", ErrInvalidQuery, n)
	}
	return q, nil
}

// ModelStrategy asks the generation backend for a short phrase.
type ModelStrategy struct {
	Provider llm.LLMProvider
	Timeout  time.Duration
}

func (m *ModelStrategy) Name() string { return "model" }

func (m *ModelStrategy) Extract(ctx context.Context, body, name string) (string, error) {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := m.Provider.Generate(ctx, BuildPrompt(body, name), llm.WithTemperature(0.2))
	if err != nil {
		return "", err
	}
	return CleanModelOutput(raw), nil
}

// BuildPrompt asks for a short punctuation-free phrase in the text's language.
func BuildPrompt(body, name string) string {
	var sb strings.Builder
	sb.WriteString("Read the lesson-plan section below and reply with ONE short search phrase ")
	sb.WriteString("(2 to 4 words, or at most 10 characters for Chinese) that would find relevant ")
	sb.WriteString("teaching images or videos.\n")
	sb.WriteString("Rules: use the same language as the section text; no punctuation; no quotes; ")
	sb.WriteString("no explanation; output the phrase only.\n\n")
	sb.WriteString(fmt.Sprintf("Section: %s\n", name))
	sb.WriteString("Text:\n")
	sb.WriteString(truncateRunes(body, maxPromptRunes))
	return sb.String()
}

// CleanModelOutput sanitizes a raw reply, keeps only letters, digits and
// whitespace, and collapses whitespace.
func CleanModelOutput(raw string) string {
	clean := sanitizer.Sanitize(raw)
	clean = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, clean)
	return strings.Join(strings.Fields(clean), " ")
}

// Fallback builds a query without the network: words of the text minus stop
// words, longer than one rune, first MaxFallbackTokens in order. Words are
// kept whole; a word that would push the query past MaxQueryRunes is skipped.
// A text whose only usable word is longer than MaxQueryRunes yields that word
// cut to maxTokenRunes, so a non-empty result always passes Validate.
func Fallback(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	kept := make([]string, 0, MaxFallbackTokens)
	size := 0
	overlong := ""
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if n <= 1 || IsStopWord(w) {
			continue
		}
		if n > MaxQueryRunes {
			if overlong == "" {
				overlong = w
			}
			continue
		}
		next := size + n
		if len(kept) > 0 {
			next++
		}
		if next > MaxQueryRunes {
			continue
		}
		kept = append(kept, w)
		size = next
		if len(kept) == MaxFallbackTokens {
			break
		}
	}
	if len(kept) == 0 && overlong != "" {
		return truncateRunes(overlong, maxTokenRunes)
	}
	return strings.Join(kept, " ")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func lower(s string) string {
	return strings.ToLower(s)
}
