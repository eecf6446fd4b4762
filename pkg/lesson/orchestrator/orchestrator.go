// Package orchestrator sequences generation calls for lesson plans. Every raw
// response is sanitized before it is returned or fed into the next call.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/487058267/agent-cross-discipline/internal/constant"
	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/pkg/apierr"
	"github.com/487058267/agent-cross-discipline/pkg/lesson"
	"github.com/487058267/agent-cross-discipline/pkg/lesson/keyword"
	"github.com/487058267/agent-cross-discipline/pkg/lesson/sanitizer"
	"github.com/487058267/agent-cross-discipline/pkg/llm"
)

const moduleName = "ORCHESTRATOR"

const (
	DefaultGenerateTimeout = 120 * time.Second
	DefaultKeywordTimeout  = 15 * time.Second
)

// ErrEmptyDocument means the backend answered but nothing survived sanitization.
var ErrEmptyDocument = fmt.Errorf("%w: empty document after sanitization", apierr.ErrUpstream)

// Config bounds each kind of outbound call.
type Config struct {
	GenerateTimeout time.Duration
	KeywordTimeout  time.Duration
}

// Draft is the result of Create.
type Draft struct {
	// Initial is the sanitized first-pass document.
	Initial string
	// Document is the sanitized enhanced document.
	Document string
}

type Orchestrator struct {
	provider        llm.LLMProvider
	keywords        *keyword.Extractor
	generateTimeout time.Duration
	logger          logger.ILogger
}

func New(provider llm.LLMProvider, cfg Config, log logger.ILogger) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = DefaultGenerateTimeout
	}
	if cfg.KeywordTimeout <= 0 {
		cfg.KeywordTimeout = DefaultKeywordTimeout
	}
	return &Orchestrator{
		provider:        provider,
		keywords:        keyword.NewExtractor(provider, cfg.KeywordTimeout, log),
		generateTimeout: cfg.GenerateTimeout,
		logger:          log,
	}
}

// Create drafts a lesson plan and then asks the backend to deepen its
// cross-disciplinary integration. The two calls run strictly in sequence.
func (o *Orchestrator) Create(ctx context.Context, params lesson.Params) (*Draft, error) {
	params = params.Normalize()

	initial, err := o.generate(ctx, "draft", BuildCreatePrompt(params))
	if err != nil {
		return nil, err
	}

	enhanced, err := o.generate(ctx, "enhance", BuildEnhancePrompt(initial))
	if err != nil {
		return nil, err
	}

	return &Draft{Initial: initial, Document: enhanced}, nil
}

// Modify rewrites one section of document and returns the complete new document.
func (o *Orchestrator) Modify(ctx context.Context, document, section, instructions string) (string, error) {
	return o.generate(ctx, "modify", BuildModifyPrompt(document, section, instructions))
}

// ExtractKeywords returns a short media search query for a section body.
func (o *Orchestrator) ExtractKeywords(ctx context.Context, body, name string) string {
	return o.keywords.Extract(ctx, body, name)
}

func (o *Orchestrator) generate(ctx context.Context, stage, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.generateTimeout)
	defer cancel()

	start := time.Now()
	raw, err := o.provider.Generate(ctx, prompt)
	if err != nil {
		// A deadline hit inside the provider is a transport failure.
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, apierr.ErrTransport) {
			err = apierr.Transport(stage, err)
		}
		o.logger.Error(moduleName, "generation failed", map[string]interface{}{
			"stage": stage,
			"error": err.Error(),
		})
		return "", err
	}

	doc := sanitizer.Sanitize(raw)
	if doc == "" {
		o.logger.Warn(moduleName, "generation produced empty document", map[string]interface{}{
			"stage":     stage,
			"raw_chars": len(raw),
		})
		return "", ErrEmptyDocument
	}

	o.logger.Info(moduleName, "generation completed", map[string]interface{}{
		"stage":       stage,
		"raw_chars":   len(raw),
		"clean_chars": len(doc),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return doc, nil
}

// BuildCreatePrompt embeds the lesson parameters and the fixed five-part structure.
func BuildCreatePrompt(p lesson.Params) string {
	return fmt.Sprintf(constant.CreateLessonPrompt,
		p.Grade,
		p.MainSubject,
		joinOrNone(p.RelatedSubjects),
		p.EstimatedHours,
		joinOrNone(p.KnowledgeGoals),
		orNone(p.AcademicFeatures),
	)
}

func BuildEnhancePrompt(draft string) string {
	return fmt.Sprintf(constant.EnhanceLessonPrompt, draft)
}

func BuildModifyPrompt(document, section, instructions string) string {
	return fmt.Sprintf(constant.ModifyLessonPrompt, document, section, strings.TrimSpace(instructions))
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
