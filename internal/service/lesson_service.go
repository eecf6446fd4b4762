package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/487058267/agent-cross-discipline/internal/dto"
	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/pkg/apierr"
	"github.com/487058267/agent-cross-discipline/pkg/events"
	"github.com/487058267/agent-cross-discipline/pkg/lesson"
	"github.com/487058267/agent-cross-discipline/pkg/lesson/orchestrator"
	"github.com/487058267/agent-cross-discipline/pkg/lesson/segmenter"
	"github.com/487058267/agent-cross-discipline/pkg/session"
	"github.com/487058267/agent-cross-discipline/pkg/store"
)

const (
	lessonModule        = "LESSON"
	eventPublishTimeout = 3 * time.Second
)

// Artifact kinds.
const (
	ArtifactCreate = "create"
	ArtifactModify = "modify"
	ArtifactMedia  = "media"
)

// LessonGenerator drafts, revises and summarizes lesson documents.
type LessonGenerator interface {
	Create(ctx context.Context, params lesson.Params) (*orchestrator.Draft, error)
	Modify(ctx context.Context, document, section, instructions string) (string, error)
	ExtractKeywords(ctx context.Context, body, name string) string
}

// EventPublisher delivers domain events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ILessonService interface {
	Generate(ctx context.Context, req *dto.GenerateLessonRequest) (*dto.GenerateLessonResponse, error)
	Modify(ctx context.Context, req *dto.ModifyLessonRequest) (*dto.ModifyLessonResponse, error)
	GetSections(ctx context.Context, sessionId string) (*dto.SectionsResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error)
}

type lessonService struct {
	generator LessonGenerator
	sessions  *session.Manager
	notifier  *notifier
	logger    logger.ILogger
}

// NewLessonService wires the lesson flow. artifacts and eventPublisher may be nil.
func NewLessonService(
	generator LessonGenerator,
	sessions *session.Manager,
	artifacts IPublisherService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) ILessonService {
	return &lessonService{
		generator: generator,
		sessions:  sessions,
		notifier:  newNotifier(artifacts, eventPublisher, log),
		logger:    log,
	}
}

func (s *lessonService) Generate(ctx context.Context, req *dto.GenerateLessonRequest) (*dto.GenerateLessonResponse, error) {
	params := req.Params().Normalize()

	id, err := store.DeriveID(params)
	if err != nil {
		return nil, err
	}

	draft, err := s.generator.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	sections := segmenter.Segment(draft.Document)

	inputs := paramsInputs(params)
	unlock := s.sessions.Lock(id)
	_, err = s.sessions.Create(ctx, id, draft.Document, sections, store.HistoryEntry{
		ActionKind:        store.ActionCreate,
		Inputs:            inputs,
		ResultingDocument: draft.Document,
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Info(lessonModule, "lesson created", map[string]interface{}{
		"session_id": id,
		"sections":   sections.Names(),
	})

	s.notifier.artifact(ctx, ArtifactCreate, id, inputs, draft.Document)
	s.notifier.event(ctx, events.TypeLessonCreated, map[string]interface{}{
		"session_id":   id,
		"main_subject": params.MainSubject,
		"sections":     sections.Names(),
	})

	return &dto.GenerateLessonResponse{
		SessionId:  id,
		LessonPlan: draft.Document,
		Sections:   sections,
	}, nil
}

func (s *lessonService) Modify(ctx context.Context, req *dto.ModifyLessonRequest) (*dto.ModifyLessonResponse, error) {
	unlock := s.sessions.Lock(req.SessionId)
	defer unlock()

	sess, err := s.sessions.Get(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}

	target, ok := sess.Sections.Find(req.SectionToModify)
	if !ok {
		return nil, &apierr.SectionNotFoundError{
			Section:   req.SectionToModify,
			Available: sess.Sections.Names(),
		}
	}

	doc, err := s.generator.Modify(ctx, sess.CurrentDocument, target.Name, req.ModificationInstructions)
	if err != nil {
		return nil, err
	}
	sections := segmenter.Segment(doc)

	inputs := map[string]string{
		"section":      target.Name,
		"instructions": strings.TrimSpace(req.ModificationInstructions),
	}
	if _, err := s.sessions.Update(ctx, req.SessionId, doc, sections, store.HistoryEntry{
		ActionKind:        store.ActionModify,
		Inputs:            inputs,
		ResultingDocument: doc,
	}); err != nil {
		return nil, err
	}

	s.logger.Info(lessonModule, "lesson modified", map[string]interface{}{
		"session_id": req.SessionId,
		"section":    target.Name,
	})

	s.notifier.artifact(ctx, ArtifactModify, req.SessionId, inputs, doc)
	s.notifier.event(ctx, events.TypeLessonModified, map[string]interface{}{
		"session_id": req.SessionId,
		"section":    target.Name,
	})

	return &dto.ModifyLessonResponse{
		SessionId:       req.SessionId,
		LessonPlan:      doc,
		Sections:        sections,
		ModifiedSection: target.Name,
	}, nil
}

func (s *lessonService) GetSections(ctx context.Context, sessionId string) (*dto.SectionsResponse, error) {
	sess, err := s.sessions.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return &dto.SectionsResponse{SessionId: sess.ID, Sections: sess.Sections}, nil
}

func (s *lessonService) GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error) {
	sess, err := s.sessions.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		SessionId:  sess.ID,
		LessonPlan: sess.CurrentDocument,
		Sections:   sess.Sections,
		History:    sess.History,
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.UpdatedAt,
	}, nil
}

func paramsInputs(p lesson.Params) map[string]string {
	return map[string]string{
		"grade":             p.Grade,
		"main_subject":      p.MainSubject,
		"related_subjects":  strings.Join(p.RelatedSubjects, ", "),
		"estimated_hours":   strconv.Itoa(p.EstimatedHours),
		"knowledge_goals":   strings.Join(p.KnowledgeGoals, ", "),
		"academic_features": p.AcademicFeatures,
	}
}

// notifier fans a completed action out to the artifact queue and the event
// bus. Failures are logged and never reach the caller.
type notifier struct {
	artifacts IPublisherService
	events    EventPublisher
	logger    logger.ILogger
}

func newNotifier(artifacts IPublisherService, eventPublisher EventPublisher, log logger.ILogger) *notifier {
	return &notifier{artifacts: artifacts, events: eventPublisher, logger: log}
}

func (n *notifier) artifact(ctx context.Context, kind, sessionId string, metadata map[string]string, content string) {
	if n.artifacts == nil {
		return
	}
	payload, err := json.Marshal(dto.ArtifactMessage{
		Kind:      kind,
		SessionId: sessionId,
		Metadata:  metadata,
		Content:   content,
		CreatedAt: time.Now(),
	})
	if err == nil {
		err = n.artifacts.Publish(ctx, payload)
	}
	if err != nil {
		n.logger.Warn(lessonModule, "failed to queue artifact", map[string]interface{}{
			"session_id": sessionId,
			"kind":       kind,
			"error":      err.Error(),
		})
	}
}

func (n *notifier) event(ctx context.Context, eventType string, data map[string]interface{}) {
	if n.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := n.events.Publish(ctx, events.New(eventType, data)); err != nil {
		n.logger.Warn(lessonModule, "failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
