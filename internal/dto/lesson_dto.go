package dto

import (
	"time"

	"github.com/487058267/agent-cross-discipline/pkg/lesson"
	"github.com/487058267/agent-cross-discipline/pkg/lesson/segmenter"
	"github.com/487058267/agent-cross-discipline/pkg/store"
)

type GenerateLessonRequest struct {
	Grade            string   `json:"grade" validate:"required"`
	MainSubject      string   `json:"main_subject" validate:"required"`
	RelatedSubjects  []string `json:"related_subjects"`
	EstimatedHours   int      `json:"estimated_hours" validate:"min=1,max=100"`
	KnowledgeGoals   []string `json:"knowledge_goals"`
	AcademicFeatures string   `json:"academic_features"`
}

func (r *GenerateLessonRequest) Params() lesson.Params {
	return lesson.Params{
		Grade:            r.Grade,
		MainSubject:      r.MainSubject,
		RelatedSubjects:  r.RelatedSubjects,
		EstimatedHours:   r.EstimatedHours,
		KnowledgeGoals:   r.KnowledgeGoals,
		AcademicFeatures: r.AcademicFeatures,
	}
}

type GenerateLessonResponse struct {
	SessionId  string             `json:"session_id"`
	LessonPlan string             `json:"lesson_plan"`
	Sections   segmenter.Sections `json:"sections"`
}

type ModifyLessonRequest struct {
	SessionId                string
	ModificationInstructions string `json:"modification_instructions" validate:"required"`
	SectionToModify          string `json:"section_to_modify" validate:"required"`
}

type ModifyLessonResponse struct {
	SessionId       string             `json:"session_id"`
	LessonPlan      string             `json:"lesson_plan"`
	Sections        segmenter.Sections `json:"sections"`
	ModifiedSection string             `json:"modified_section"`
}

type SectionsResponse struct {
	SessionId string             `json:"session_id"`
	Sections  segmenter.Sections `json:"sections"`
}

type SessionResponse struct {
	SessionId  string               `json:"session_id"`
	LessonPlan string               `json:"lesson_plan"`
	Sections   segmenter.Sections   `json:"sections"`
	History    []store.HistoryEntry `json:"history"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}
