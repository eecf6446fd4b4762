// Package lesson holds the request parameters shared by generation and
// session identity.
package lesson

import "strings"

// Params describes the lesson plan to draft.
type Params struct {
	Grade            string   `json:"grade"`
	MainSubject      string   `json:"main_subject"`
	RelatedSubjects  []string `json:"related_subjects"`
	EstimatedHours   int      `json:"estimated_hours"`
	KnowledgeGoals   []string `json:"knowledge_goals"`
	AcademicFeatures string   `json:"academic_features"`
}

// Normalize trims every string and drops blank list items. Two requests that
// differ only in surrounding whitespace normalize to the same value.
func (p Params) Normalize() Params {
	return Params{
		Grade:            strings.TrimSpace(p.Grade),
		MainSubject:      strings.TrimSpace(p.MainSubject),
		RelatedSubjects:  trimAll(p.RelatedSubjects),
		EstimatedHours:   p.EstimatedHours,
		KnowledgeGoals:   trimAll(p.KnowledgeGoals),
		AcademicFeatures: strings.TrimSpace(p.AcademicFeatures),
	}
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
