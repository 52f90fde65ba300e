package models

import (
	"time"

	"github.com/google/uuid"
)

// SkillAnnotation is context produced by the optional language-model
// collaborator for one already-matched skill. Annotations never add,
// remove, or rescore matches.
type SkillAnnotation struct {
	SkillName        string `json:"skill_name"`
	ProficiencyLevel string `json:"proficiency_level,omitempty"`
	YearsExperience  string `json:"years_experience,omitempty"`
	ContextNote      string `json:"context_note,omitempty"`
	IndustryContext  string `json:"industry_context,omitempty"`
}

// CVSection is a document section boundary proposed by the collaborator.
type CVSection struct {
	Name  string   `json:"name"`
	Items []string `json:"items,omitempty"`
}

// ContextAnnotations is the full best-effort collaborator output.
type ContextAnnotations struct {
	Skills   []SkillAnnotation `json:"skills,omitempty"`
	Sections []CVSection       `json:"sections,omitempty"`
}

// AnalysisReport is the complete output of one analyze request.
// Partial is set when the context collaborator failed or timed out and
// the report carries only the base extraction and intelligence results.
type AnalysisReport struct {
	ID                  uuid.UUID           `json:"id"`
	Extraction          ExtractionResult    `json:"extraction"`
	JobMatches          []JobMatch          `json:"job_matches"`
	CareerOpportunities []CareerOpportunity `json:"career_opportunities"`
	SkillGapAnalysis    SkillGapAnalysis    `json:"skill_gap_analysis"`
	ContextAnnotations  *ContextAnnotations `json:"context_annotations,omitempty"`
	Partial             bool                `json:"partial"`
	CreatedAt           time.Time           `json:"created_at"`
}
