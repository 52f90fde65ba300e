package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"skillscope/internal/models"
	"skillscope/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// generator is the narrow slice of the language model used for context
// enrichment. Keeping it small makes the service trivial to stub in
// tests.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type gigachatGenerator struct {
	model *gigago.GenerativeModel
}

func (g *gigachatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := g.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildSystemInstruction() string {
	return `You are a careful CV analyst. You receive the text of a CV together with a list of skills that were already identified in it. Your only job is to add context for those skills: proficiency level, years of experience, surrounding evidence, and the document's section structure.

Rules:
- Never invent skills. Only describe skills from the provided list.
- Only state proficiency or years of experience when the text supports it; otherwise leave the field empty.
- Always answer with a single valid JSON object and nothing else.`
}

// ContextService enriches an extraction with best-effort annotations
// from a language model. It never changes which skills were matched or
// their scores; it only attaches context to them.
type ContextService struct {
	gen     generator
	timeout time.Duration
	logger  *zap.Logger
}

func NewContextService(cfg *config.GigaChatConfig, logger *zap.Logger) (*ContextService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = buildSystemInstruction()
	model.Temperature = 0.2

	return &ContextService{
		gen:     &gigachatGenerator{model: model},
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Annotate asks the language model for context on the already-matched
// skills. The call is bounded by the configured timeout; any failure is
// returned to the caller, who degrades to the base report.
func (s *ContextService) Annotate(ctx context.Context, text string, skills []models.MatchResult) (*models.ContextAnnotations, error) {
	if len(skills) == 0 {
		return &models.ContextAnnotations{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.gen.Generate(ctx, buildContextPrompt(text, skills))
	if err != nil {
		return nil, fmt.Errorf("failed to generate context annotations: %w", err)
	}

	annotations, err := parseAnnotations(content)
	if err != nil {
		return nil, err
	}

	// The model must not smuggle in new skills: drop any annotation
	// whose skill is not in the matched set.
	matched := make(map[string]struct{}, len(skills))
	for _, m := range skills {
		matched[strings.ToLower(m.Name)] = struct{}{}
	}
	kept := annotations.Skills[:0]
	for _, a := range annotations.Skills {
		if _, ok := matched[strings.ToLower(a.SkillName)]; ok {
			kept = append(kept, a)
		}
	}
	if dropped := len(annotations.Skills) - len(kept); dropped > 0 {
		s.logger.Warn("Dropped annotations for unmatched skills", zap.Int("count", dropped))
	}
	annotations.Skills = kept

	s.logger.Info("Context annotations generated",
		zap.Int("skills", len(annotations.Skills)),
		zap.Int("sections", len(annotations.Sections)),
	)

	return annotations, nil
}

func buildContextPrompt(text string, skills []models.MatchResult) string {
	names := make([]string, 0, len(skills))
	for _, m := range skills {
		names = append(names, m.Name)
	}

	return fmt.Sprintf(`Analyze the CV below. The following skills were already identified in it:
%s

CV text:
%s

Return ONLY a valid JSON object in this format, with no markdown and no commentary:
{
  "skills": [
    {
      "skill_name": "one of the identified skills, verbatim",
      "proficiency_level": "beginner|intermediate|advanced|expert or empty",
      "years_experience": "e.g. 3+ or empty",
      "context_note": "short quote or paraphrase of the supporting evidence",
      "industry_context": "industry the skill was used in, or empty"
    }
  ],
  "sections": [
    {"name": "section heading as it appears", "items": ["notable entries"]}
  ]
}

Rules:
- Skip identified skills that have no supporting context rather than guessing.
- If the text has no recognizable sections, return an empty sections array.`,
		strings.Join(names, ", "), text)
}

// parseAnnotations extracts the JSON object from the model output,
// tolerating markdown fences and stray commentary around it.
func parseAnnotations(content string) (*models.ContextAnnotations, error) {
	content = strings.TrimSpace(content)

	jsonStart := strings.Index(content, "{")
	jsonEnd := strings.LastIndex(content, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return nil, fmt.Errorf("invalid response format: %s", content)
	}
	jsonStr := content[jsonStart : jsonEnd+1]

	var annotations models.ContextAnnotations
	if err := json.Unmarshal([]byte(jsonStr), &annotations); err != nil {
		jsonStr = strings.TrimPrefix(jsonStr, "```json")
		jsonStr = strings.TrimPrefix(jsonStr, "```")
		jsonStr = strings.TrimSuffix(jsonStr, "```")
		jsonStr = strings.TrimSpace(jsonStr)
		if err := json.Unmarshal([]byte(jsonStr), &annotations); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
	}
	return &annotations, nil
}
