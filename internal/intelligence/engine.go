package intelligence

import (
	"fmt"
	"sort"

	"skillscope/internal/models"
	"skillscope/internal/taxonomy"
)

// Config carries the scoring knobs. The source material left weighting
// and bucket boundaries under-specified, so everything is explicit
// configuration with documented defaults.
type Config struct {
	// EssentialWeight and OptionalWeight combine the two coverage
	// fractions into the match score.
	EssentialWeight float64
	OptionalWeight  float64
	// CoverageFloor drops occupations whose match score falls below it.
	// Occupations with no essential overlap are always dropped.
	CoverageFloor float64
	// GapThreshold is the maximum number of missing essential skills for
	// an occupation to qualify as a career opportunity. The boundary is
	// inclusive: a gap of exactly GapThreshold still qualifies.
	GapThreshold int
	// LowEffortMax and MediumEffortMax bucket the gap size into effort
	// levels; anything above MediumEffortMax is high effort.
	LowEffortMax    int
	MediumEffortMax int
	// StrongMatchScore excludes occupations the user already matches
	// well from the opportunity list.
	StrongMatchScore float64
	// TopOpportunities bounds the opportunities considered by the skill
	// gap analysis.
	TopOpportunities int
}

func DefaultConfig() Config {
	return Config{
		EssentialWeight:  0.7,
		OptionalWeight:   0.3,
		CoverageFloor:    0,
		GapThreshold:     5,
		LowEffortMax:     2,
		MediumEffortMax:  4,
		StrongMatchScore: 0.8,
		TopOpportunities: 10,
	}
}

// Engine computes job matches, career opportunities, and skill gaps
// from a matched skill set and the taxonomy graph. All methods are pure:
// they never mutate the graph or the input skill set, and identical
// inputs always produce identical output.
type Engine struct {
	graph *taxonomy.Graph
	cfg   Config
}

func NewEngine(graph *taxonomy.Graph, cfg Config) *Engine {
	return &Engine{graph: graph, cfg: cfg}
}

// JobMatches scores every occupation against the user's skill URIs.
// Occupations without any essential overlap or below the coverage floor
// are dropped; the rest are sorted by match score descending, ties kept
// in taxonomy insertion order.
func (e *Engine) JobMatches(userSkills map[string]struct{}) []models.JobMatch {
	var matches []models.JobMatch

	for _, occURI := range e.graph.OccupationOrder() {
		essential, optional := e.graph.RequiredSkills(occURI)

		matchedEssential := intersect(essential, userSkills)
		if len(matchedEssential) == 0 {
			continue
		}
		matchedOptional := intersect(optional, userSkills)

		coverage := models.Coverage{
			Essential: ratio(len(matchedEssential), len(essential)),
			Optional:  ratio(len(matchedOptional), len(optional)),
		}
		score := e.cfg.EssentialWeight*coverage.Essential + e.cfg.OptionalWeight*coverage.Optional
		if score < e.cfg.CoverageFloor {
			continue
		}

		occ, _ := e.graph.Occupation(occURI)
		matches = append(matches, models.JobMatch{
			URI:              occURI,
			Name:             occupationName(occ, occURI),
			ISCOGroup:        occupationGroup(occ),
			MatchScore:       score,
			MatchedSkills:    e.skillNames(append(matchedEssential, matchedOptional...)),
			MissingEssential: e.skillNames(subtract(essential, userSkills)),
			MissingOptional:  e.skillNames(subtract(optional, userSkills)),
			Coverage:         coverage,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	return matches
}

// CareerOpportunities finds occupations within reach: at least one
// essential skill already covered, not already a strong match, and a
// manageable essential gap (at most GapThreshold, boundary inclusive).
// SkillsToGain is disjoint from the user's skills by construction.
// Results are sorted by gap size ascending, then coverage descending.
func (e *Engine) CareerOpportunities(userSkills map[string]struct{}) []models.CareerOpportunity {
	var opportunities []models.CareerOpportunity

	for _, occURI := range e.graph.OccupationOrder() {
		essential, optional := e.graph.RequiredSkills(occURI)

		matchedEssential := intersect(essential, userSkills)
		missing := subtract(essential, userSkills)
		if len(matchedEssential) == 0 || len(missing) == 0 || len(missing) > e.cfg.GapThreshold {
			continue
		}

		coverage := models.Coverage{
			Essential: ratio(len(matchedEssential), len(essential)),
			Optional:  ratio(len(intersect(optional, userSkills)), len(optional)),
		}
		score := e.cfg.EssentialWeight*coverage.Essential + e.cfg.OptionalWeight*coverage.Optional
		if score >= e.cfg.StrongMatchScore {
			continue
		}

		effort, estimate := e.effortBucket(len(missing))
		occ, _ := e.graph.Occupation(occURI)

		opportunities = append(opportunities, models.CareerOpportunity{
			Job: models.JobMatch{
				URI:              occURI,
				Name:             occupationName(occ, occURI),
				ISCOGroup:        occupationGroup(occ),
				MatchScore:       coverage.Essential,
				MatchedSkills:    e.skillNames(matchedEssential),
				MissingEssential: e.skillNames(missing),
				Coverage:         models.Coverage{Essential: coverage.Essential},
			},
			SkillsToGain:  e.skillNames(missing),
			EffortLevel:   effort,
			EstimatedTime: estimate,
			CategoryFocus: e.categoryFocus(missing),
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		if len(opportunities[i].SkillsToGain) != len(opportunities[j].SkillsToGain) {
			return len(opportunities[i].SkillsToGain) < len(opportunities[j].SkillsToGain)
		}
		return opportunities[i].Job.MatchScore > opportunities[j].Job.MatchScore
	})
	return opportunities
}

// SkillGaps ranks missing skills by how often they appear across the
// top opportunities, surfacing the highest-leverage skills to acquire.
func (e *Engine) SkillGaps(userSkills map[string]struct{}, opportunities []models.CareerOpportunity) models.SkillGapAnalysis {
	current := make(map[string]int)
	for uri := range userSkills {
		for _, category := range e.graph.CategoriesOf(uri) {
			current[category]++
		}
	}

	top := opportunities
	if e.cfg.TopOpportunities > 0 && len(top) > e.cfg.TopOpportunities {
		top = top[:e.cfg.TopOpportunities]
	}

	skillDemand := make(map[string]int)
	categoryDemand := make(map[string]int)
	for _, opp := range top {
		for _, skill := range opp.SkillsToGain {
			skillDemand[skill]++
		}
		for _, category := range opp.CategoryFocus {
			categoryDemand[category]++
		}
	}

	return models.SkillGapAnalysis{
		CurrentCategories:       current,
		MostDemandedSkills:      rankSkillDemand(skillDemand, 10),
		MostDemandedCategories:  rankCategoryDemand(categoryDemand),
		CategoryRecommendations: categoryRecommendations(current, categoryDemand),
	}
}

func (e *Engine) effortBucket(gap int) (models.EffortLevel, string) {
	switch {
	case gap <= e.cfg.LowEffortMax:
		return models.EffortLow, "3-6 months"
	case gap <= e.cfg.MediumEffortMax:
		return models.EffortMedium, "6-12 months"
	default:
		return models.EffortHigh, "1-2 years"
	}
}

// categoryFocus collects the categories tagging the missing skills,
// deduplicated in order of first appearance.
func (e *Engine) categoryFocus(missing []string) []string {
	var focus []string
	seen := make(map[string]struct{})
	for _, uri := range missing {
		for _, category := range e.graph.CategoriesOf(uri) {
			if _, ok := seen[category]; ok {
				continue
			}
			seen[category] = struct{}{}
			focus = append(focus, category)
		}
	}
	return focus
}

func (e *Engine) skillNames(uris []string) []string {
	if len(uris) == 0 {
		return nil
	}
	names := make([]string, 0, len(uris))
	for _, uri := range uris {
		names = append(names, e.graph.SkillName(uri))
	}
	return names
}

func rankSkillDemand(demand map[string]int, limit int) []models.SkillDemand {
	ranked := make([]models.SkillDemand, 0, len(demand))
	for skill, count := range demand {
		ranked = append(ranked, models.SkillDemand{Skill: skill, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Skill < ranked[j].Skill
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func rankCategoryDemand(demand map[string]int) []models.CategoryDemand {
	ranked := make([]models.CategoryDemand, 0, len(demand))
	for category, count := range demand {
		ranked = append(ranked, models.CategoryDemand{Category: category, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

func categoryRecommendations(current, demand map[string]int) []string {
	var categories []string
	for category, count := range demand {
		if count > 2 && current[category] < 3 {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	recommendations := make([]string, 0, len(categories))
	for _, category := range categories {
		recommendations = append(recommendations,
			fmt.Sprintf("Focus on %s skills - high demand across %d target roles", category, demand[category]))
	}
	return recommendations
}

func intersect(uris []string, set map[string]struct{}) []string {
	var out []string
	for _, uri := range uris {
		if _, ok := set[uri]; ok {
			out = append(out, uri)
		}
	}
	return out
}

func subtract(uris []string, set map[string]struct{}) []string {
	var out []string
	for _, uri := range uris {
		if _, ok := set[uri]; !ok {
			out = append(out, uri)
		}
	}
	return out
}

func ratio(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

func occupationName(occ *models.Occupation, uri string) string {
	if occ != nil {
		return occ.Name
	}
	return uri
}

func occupationGroup(occ *models.Occupation) string {
	if occ != nil {
		return occ.ISCOGroup
	}
	return ""
}
