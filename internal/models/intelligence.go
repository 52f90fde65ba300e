package models

type EffortLevel string

const (
	EffortLow    EffortLevel = "low"
	EffortMedium EffortLevel = "medium"
	EffortHigh   EffortLevel = "high"
)

// Coverage is the fraction of an occupation's required skills present in
// the user's matched skill set, broken down by essentiality.
type Coverage struct {
	Essential float64 `json:"essential"`
	Optional  float64 `json:"optional"`
}

// JobMatch is an occupation scored against the user's skill set.
type JobMatch struct {
	URI              string   `json:"uri"`
	Name             string   `json:"name"`
	ISCOGroup        string   `json:"isco_group,omitempty"`
	MatchScore       float64  `json:"match_score"`
	MatchedSkills    []string `json:"matched_skills"`
	MissingEssential []string `json:"missing_essential"`
	MissingOptional  []string `json:"missing_optional,omitempty"`
	Coverage         Coverage `json:"coverage"`
}

// CareerOpportunity is an occupation within reach once the listed skills
// are gained. SkillsToGain is always disjoint from the user's skill set.
type CareerOpportunity struct {
	Job           JobMatch    `json:"job"`
	SkillsToGain  []string    `json:"skills_to_gain"`
	EffortLevel   EffortLevel `json:"effort_level"`
	EstimatedTime string      `json:"estimated_time"`
	CategoryFocus []string    `json:"category_focus"`
}

// SkillDemand is a missing skill ranked by how many of the top
// opportunities require it.
type SkillDemand struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// CategoryDemand mirrors SkillDemand for skill categories.
type CategoryDemand struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// SkillGapAnalysis surfaces the highest-leverage skills to acquire
// across the top career opportunities.
type SkillGapAnalysis struct {
	CurrentCategories       map[string]int   `json:"current_skill_categories"`
	MostDemandedSkills      []SkillDemand    `json:"most_demanded_skills"`
	MostDemandedCategories  []CategoryDemand `json:"most_demanded_categories"`
	CategoryRecommendations []string         `json:"category_recommendations"`
}
