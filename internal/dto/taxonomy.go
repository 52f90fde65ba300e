package dto

// SkillResponse is the taxonomy detail view of one skill, including the
// occupations that require it.
type SkillResponse struct {
	URI         string          `json:"uri"`
	Name        string          `json:"name"`
	AltLabels   []string        `json:"alt_labels,omitempty"`
	SkillType   string          `json:"skill_type,omitempty"`
	ReuseLevel  string          `json:"reuse_level,omitempty"`
	Description string          `json:"description,omitempty"`
	Categories  []string        `json:"categories,omitempty"`
	UsedBy      []SkillUsageRef `json:"used_by"`
}

// SkillUsageRef names an occupation requiring a skill.
type SkillUsageRef struct {
	OccupationURI  string `json:"occupation_uri"`
	OccupationName string `json:"occupation_name"`
	Essentiality   string `json:"essentiality"`
}

// OccupationResponse is the taxonomy detail view of one occupation with
// its skill requirements resolved to names.
type OccupationResponse struct {
	URI             string   `json:"uri"`
	Name            string   `json:"name"`
	AltLabels       []string `json:"alt_labels,omitempty"`
	ISCOGroup       string   `json:"isco_group,omitempty"`
	Description     string   `json:"description,omitempty"`
	EssentialSkills []string `json:"essential_skills"`
	OptionalSkills  []string `json:"optional_skills"`
}
