package models

type Essentiality string

const (
	EssentialityEssential Essentiality = "essential"
	EssentialityOptional  Essentiality = "optional"
)

// Skill is a single taxonomy skill entry. The URI is the stable,
// globally unique identifier; everything else is descriptive.
type Skill struct {
	URI         string
	Name        string
	AltLabels   []string
	SkillType   string
	ReuseLevel  string
	Description string
	Categories  []string
}

// Occupation is a single taxonomy occupation entry.
type Occupation struct {
	URI         string
	Name        string
	AltLabels   []string
	ISCOGroup   string
	Description string
}

// Relation is one occupation↔skill edge. Relations are loaded once at
// startup and never change afterwards.
type Relation struct {
	OccupationURI string
	SkillURI      string
	Essentiality  Essentiality
}
