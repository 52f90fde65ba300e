package taxonomy

import (
	"strings"

	"skillscope/internal/embedding"
	"skillscope/internal/models"
)

// SkillUsage records one occupation that requires a skill, with the
// essentiality of the edge.
type SkillUsage struct {
	OccupationURI string
	Essentiality  models.Essentiality
}

// Graph is the immutable in-memory model of the taxonomy: entity lookup
// plus the occupation↔skill relationship edges. It is built once from a
// Dataset and read-only afterwards, so request handlers share it without
// locking.
type Graph struct {
	skills          map[string]*models.Skill
	occupations     map[string]*models.Occupation
	skillOrder      []string
	occupationOrder []string

	essential map[string][]string
	optional  map[string][]string
	usedBy    map[string][]SkillUsage
}

func NewGraph(ds *Dataset) *Graph {
	g := &Graph{
		skills:      make(map[string]*models.Skill, len(ds.Skills)),
		occupations: make(map[string]*models.Occupation, len(ds.Occupations)),
		essential:   make(map[string][]string),
		optional:    make(map[string][]string),
		usedBy:      make(map[string][]SkillUsage),
	}

	for i := range ds.Skills {
		s := &ds.Skills[i]
		g.skills[s.URI] = s
		g.skillOrder = append(g.skillOrder, s.URI)
	}
	for i := range ds.Occupations {
		o := &ds.Occupations[i]
		g.occupations[o.URI] = o
		g.occupationOrder = append(g.occupationOrder, o.URI)
	}

	for _, rel := range ds.Relations {
		if rel.Essentiality == models.EssentialityEssential {
			g.essential[rel.OccupationURI] = append(g.essential[rel.OccupationURI], rel.SkillURI)
		} else {
			g.optional[rel.OccupationURI] = append(g.optional[rel.OccupationURI], rel.SkillURI)
		}
		g.usedBy[rel.SkillURI] = append(g.usedBy[rel.SkillURI], SkillUsage{
			OccupationURI: rel.OccupationURI,
			Essentiality:  rel.Essentiality,
		})
	}

	return g
}

// Skill returns the skill entry for a URI.
func (g *Graph) Skill(uri string) (*models.Skill, bool) {
	s, ok := g.skills[uri]
	return s, ok
}

// Occupation returns the occupation entry for a URI.
func (g *Graph) Occupation(uri string) (*models.Occupation, bool) {
	o, ok := g.occupations[uri]
	return o, ok
}

// SkillName resolves a skill URI to its canonical name, falling back to
// the URI itself for unknown entries.
func (g *Graph) SkillName(uri string) string {
	if s, ok := g.skills[uri]; ok {
		return s.Name
	}
	return uri
}

// OccupationOrder lists occupation URIs in taxonomy insertion order.
func (g *Graph) OccupationOrder() []string {
	return g.occupationOrder
}

// RequiredSkills returns the essential and optional skill URIs of an
// occupation. Both slices are nil for unknown occupations.
func (g *Graph) RequiredSkills(occupationURI string) (essential, optional []string) {
	return g.essential[occupationURI], g.optional[occupationURI]
}

// OccupationsUsing lists the occupations requiring a skill with the
// essentiality breakdown of each edge.
func (g *Graph) OccupationsUsing(skillURI string) []SkillUsage {
	return g.usedBy[skillURI]
}

// CategoriesOf returns the category tags of a skill.
func (g *Graph) CategoriesOf(skillURI string) []string {
	if s, ok := g.skills[skillURI]; ok {
		return s.Categories
	}
	return nil
}

// SkillNames returns the URI → canonical name map used when shaping
// match results.
func (g *Graph) SkillNames() map[string]string {
	names := make(map[string]string, len(g.skills))
	for uri, s := range g.skills {
		names[uri] = s.Name
	}
	return names
}

// OccupationNames mirrors SkillNames for occupations.
func (g *Graph) OccupationNames() map[string]string {
	names := make(map[string]string, len(g.occupations))
	for uri, o := range g.occupations {
		names[uri] = o.Name
	}
	return names
}

// SkillEntities shapes the skill catalog for the embedding store. The
// embedded text is the description, falling back to the canonical name
// plus alternative labels for entries without one.
func (g *Graph) SkillEntities() []embedding.Entity {
	entities := make([]embedding.Entity, 0, len(g.skillOrder))
	for _, uri := range g.skillOrder {
		s := g.skills[uri]
		entities = append(entities, embedding.Entity{URI: uri, Text: entityText(s.Description, s.Name, s.AltLabels)})
	}
	return entities
}

// OccupationEntities mirrors SkillEntities for occupations.
func (g *Graph) OccupationEntities() []embedding.Entity {
	entities := make([]embedding.Entity, 0, len(g.occupationOrder))
	for _, uri := range g.occupationOrder {
		o := g.occupations[uri]
		entities = append(entities, embedding.Entity{URI: uri, Text: entityText(o.Description, o.Name, o.AltLabels)})
	}
	return entities
}

func entityText(description, name string, altLabels []string) string {
	if strings.TrimSpace(description) != "" {
		return description
	}
	if len(altLabels) == 0 {
		return name
	}
	return name + ". " + strings.Join(altLabels, ", ")
}
