package handlers

import (
	"net/url"

	"skillscope/internal/dto"
	"skillscope/internal/taxonomy"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TaxonomyHandler struct {
	graph  *taxonomy.Graph
	logger *zap.Logger
}

func NewTaxonomyHandler(graph *taxonomy.Graph, logger *zap.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		graph:  graph,
		logger: logger,
	}
}

// GetSkill godoc
// @Summary Look up a skill by its taxonomy URI
// @Description The URI must be URL-encoded, e.g. http%3A%2F%2Fdata.europa.eu%2Fesco%2Fskill%2F...
// @Tags taxonomy
// @Produce json
// @Param uri path string true "URL-encoded skill URI"
// @Success 200 {object} dto.SkillResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/skills/{uri} [get]
func (h *TaxonomyHandler) GetSkill(c *fiber.Ctx) error {
	uri, err := decodeURI(c.Params("uri"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid skill URI",
		})
	}

	skill, ok := h.graph.Skill(uri)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Skill not found",
		})
	}

	resp := dto.SkillResponse{
		URI:         skill.URI,
		Name:        skill.Name,
		AltLabels:   skill.AltLabels,
		SkillType:   skill.SkillType,
		ReuseLevel:  skill.ReuseLevel,
		Description: skill.Description,
		Categories:  skill.Categories,
		UsedBy:      []dto.SkillUsageRef{},
	}
	for _, usage := range h.graph.OccupationsUsing(skill.URI) {
		occ, ok := h.graph.Occupation(usage.OccupationURI)
		if !ok {
			continue
		}
		resp.UsedBy = append(resp.UsedBy, dto.SkillUsageRef{
			OccupationURI:  usage.OccupationURI,
			OccupationName: occ.Name,
			Essentiality:   string(usage.Essentiality),
		})
	}

	return c.JSON(resp)
}

// GetOccupation godoc
// @Summary Look up an occupation by its taxonomy URI
// @Tags taxonomy
// @Produce json
// @Param uri path string true "URL-encoded occupation URI"
// @Success 200 {object} dto.OccupationResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/occupations/{uri} [get]
func (h *TaxonomyHandler) GetOccupation(c *fiber.Ctx) error {
	uri, err := decodeURI(c.Params("uri"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid occupation URI",
		})
	}

	occ, ok := h.graph.Occupation(uri)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Occupation not found",
		})
	}

	essential, optional := h.graph.RequiredSkills(occ.URI)
	resp := dto.OccupationResponse{
		URI:             occ.URI,
		Name:            occ.Name,
		AltLabels:       occ.AltLabels,
		ISCOGroup:       occ.ISCOGroup,
		Description:     occ.Description,
		EssentialSkills: skillNameList(h.graph, essential),
		OptionalSkills:  skillNameList(h.graph, optional),
	}

	return c.JSON(resp)
}

func skillNameList(graph *taxonomy.Graph, uris []string) []string {
	names := make([]string, 0, len(uris))
	for _, uri := range uris {
		names = append(names, graph.SkillName(uri))
	}
	return names
}

// decodeURI unescapes a path parameter carrying a full taxonomy URI.
func decodeURI(raw string) (string, error) {
	return url.QueryUnescape(raw)
}
