package handlers

import (
	"skillscope/internal/dto"
	"skillscope/internal/embedding"
	"skillscope/internal/taxonomy"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	graph          *taxonomy.Graph
	datasetVersion string
	modelID        string
}

func NewHealthHandler(graph *taxonomy.Graph, datasetVersion, modelID string) *HealthHandler {
	return &HealthHandler{
		graph:          graph,
		datasetVersion: datasetVersion,
		modelID:        modelID,
	}
}

// Health godoc
// @Summary Service health and loaded dataset summary
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:         "ok",
		DatasetVersion: h.datasetVersion,
		Skills:         len(h.graph.SkillNames()),
		Occupations:    len(h.graph.OccupationNames()),
		EmbeddingModel: h.modelID,
		Fingerprint:    embedding.Fingerprint(h.modelID),
	})
}

// Info godoc
// @Summary Service description and endpoint index
// @Tags system
// @Produce json
// @Success 200 {object} dto.InfoResponse
// @Router / [get]
func (h *HealthHandler) Info(c *fiber.Ctx) error {
	return c.JSON(dto.InfoResponse{
		Service: "skillscope",
		Version: h.datasetVersion,
		Endpoints: map[string]string{
			"extract":     "POST /api/v1/extract",
			"analyze":     "POST /api/v1/analyze",
			"analyze_pdf": "POST /api/v1/analyze/pdf",
			"reports":     "GET /api/v1/reports/:id",
			"skills":      "GET /api/v1/skills/:uri",
			"occupations": "GET /api/v1/occupations/:uri",
			"health":      "GET /health",
		},
	})
}
