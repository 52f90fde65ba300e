package handlers

import (
	"errors"

	"skillscope/internal/dto"
	"skillscope/internal/models"
	"skillscope/internal/repository"
	"skillscope/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AnalysisHandler struct {
	extraction *service.ExtractionService
	reports    *repository.ReportRepository
	logger     *zap.Logger
}

// NewAnalysisHandler wires the extraction pipeline to HTTP. The report
// repository may be nil when persistence is disabled.
func NewAnalysisHandler(extraction *service.ExtractionService, reports *repository.ReportRepository, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		extraction: extraction,
		reports:    reports,
		logger:     logger,
	}
}

// Extract godoc
// @Summary Extract skills and occupations from text
// @Description Match raw text against the skill and occupation taxonomies
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body dto.ExtractRequest true "Text to analyze"
// @Success 200 {object} models.ExtractionResult
// @Failure 400 {object} map[string]string
// @Router /api/v1/extract [post]
func (h *AnalysisHandler) Extract(c *fiber.Ctx) error {
	var req dto.ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.extraction.Extract(c.Context(), req.Text, &service.MatchOptions{
		SkillsThreshold:      req.SkillsThreshold,
		OccupationsThreshold: req.OccupationsThreshold,
		MaxResults:           req.MaxResults,
	})
	if err != nil {
		h.logger.Error("Extraction failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Extraction failed",
		})
	}

	return c.JSON(result)
}

// Analyze godoc
// @Summary Run a full CV analysis
// @Description Extract skills, score job matches, find career opportunities and skill gaps
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequest true "CV text"
// @Success 200 {object} models.AnalysisReport
// @Failure 400 {object} map[string]string
// @Router /api/v1/analyze [post]
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	report, err := h.extraction.Analyze(c.Context(), req.Text)
	if err != nil {
		h.logger.Error("Analysis failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Analysis failed",
		})
	}

	h.storeReport(c, report)
	return c.JSON(report)
}

// AnalyzePDF godoc
// @Summary Run a full CV analysis on an uploaded PDF
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CV in PDF format"
// @Success 200 {object} models.AnalysisReport
// @Failure 400 {object} map[string]string
// @Router /api/v1/analyze/pdf [post]
func (h *AnalysisHandler) AnalyzePDF(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	report, err := h.extraction.AnalyzePDF(c.Context(), src)
	if err != nil {
		h.logger.Error("PDF analysis failed", zap.String("file", file.Filename), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Failed to analyze PDF",
		})
	}

	h.storeReport(c, report)
	return c.JSON(report)
}

// GetReport godoc
// @Summary Fetch a stored analysis report
// @Tags analysis
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} models.AnalysisReport
// @Failure 404 {object} map[string]string
// @Router /api/v1/reports/{id} [get]
func (h *AnalysisHandler) GetReport(c *fiber.Ctx) error {
	if h.reports == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Report storage is disabled",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report ID",
		})
	}

	report, err := h.reports.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Report not found",
			})
		}
		h.logger.Error("Failed to load report", zap.String("report_id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load report",
		})
	}

	return c.JSON(report)
}

// storeReport persists the report when storage is enabled. A storage
// failure is logged but never fails the request.
func (h *AnalysisHandler) storeReport(c *fiber.Ctx, report *models.AnalysisReport) {
	if h.reports == nil {
		return
	}
	if err := h.reports.Create(c.Context(), report); err != nil {
		h.logger.Error("Failed to store report",
			zap.String("report_id", report.ID.String()),
			zap.Error(err),
		)
	}
}
