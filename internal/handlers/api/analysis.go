package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"awardmatch/internal/analyzer"
	"awardmatch/internal/content"
	"awardmatch/internal/validation"
)

// AnalysisHandler runs content through the analyzer.
type AnalysisHandler struct {
	analyzer *analyzer.Analyzer
	source   content.Source
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(a *analyzer.Analyzer, source content.Source) *AnalysisHandler {
	return &AnalysisHandler{analyzer: a, source: source}
}

// Content analyzes a single document or event.
func (h *AnalysisHandler) Content(c fiber.Ctx) error {
	var body struct {
		ContentType string          `json:"content_type"`
		ContentID   json.RawMessage `json:"content_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return badRequest(c, "invalid request body")
	}

	if valid, msg := validation.ValidateContentType(body.ContentType); !valid {
		return badRequest(c, msg)
	}
	id, valid, msg := validation.ParseContentID(body.ContentID)
	if !valid {
		return badRequest(c, msg)
	}

	item, err := h.source.Get(c.Context(), body.ContentType, id)
	if err != nil {
		return jsonAppError(c, err)
	}

	report, err := h.analyzer.AnalyzeSingle(c.Context(), item)
	if err != nil {
		return jsonAppError(c, err)
	}
	return jsonSuccess(c, report)
}

// All analyzes every item the content stores hold.
func (h *AnalysisHandler) All(c fiber.Ctx) error {
	items, err := h.source.List(c.Context())
	if err != nil {
		return jsonAppError(c, err)
	}

	report, err := h.analyzer.AnalyzeAll(c.Context(), items)
	if err != nil {
		return jsonAppError(c, err)
	}
	return jsonSuccess(c, report)
}
