package api

import (
	"github.com/gofiber/fiber/v3"

	"awardmatch/internal/catalog"
	"awardmatch/internal/models"
	"awardmatch/internal/readiness"
	"awardmatch/internal/validation"
)

// ReadinessHandler serves the catalog and readiness views.
type ReadinessHandler struct {
	catalog    *catalog.Catalog
	aggregator *readiness.Aggregator
}

// NewReadinessHandler creates a new readiness handler.
func NewReadinessHandler(c *catalog.Catalog, agg *readiness.Aggregator) *ReadinessHandler {
	return &ReadinessHandler{catalog: c, aggregator: agg}
}

// Summary returns every award's readiness, overall readiness, the best
// match and recommendations.
func (h *ReadinessHandler) Summary(c fiber.Ctx) error {
	summary, err := h.aggregator.Summary(c.Context())
	if err != nil {
		return jsonAppError(c, err)
	}
	return jsonSuccess(c, summary)
}

// Awards lists the catalog in declaration order.
func (h *ReadinessHandler) Awards(c fiber.Ctx) error {
	awards := h.catalog.Awards()
	out := make([]models.AwardResponse, 0, len(awards))
	for _, a := range awards {
		criteria := make([]string, 0, len(a.Criteria))
		for _, cr := range a.Criteria {
			criteria = append(criteria, cr.Text)
		}
		out = append(out, models.AwardResponse{
			Key:           a.Key,
			Name:          a.Name,
			Criteria:      criteria,
			TotalCriteria: len(criteria),
		})
	}
	return jsonSuccess(c, out)
}

// Checklist returns the per-criterion state of one award.
func (h *ReadinessHandler) Checklist(c fiber.Ctx) error {
	key := validation.NormalizeAwardKey(c.Params("key"))
	if valid, msg := validation.ValidateAwardKey(key); !valid {
		return badRequest(c, msg)
	}

	list, err := h.aggregator.Checklist(c.Context(), key)
	if err != nil {
		return jsonAppError(c, err)
	}
	return jsonSuccess(c, list)
}
