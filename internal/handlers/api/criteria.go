package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"awardmatch/internal/catalog"
	"awardmatch/internal/models"
	"awardmatch/internal/store"
	"awardmatch/internal/validation"
)

// CriteriaHandler exposes the criterion state store.
type CriteriaHandler struct {
	catalog *catalog.Catalog
	store   store.Store
}

// NewCriteriaHandler creates a new criteria handler.
func NewCriteriaHandler(c *catalog.Catalog, s store.Store) *CriteriaHandler {
	return &CriteriaHandler{catalog: c, store: s}
}

// List returns every criterion row, optionally filtered by ?award=.
func (h *CriteriaHandler) List(c fiber.Ctx) error {
	rows, err := h.store.GetAll(c.Context())
	if err != nil {
		return jsonAppError(c, err)
	}

	award := validation.NormalizeAwardKey(c.Query("award", ""))
	if award == "" {
		return jsonSuccess(c, rows)
	}
	if _, ok := h.catalog.Award(award); !ok {
		return badRequest(c, "unknown award_type")
	}

	out := make([]models.CriterionSatisfaction, 0, len(rows))
	for _, r := range rows {
		if r.AwardKey == award {
			out = append(out, r)
		}
	}
	return jsonSuccess(c, out)
}

// UpdateStatus records a manual decision on one criterion.
func (h *CriteriaHandler) UpdateStatus(c fiber.Ctx) error {
	var body struct {
		AwardType string `json:"award_type"`
		Criterion string `json:"criterion"`
		Satisfied *bool  `json:"satisfied"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return badRequest(c, "invalid request body")
	}

	body.AwardType = validation.NormalizeAwardKey(body.AwardType)
	body.Criterion = validation.NormalizeCriterion(body.Criterion)

	if valid, msg := validation.ValidateAwardKey(body.AwardType); !valid {
		return badRequest(c, msg)
	}
	if valid, msg := validation.ValidateCriterion(body.Criterion); !valid {
		return badRequest(c, msg)
	}
	if body.Satisfied == nil {
		return badRequest(c, "satisfied is required")
	}

	if _, ok := h.catalog.Award(body.AwardType); !ok {
		return badRequest(c, "unknown award_type")
	}
	if _, ok := h.catalog.Criterion(body.AwardType, body.Criterion); !ok {
		return badRequest(c, "unknown criterion for this award")
	}

	row, err := h.store.SetManual(c.Context(), body.AwardType, body.Criterion, *body.Satisfied)
	if err != nil {
		return jsonAppError(c, err)
	}

	zap.L().Info("criterion updated manually",
		zap.String("award_key", row.AwardKey),
		zap.String("criterion", row.CriterionText),
		zap.Bool("satisfied", row.Satisfied),
	)
	return jsonSuccess(c, row)
}
