// Package store persists the satisfaction state of every catalog criterion.
package store

import (
	"context"

	"awardmatch/internal/models"
)

// Store holds exactly one CriterionSatisfaction row per catalog criterion.
// Every write is atomic per (award key, criterion text) row and follows the
// merge policy of models.CriterionSatisfaction.
type Store interface {
	// EnsureCriteria creates missing rows as unsatisfied auto rows.
	// Existing rows are left untouched.
	EnsureCriteria(ctx context.Context, keys []models.CriterionKey) error

	// GetAll returns a snapshot of every row.
	GetAll(ctx context.Context) ([]models.CriterionSatisfaction, error)

	// Get returns one row, or a not_found error.
	Get(ctx context.Context, awardKey, criterionText string) (models.CriterionSatisfaction, error)

	// SetManual records a human decision, or returns a not_found error.
	SetManual(ctx context.Context, awardKey, criterionText string, satisfied bool) (models.CriterionSatisfaction, error)

	// ApplyAutoMatch merges an automatic match into its row.
	ApplyAutoMatch(ctx context.Context, m models.AutoMatch) (models.AutoMatchResult, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
