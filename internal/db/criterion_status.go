package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"awardmatch/internal/apperr"
	"awardmatch/internal/models"
)

// maxWriteAttempts bounds read-modify-write retries of one row.
const maxWriteAttempts = 2

// criterionColumns is the standard column list for criterion_status queries.
const criterionColumns = `award_key, criterion_text, satisfied, source, confidence,
	supporting_content, version, updated_at`

// scanCriterion scans a row into a CriterionSatisfaction.
func scanCriterion(row pgx.Row) (models.CriterionSatisfaction, error) {
	var (
		c       models.CriterionSatisfaction
		support []byte
	)
	err := row.Scan(
		&c.AwardKey,
		&c.CriterionText,
		&c.Satisfied,
		&c.Source,
		&c.Confidence,
		&support,
		&c.Version,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, ErrCriterionNotFound
	}
	if err != nil {
		return c, err
	}

	c.SupportingContent = []models.ContentRef{}
	if len(support) > 0 {
		if err := json.Unmarshal(support, &c.SupportingContent); err != nil {
			return c, eris.Wrapf(err, "db: decode supporting content of %q", c.CriterionText)
		}
	}
	return c, nil
}

// EnsureCriteria inserts a fresh row for every key that has none.
func (d *DB) EnsureCriteria(ctx context.Context, keys []models.CriterionKey) error {
	query := `
		INSERT INTO criterion_status (award_key, criterion_text, satisfied, source, confidence, supporting_content, version, updated_at)
		VALUES ($1, $2, FALSE, 'auto', 0, '[]'::jsonb, 1, $3)
		ON CONFLICT (award_key, criterion_text) DO NOTHING
	`

	now := d.now()
	for _, k := range keys {
		if _, err := d.Pool.Exec(ctx, query, k.AwardKey, k.CriterionText, now); err != nil {
			return apperr.Wrap(apperr.KindPersistence,
				eris.Wrapf(err, "db: insert criterion %s/%s", k.AwardKey, k.CriterionText),
				"could not install criteria")
		}
	}
	return nil
}

// GetAll returns every criterion row.
func (d *DB) GetAll(ctx context.Context) ([]models.CriterionSatisfaction, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+criterionColumns+` FROM criterion_status ORDER BY award_key, criterion_text`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, eris.Wrap(err, "db: list criteria"), "could not read criteria")
	}
	defer rows.Close()

	var out []models.CriterionSatisfaction
	for rows.Next() {
		c, err := scanCriterion(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, err, "could not read criteria")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, eris.Wrap(err, "db: iterate criteria"), "could not read criteria")
	}
	return out, nil
}

// Get returns one criterion row.
func (d *DB) Get(ctx context.Context, awardKey, criterionText string) (models.CriterionSatisfaction, error) {
	c, err := d.get(ctx, awardKey, criterionText)
	if err != nil {
		return c, d.readError(err, awardKey, criterionText)
	}
	return c, nil
}

// SetManual records a human decision on a criterion.
func (d *DB) SetManual(ctx context.Context, awardKey, criterionText string, satisfied bool) (models.CriterionSatisfaction, error) {
	_, after, _, err := d.modify(ctx, awardKey, criterionText, func(c *models.CriterionSatisfaction) bool {
		c.ApplyManual(satisfied, d.now())
		return true
	})
	return after, err
}

// ApplyAutoMatch merges an automatic match into its criterion row.
// Rows the match does not change are not written.
func (d *DB) ApplyAutoMatch(ctx context.Context, m models.AutoMatch) (models.AutoMatchResult, error) {
	before, after, changed, err := d.modify(ctx, m.AwardKey, m.CriterionText, func(c *models.CriterionSatisfaction) bool {
		return c.ApplyAutoMatch(m, d.now())
	})
	if err != nil {
		return models.AutoMatchResult{}, err
	}
	return models.AutoMatchResult{
		Row:            after,
		Changed:        changed,
		NewlySatisfied: !before.Satisfied && after.Satisfied,
	}, nil
}

func (d *DB) get(ctx context.Context, awardKey, criterionText string) (models.CriterionSatisfaction, error) {
	row := d.Pool.QueryRow(ctx, `
		SELECT `+criterionColumns+`
		FROM criterion_status
		WHERE award_key = $1 AND criterion_text = $2
	`, awardKey, criterionText)
	return scanCriterion(row)
}

func (d *DB) readError(err error, awardKey, criterionText string) error {
	if errors.Is(err, ErrCriterionNotFound) {
		return apperr.Wrap(apperr.KindNotFound, err, "criterion %q of award %q not found", criterionText, awardKey)
	}
	return apperr.Wrap(apperr.KindPersistence, eris.Wrap(err, "db: read criterion"), "could not read criterion %q", criterionText)
}

// modify reads a row, applies fn and writes the result back guarded by the
// row version. A lost race or a failed statement is retried once; the
// second failure is returned as a conflict or persistence error.
func (d *DB) modify(ctx context.Context, awardKey, criterionText string, fn func(*models.CriterionSatisfaction) bool) (before, after models.CriterionSatisfaction, changed bool, err error) {
	query := `
		UPDATE criterion_status
		SET satisfied = $1, source = $2, confidence = $3, supporting_content = $4,
			version = version + 1, updated_at = $5
		WHERE award_key = $6 AND criterion_text = $7 AND version = $8
	`

	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		cur, err := d.get(ctx, awardKey, criterionText)
		if err != nil {
			lastErr = d.readError(err, awardKey, criterionText)
			if apperr.IsKind(lastErr, apperr.KindNotFound) {
				return cur, cur, false, lastErr
			}
			continue
		}

		next := cur.Clone()
		if !fn(&next) {
			return cur, cur, false, nil
		}

		support, err := json.Marshal(next.SupportingContent)
		if err != nil {
			return cur, cur, false, apperr.Wrap(apperr.KindInternal, eris.Wrap(err, "db: encode supporting content"), "could not encode supporting content")
		}

		tag, err := d.Pool.Exec(ctx, query,
			next.Satisfied, next.Source, next.Confidence, string(support), next.UpdatedAt,
			awardKey, criterionText, cur.Version)
		if err != nil {
			lastErr = apperr.Wrap(apperr.KindPersistence,
				eris.Wrapf(err, "db: update criterion %s/%s", awardKey, criterionText),
				"could not update criterion %q", criterionText)
			d.logger.Warn("criterion update failed",
				zap.String("award_key", awardKey), zap.String("criterion", criterionText),
				zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		if tag.RowsAffected() == 0 {
			lastErr = apperr.Wrap(apperr.KindConflict, ErrVersionConflict,
				"criterion %q of award %q was modified concurrently", criterionText, awardKey)
			d.logger.Debug("criterion version conflict",
				zap.String("award_key", awardKey), zap.String("criterion", criterionText),
				zap.Int64("version", cur.Version), zap.Int("attempt", attempt))
			continue
		}

		next.Version = cur.Version + 1
		return cur, next, true, nil
	}
	return models.CriterionSatisfaction{}, models.CriterionSatisfaction{}, false, lastErr
}
