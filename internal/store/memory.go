package store

import (
	"context"
	"sync"
	"time"

	"awardmatch/internal/apperr"
	"awardmatch/internal/models"
)

// Memory is a Store kept in process memory. One mutex serializes all access.
type Memory struct {
	mu    sync.Mutex
	rows  map[models.CriterionKey]*models.CriterionSatisfaction
	order []models.CriterionKey
	now   func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		rows: make(map[models.CriterionKey]*models.CriterionSatisfaction),
		now:  time.Now,
	}
}

// WithClock replaces the time source. Used in tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) EnsureCriteria(_ context.Context, keys []models.CriterionKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for _, k := range keys {
		if _, ok := m.rows[k]; ok {
			continue
		}
		row := models.NewCriterionSatisfaction(k.AwardKey, k.CriterionText, now)
		row.Version = 1
		m.rows[k] = &row
		m.order = append(m.order, k)
	}
	return nil
}

func (m *Memory) GetAll(_ context.Context) ([]models.CriterionSatisfaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.CriterionSatisfaction, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.rows[k].Clone())
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, awardKey, criterionText string) (models.CriterionSatisfaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, err := m.lookup(awardKey, criterionText)
	if err != nil {
		return models.CriterionSatisfaction{}, err
	}
	return row.Clone(), nil
}

func (m *Memory) SetManual(_ context.Context, awardKey, criterionText string, satisfied bool) (models.CriterionSatisfaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, err := m.lookup(awardKey, criterionText)
	if err != nil {
		return models.CriterionSatisfaction{}, err
	}
	row.ApplyManual(satisfied, m.now())
	row.Version++
	return row.Clone(), nil
}

func (m *Memory) ApplyAutoMatch(_ context.Context, match models.AutoMatch) (models.AutoMatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, err := m.lookup(match.AwardKey, match.CriterionText)
	if err != nil {
		return models.AutoMatchResult{}, err
	}

	wasSatisfied := row.Satisfied
	changed := row.ApplyAutoMatch(match, m.now())
	if changed {
		row.Version++
	}
	return models.AutoMatchResult{
		Row:            row.Clone(),
		Changed:        changed,
		NewlySatisfied: !wasSatisfied && row.Satisfied,
	}, nil
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}

func (m *Memory) lookup(awardKey, criterionText string) (*models.CriterionSatisfaction, error) {
	row, ok := m.rows[models.CriterionKey{AwardKey: awardKey, CriterionText: criterionText}]
	if !ok {
		return nil, apperr.NotFound("criterion %q of award %q not found", criterionText, awardKey)
	}
	return row, nil
}
