// Package content is the read-only view of the external document and event stores.
package content

import (
	"context"
	"sync"

	"awardmatch/internal/apperr"
	"awardmatch/internal/models"
)

// Source lists and fetches content items. Items are owned by the content
// management system; the engine never writes them.
type Source interface {
	List(ctx context.Context) ([]models.ContentItem, error)
	Get(ctx context.Context, contentType, id string) (models.ContentItem, error)
}

// Memory is a Source backed by a slice, used by tests and the memory driver.
type Memory struct {
	mu    sync.RWMutex
	items []models.ContentItem
}

// NewMemory creates a source holding items.
func NewMemory(items ...models.ContentItem) *Memory {
	m := &Memory{}
	m.items = append(m.items, items...)
	return m
}

// Add appends items to the source.
func (m *Memory) Add(items ...models.ContentItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, items...)
}

func (m *Memory) List(_ context.Context) ([]models.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ContentItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *Memory) Get(_ context.Context, contentType, id string) (models.ContentItem, error) {
	if !models.IsValidContentType(contentType) {
		return models.ContentItem{}, apperr.Validation("unknown content type %q", contentType)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, item := range m.items {
		if item.Type == contentType && item.ID == id {
			return item, nil
		}
	}
	return models.ContentItem{}, apperr.NotFound("%s %s not found", contentType, id)
}

// DevItems returns sample documents and events for development databases.
func DevItems() []models.ContentItem {
	return []models.ContentItem{
		{ID: "1", Type: models.ContentDocument, Status: models.ContentActive,
			Title:    "Global Partnership Agreement",
			BodyText: "International leadership partnership exchange collaboration"},
		{ID: "2", Type: models.ContentDocument, Status: models.ContentActive,
			Title:    "Curriculum Review",
			BodyText: "Academic excellence curriculum research teaching quality"},
		{ID: "3", Type: models.ContentDocument, Status: models.ContentInactive,
			Title:    "Archived Travel Policy",
			BodyText: "Superseded guidance for staff travel"},
		{ID: "1", Type: models.ContentEvent, Status: models.ContentActive,
			Title:    "Intercultural Festival",
			BodyText: "Cultural understanding exchange diversity language festival"},
		{ID: "2", Type: models.ContentEvent, Status: models.ContentActive,
			Title:    "Community Outreach Day",
			BodyText: "Active engagement community outreach social responsibility service"},
	}
}
