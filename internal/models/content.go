package models

// Content type constants
const (
	ContentDocument = "document"
	ContentEvent    = "event"
)

// Content status constants
const (
	ContentActive   = "active"
	ContentInactive = "inactive"
)

// ContentItem is a document or event supplied by the external content stores.
type ContentItem struct {
	ID       string `json:"id"`
	Type     string `json:"type"`   // document, event
	Title    string `json:"title"`
	BodyText string `json:"body_text"`
	Status   string `json:"status"` // active, inactive
}

// Ref returns the identity of the item.
func (c *ContentItem) Ref() ContentRef {
	return ContentRef{Type: c.Type, ID: c.ID}
}

// IsActive returns true if the item takes part in analysis.
func (c *ContentItem) IsActive() bool {
	return c.Status == ContentActive
}

// Text returns the text the item is scored on.
func (c *ContentItem) Text() string {
	return c.Title + " " + c.BodyText
}

// ContentRef identifies a content item. Documents and events live in
// separate stores, so the id alone is not unique.
type ContentRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// IsValidContentType returns true for document and event.
func IsValidContentType(t string) bool {
	return t == ContentDocument || t == ContentEvent
}
