package models

import "time"

// AwardResponse is a catalog entry as served by the awards endpoint.
type AwardResponse struct {
	Key           string   `json:"key"`
	Name          string   `json:"name"`
	Criteria      []string `json:"criteria"`
	TotalCriteria int      `json:"total_criteria"`
}

// HealthResponse reports whether the engine can reach its state store.
type HealthResponse struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`
}
