package validation

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"awardmatch/internal/models"
)

// AwardKeyPattern defines the valid award key format: lowercase alphanumeric, hyphens, underscores.
var AwardKeyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ContentIDPattern defines the valid content id format.
var ContentIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// MaxCriterionLength bounds criterion texts accepted from requests.
const MaxCriterionLength = 500

// NormalizeAwardKey lowercases and trims an award key so lookups are case-insensitive.
func NormalizeAwardKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// ValidateAwardKey checks if an award key matches the allowed pattern.
func ValidateAwardKey(key string) (bool, string) {
	if key == "" {
		return false, "award_type is required"
	}
	if len(key) > 100 || !AwardKeyPattern.MatchString(key) {
		return false, "award_type must contain only lowercase letters, digits, hyphens and underscores"
	}
	return true, ""
}

// NormalizeCriterion trims surrounding whitespace from a criterion text.
func NormalizeCriterion(text string) string {
	return strings.TrimSpace(text)
}

// ValidateCriterion checks that a criterion text is present and not oversized.
func ValidateCriterion(text string) (bool, string) {
	if text == "" {
		return false, "criterion is required"
	}
	if len(text) > MaxCriterionLength {
		return false, "criterion is too long"
	}
	return true, ""
}

// ValidateContentType checks that t names one of the content stores.
func ValidateContentType(t string) (bool, string) {
	if t == "" {
		return false, "content_type is required"
	}
	if !models.IsValidContentType(t) {
		return false, "content_type must be document or event"
	}
	return true, ""
}

// ParseContentID reads a content id sent either as a JSON string or as a
// non-negative JSON integer.
func ParseContentID(raw json.RawMessage) (string, bool, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, "content_id is required"
	}

	var id string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", false, "content_id is not a valid string"
		}
		id = strings.TrimSpace(id)
	} else {
		n, err := strconv.ParseUint(string(raw), 10, 63)
		if err != nil {
			return "", false, "content_id must be a string or a non-negative integer"
		}
		id = strconv.FormatUint(n, 10)
	}

	if id == "" {
		return "", false, "content_id is required"
	}
	if len(id) > 64 || !ContentIDPattern.MatchString(id) {
		return "", false, "content_id contains invalid characters"
	}
	return id, true, ""
}
