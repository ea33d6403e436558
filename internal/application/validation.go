package application

import (
	"fmt"
	"strings"

	"scaffale/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "locationID" -> "location ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"locationID":    "location ID",
		"parentID":      "parent ID",
		"itemID":        "item ID",
		"itemIDs":       "item IDs",
		"sourceID":      "source ID",
		"destinationID": "destination ID",
		"name":          "name",
		"title":         "title",
		"type":          "type",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateID checks that id was issued by the inventory. Returns a
// ValidationError otherwise.
func ValidateID(fieldName, id string) error {
	if err := ValidateRequired(fieldName, id); err != nil {
		return err
	}
	if !domain.ValidID(id) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("not a valid %s: %s", formatFieldName(fieldName), id),
		}
	}
	return nil
}

// ValidateLocationType checks a user-supplied location type
func ValidateLocationType(fieldName, value string) (domain.LocationType, error) {
	t, err := domain.ParseLocationType(value)
	if err != nil {
		return "", &ValidationError{Field: fieldName, Message: err.Error()}
	}
	return t, nil
}

// ValidateCollectionType checks a user-supplied collection type. An empty
// value is allowed and returned as "".
func ValidateCollectionType(fieldName, value string) (domain.CollectionType, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	t, err := domain.ParseCollectionType(value)
	if err != nil {
		return "", &ValidationError{Field: fieldName, Message: err.Error()}
	}
	return t, nil
}
