// Package convention derives storage names from Go identifiers.
// Entity types map to pluralized snake_case tables and exported fields map
// to snake_case columns unless a builder overrides them.
package convention

import (
	"strings"
	"unicode"
)

// Snake converts a Go identifier to snake_case.
// Acronym runs stay together: "HTTPServer" → "http_server", "UserID" → "user_id".
func Snake(name string) string {
	if name == "" {
		return ""
	}

	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// TableName returns the conventional table name for an entity type name.
func TableName(typeName string) string {
	return Pluralize(Snake(typeName))
}

// ColumnName returns the conventional column name for a struct field.
func ColumnName(fieldName string) string {
	return Snake(fieldName)
}
