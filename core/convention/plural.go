package convention

import "strings"

// Pluralize returns the plural form of a word.
// Uses simple English pluralization rules. For snake_case input only the
// last segment is pluralized ("audit_entry" → "audit_entries").
func Pluralize(word string) string {
	if word == "" {
		return ""
	}

	if i := strings.LastIndexByte(word, '_'); i >= 0 && i < len(word)-1 {
		return word[:i+1] + Pluralize(word[i+1:])
	}

	// Irregular plurals first, preserving the case of the first letter
	if plural, ok := irregularPlurals[strings.ToLower(word)]; ok {
		if word[0] >= 'A' && word[0] <= 'Z' {
			return strings.ToUpper(plural[:1]) + plural[1:]
		}
		return plural
	}

	lower := strings.ToLower(word)

	// Words ending in 's', 'x', 'z', 'ch', 'sh' → add 'es'
	if strings.HasSuffix(lower, "s") ||
		strings.HasSuffix(lower, "x") ||
		strings.HasSuffix(lower, "z") ||
		strings.HasSuffix(lower, "ch") ||
		strings.HasSuffix(lower, "sh") {
		return word + "es"
	}

	// Consonant + 'y' → 'ies'
	if strings.HasSuffix(lower, "y") && len(word) > 1 {
		if !isVowel(rune(lower[len(lower)-2])) {
			return word[:len(word)-1] + "ies"
		}
	}

	if strings.HasSuffix(lower, "fe") {
		return word[:len(word)-2] + "ves"
	}
	if strings.HasSuffix(lower, "f") {
		return word[:len(word)-1] + "ves"
	}

	return word + "s"
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	default:
		return false
	}
}

var irregularPlurals = map[string]string{
	"person":   "people",
	"man":      "men",
	"woman":    "women",
	"child":    "children",
	"mouse":    "mice",
	"index":    "indices",
	"matrix":   "matrices",
	"vertex":   "vertices",
	"analysis": "analyses",
	"datum":    "data",
	"medium":   "media",
	"schema":   "schemas",
	"status":   "statuses",
}
