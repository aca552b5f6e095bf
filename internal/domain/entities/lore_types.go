package entities

import "strings"

// TypeUnknown is reported for entities stored without a type tag.
const TypeUnknown = "unknown"

// NormalizeType trims a free-form type tag and substitutes TypeUnknown for
// blanks. Case is preserved.
func NormalizeType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return TypeUnknown
	}
	return t
}
