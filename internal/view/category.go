// Package view maps fact-check responses to display records and renders them.
// Nothing here touches the network or a terminal, so the mapping can be tested
// on its own.
package view

import "strings"

// Category is the display bucket derived from a verdict string.
// Its value doubles as the CSS class name in HTML output.
type Category string

const (
	CategoryTrue    Category = "true"
	CategoryFalse   Category = "false"
	CategoryPartial Category = "partial"
)

// Classify buckets a verdict, case-insensitively.
// "false" takes precedence over everything, so "false but partly true" is
// false. A qualified "partially true" stays partial rather than true.
// Anything unrecognised falls back to partial.
func Classify(verdict string) Category {
	v := strings.ToLower(verdict)

	switch {
	case strings.Contains(v, "false"):
		return CategoryFalse
	case strings.Contains(v, "partial"):
		return CategoryPartial
	case strings.Contains(v, "true"):
		return CategoryTrue
	default:
		return CategoryPartial
	}
}
