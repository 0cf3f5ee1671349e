package components

import (
	"html/template"
	"regexp"
	"strings"
)

var (
	hexColor     = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	namedColor   = regexp.MustCompile(`^[a-zA-Z]+$`)
	funcColor    = regexp.MustCompile(`(?i)^(?:rgba?|hsla?|hwb|lab|lch|oklab|oklch)\(\s*[-+.,/%\sa-z0-9]*\)$`)
	varReference = regexp.MustCompile(`^var\(\s*--[a-zA-Z0-9_-]+\s*\)$`)
)

// ValidColor reports whether value is a CSS color this package emits as is:
// a hex color, a color keyword, an rgb/rgba/hsl/hsla/hwb/lab/lch/oklab/oklch
// function, or a var(--name) reference.
func ValidColor(value string) bool {
	value = strings.TrimSpace(value)
	return hexColor.MatchString(value) ||
		namedColor.MatchString(value) ||
		funcColor.MatchString(value) ||
		varReference.MatchString(value)
}

// cssColor returns value as trusted CSS when it is a ValidColor, and
// DefaultColor otherwise. Empty means DefaultColor.
func cssColor(value string) template.CSS {
	value = strings.TrimSpace(value)
	if !ValidColor(value) {
		return template.CSS(DefaultColor)
	}
	return template.CSS(value)
}
