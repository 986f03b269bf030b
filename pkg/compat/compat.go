// Package compat decides whether a game's minimum memory requirement fits
// a caller's RAM budget.
//
// Requirement texts come straight from the catalog and are free-form
// ("8 GB RAM", "4GB", "512 MB", ...). Only the first "<digits> GB" match is
// considered; anything that cannot be parsed is treated as compatible.
package compat

import (
	"regexp"
	"strconv"
)

var memoryPattern = regexp.MustCompile(`(?i)(\d+)\s*GB`)

// ParseMemoryGB extracts the first "<n> GB" value from a requirement text.
// The second return value is false when the text is empty, has no GB value,
// or the number does not fit in an int.
func ParseMemoryGB(text string) (int, bool) {
	if text == "" {
		return 0, false
	}

	match := memoryPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return value, true
}

// Fits reports whether a game with the given minimum memory text can run
// within ramGB gigabytes. A nil ramGB means no constraint was requested.
func Fits(minMemoryText string, ramGB *int) bool {
	if ramGB == nil {
		return true
	}

	required, ok := ParseMemoryGB(minMemoryText)
	if !ok {
		// Missing or unparsable requirement never disqualifies a game.
		return true
	}

	return required <= *ramGB
}
