package variation

import (
	"strconv"
	"strings"
)

const (
	// CanonicalSeed selects the original, unvaried behaviour everywhere.
	CanonicalSeed = 1
	// DefaultMaxSeed is the upper bound of the valid seed range.
	DefaultMaxSeed = 300
)

// ClampSeed returns seed when it lies in [1, max] and CanonicalSeed
// otherwise. A non-positive max falls back to DefaultMaxSeed.
func ClampSeed(seed, max int) int {
	if max <= 0 {
		max = DefaultMaxSeed
	}
	if seed < CanonicalSeed || seed > max {
		return CanonicalSeed
	}
	return seed
}

// ParseSeed converts raw input (query parameters, headers, env values) into a
// clamped seed. Missing or non-numeric input yields CanonicalSeed.
func ParseSeed(raw string, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CanonicalSeed
	}
	seed, err := strconv.Atoi(raw)
	if err != nil {
		return CanonicalSeed
	}
	return ClampSeed(seed, max)
}

// ValidSeed reports whether seed lies within [1, max].
func ValidSeed(seed, max int) bool {
	if max <= 0 {
		max = DefaultMaxSeed
	}
	return seed >= CanonicalSeed && seed <= max
}
