package variation

import (
	"strconv"
	"unicode/utf16"
)

// HashString folds value into a non-negative integer using a base-31
// polynomial rolling hash over UTF-16 code units with 32-bit signed
// wrap-around. The empty string hashes to 0.
func HashString(value string) int {
	var h int32
	for _, unit := range utf16.Encode([]rune(value)) {
		h = h*31 + int32(unit)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return int(abs)
}

// SelectVariantIndex picks an index in [0, count) for key under seed.
// Counts of one or less always select index 0.
func SelectVariantIndex(seed int, key string, count int) int {
	if count <= 1 {
		return 0
	}
	return HashString(key+":"+strconv.Itoa(seed)) % count
}

// GenerateID builds a short diagnostic identifier such as "wrap-cta-117".
// The result is stable for (seed, key, prefix) but is not meant for lookups.
func GenerateID(seed int, key, prefix string) string {
	suffix := (seed + HashString(key)) % 9999
	if suffix < 0 {
		suffix += 9999
	}
	return prefix + "-" + key + "-" + strconv.Itoa(suffix)
}
