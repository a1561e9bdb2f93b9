package dataset

import (
	"strconv"
	"strings"
	"unicode"
)

// All returns a copy of the current list.
func (c *Coordinator[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneRecords(c.records)
}

// Len returns the number of records held.
func (c *Coordinator[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// GetByID finds a record by exact ID, then by numeric value ("007" matches
// "7", decimal digits only), then by the first ID containing id.
func (c *Coordinator[T]) GetByID(id string) (T, bool) {
	var zero T
	id = strings.TrimSpace(id)
	if id == "" {
		return zero, false
	}
	records := c.snapshot()

	for _, record := range records {
		if record.RecordID() == id {
			return record, true
		}
	}
	if want, ok := parseNumber(id); ok {
		for _, record := range records {
			if got, ok := parseNumber(record.RecordID()); ok && got == want {
				return record, true
			}
		}
	}
	for _, record := range records {
		if strings.Contains(record.RecordID(), id) {
			return record, true
		}
	}
	return zero, false
}

// GetByName finds a record by exact name, then by name with punctuation and
// case normalized ("Hotel Rîo, Centro" matches "hotel-rîo-centro"), then by
// normalized substring in either direction.
func (c *Coordinator[T]) GetByName(name string) (T, bool) {
	var zero T
	name = strings.TrimSpace(name)
	if name == "" {
		return zero, false
	}
	records := c.snapshot()

	for _, record := range records {
		if nameOf(record) == name {
			return record, true
		}
	}
	want := normalizeName(name)
	if want == "" {
		return zero, false
	}
	for _, record := range records {
		if normalizeName(nameOf(record)) == want {
			return record, true
		}
	}
	for _, record := range records {
		got := normalizeName(nameOf(record))
		if got == "" {
			continue
		}
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return record, true
		}
	}
	return zero, false
}

// Search returns the records whose search fields contain query (case
// insensitive) and that match every filter exactly. An empty query matches
// all records. Records that are not Filterable fail any filter.
func (c *Coordinator[T]) Search(query string, filters map[string]string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	records := c.snapshot()
	out := make([]T, 0, len(records))
	for _, record := range records {
		if query != "" && !matchesQuery(record, query) {
			continue
		}
		if !matchesFilters(record, filters) {
			continue
		}
		out = append(out, record)
	}
	return out
}

func (c *Coordinator[T]) snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records
}

func nameOf(record Record) string {
	if named, ok := record.(Named); ok {
		return named.RecordName()
	}
	return record.RecordID()
}

func searchFields(record Record) []string {
	if searchable, ok := record.(Searchable); ok {
		return searchable.SearchFields()
	}
	return []string{record.RecordID(), nameOf(record)}
}

func matchesQuery(record Record, query string) bool {
	for _, field := range searchFields(record) {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func matchesFilters(record Record, filters map[string]string) bool {
	if len(filters) == 0 {
		return true
	}
	filterable, ok := record.(Filterable)
	if !ok {
		return false
	}
	for field, want := range filters {
		got, ok := filterable.FilterValue(field)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// parseNumber accepts plain decimal digits only.
func parseNumber(raw string) (uint64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// normalizeName lower-cases s and collapses every run of non letters/digits
// into a single '-'.
func normalizeName(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
