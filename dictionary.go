package variation

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-variation/internal/hydrate"
)

// ErrEmptyVariants indicates a dictionary entry without candidates.
var ErrEmptyVariants = errors.New("variation: variant list must not be empty")

// DictionarySet groups the three global dictionaries as they appear in a
// dictionary file:
//
//	{"identifiers": {"cta": ["book-btn", "reserve-btn"]}, "classes": {...}, "texts": {...}}
type DictionarySet struct {
	Identifiers Dictionary `json:"identifiers,omitempty"`
	Classes     Dictionary `json:"classes,omitempty"`
	Texts       Dictionary `json:"texts,omitempty"`
}

// CatalogOptions converts the set into catalog options.
func (s DictionarySet) CatalogOptions() []CatalogOption {
	return []CatalogOption{
		WithIdentifierVariants(s.Identifiers),
		WithClassVariants(s.Classes),
		WithTextVariants(s.Texts),
	}
}

// Validate rejects blank keys and empty variant lists.
func (s DictionarySet) Validate() error {
	var errs []error
	for _, entry := range []struct {
		name string
		dict Dictionary
	}{
		{"identifiers", s.Identifiers},
		{"classes", s.Classes},
		{"texts", s.Texts},
	} {
		keys := make([]string, 0, len(entry.dict))
		for key := range entry.dict {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if key == "" {
				errs = append(errs, fmt.Errorf("variation: %s: blank key", entry.name))
				continue
			}
			if len(entry.dict[key]) == 0 {
				errs = append(errs, fmt.Errorf("%w: %s.%s", ErrEmptyVariants, entry.name, key))
			}
		}
	}
	return errors.Join(errs...)
}

var dictionaryDecoder = hydrate.NewDecoder[DictionarySet](
	hydrate.WithDisallowUnknownFields[DictionarySet](),
	hydrate.WithPreHook[DictionarySet](trimDictionaryKeys),
	hydrate.WithPostHook[DictionarySet](func(_ hydrate.Context, set *DictionarySet) error {
		return set.Validate()
	}),
)

// LoadDictionaries decodes a dictionary document from r. name is only used in
// error messages.
func LoadDictionaries(name string, r io.Reader) (DictionarySet, error) {
	return dictionaryDecoder.DecodeReader(hydrate.Context{Name: name, Origin: "dictionary"}, r)
}

// LoadDictionaryFile reads a dictionary document from path.
func LoadDictionaryFile(path string) (DictionarySet, error) {
	file, err := os.Open(path)
	if err != nil {
		return DictionarySet{}, fmt.Errorf("variation: open dictionary: %w", err)
	}
	defer file.Close()
	return LoadDictionaries(path, file)
}

func trimDictionaryKeys(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	for section, raw := range payload {
		entries, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		trimmed := make(map[string]any, len(entries))
		for key, values := range entries {
			trimmed[strings.TrimSpace(key)] = values
		}
		payload[section] = trimmed
	}
	return payload, nil
}
