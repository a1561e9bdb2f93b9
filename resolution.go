package variation

import "encoding/json"

// Source names where a variant list was found.
type Source string

const (
	SourceLocal       Source = "local"
	SourceIdentifiers Source = "identifiers"
	SourceClasses     Source = "classes"
	SourceTexts       Source = "texts"
	SourceFallback    Source = "fallback"
	SourceKey         Source = "key"
)

// Resolution captures provenance for one Catalog lookup.
type Resolution struct {
	Seed       int    `json:"seed"`
	Key        string `json:"key"`
	Source     Source `json:"source"`
	Index      int    `json:"index"`
	Candidates int    `json:"candidates"`
	Value      string `json:"value"`
	Canonical  bool   `json:"canonical"`
}

// Miss reports whether no dictionary contained the key.
func (r Resolution) Miss() bool {
	return r.Source == SourceFallback || r.Source == SourceKey
}

// ToJSON serialises the resolution for logging or transport helpers.
func (r Resolution) ToJSON() ([]byte, error) {
	type alias Resolution
	return json.Marshal(alias(r))
}

// ResolutionFromJSON deserialises a payload produced by ToJSON.
func ResolutionFromJSON(payload []byte) (Resolution, error) {
	type alias Resolution
	var out alias
	if err := json.Unmarshal(payload, &out); err != nil {
		return Resolution{}, err
	}
	return Resolution(out), nil
}
