package variation

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/goliatone/go-variation/internal/hydrate"
)

// ErrUnknownLayout indicates a rule that targets a layout missing from the
// catalog.
var ErrUnknownLayout = errors.New("variation: unknown layout variant")

// RangeRule forces seeds in [From, To] to Variant.
type RangeRule struct {
	From    int `json:"from"`
	To      int `json:"to"`
	Variant int `json:"variant"`
}

// ResidueRule forces seeds where seed % Modulus == Residue to Variant.
type ResidueRule struct {
	Modulus int `json:"modulus"`
	Residue int `json:"residue"`
	Variant int `json:"variant"`
}

// ExpressionRule forces seeds for which Expr evaluates to true to Variant.
type ExpressionRule struct {
	Expr    string `json:"expr"`
	Variant int    `json:"variant"`
}

// LayoutRules is the static override table consulted before the default
// formula. Tiers are evaluated in field order; within a tier, declaration
// order wins.
type LayoutRules struct {
	Ranges      []RangeRule      `json:"ranges,omitempty"`
	Residues    []ResidueRule    `json:"residues,omitempty"`
	Exact       map[int]int      `json:"exact,omitempty"`
	Expressions []ExpressionRule `json:"expressions,omitempty"`
}

// DefaultLayoutRules returns the built-in override table.
func DefaultLayoutRules() LayoutRules {
	return LayoutRules{
		Ranges: []RangeRule{
			{From: 160, To: 170, Variant: 4},
		},
		Residues: []ResidueRule{
			{Modulus: 10, Residue: 5, Variant: 6},
		},
		Exact: map[int]int{
			42:  7,
			99:  2,
			180: 9,
			256: 3,
		},
	}
}

// Clone returns a deep copy of r.
func (r LayoutRules) Clone() LayoutRules {
	out := LayoutRules{
		Ranges:      append([]RangeRule(nil), r.Ranges...),
		Residues:    append([]ResidueRule(nil), r.Residues...),
		Expressions: append([]ExpressionRule(nil), r.Expressions...),
	}
	if r.Exact != nil {
		out.Exact = make(map[int]int, len(r.Exact))
		for seed, variant := range r.Exact {
			out.Exact[seed] = variant
		}
	}
	return out
}

// Validate checks every rule against the IDs present in known.
func (r LayoutRules) Validate(known map[int]struct{}) error {
	var errs []error
	check := func(kind string, index, variant int) {
		if _, ok := known[variant]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s rule %d targets %d", ErrUnknownLayout, kind, index, variant))
		}
	}
	for i, rule := range r.Ranges {
		if rule.From > rule.To {
			errs = append(errs, fmt.Errorf("variation: range rule %d: from %d > to %d", i, rule.From, rule.To))
		}
		check("range", i, rule.Variant)
	}
	for i, rule := range r.Residues {
		if rule.Modulus <= 0 {
			errs = append(errs, fmt.Errorf("variation: residue rule %d: modulus must be positive", i))
		}
		check("residue", i, rule.Variant)
	}
	seeds := make([]int, 0, len(r.Exact))
	for seed := range r.Exact {
		seeds = append(seeds, seed)
	}
	sort.Ints(seeds)
	for _, seed := range seeds {
		check("exact", seed, r.Exact[seed])
	}
	for i, rule := range r.Expressions {
		if rule.Expr == "" {
			errs = append(errs, fmt.Errorf("variation: expression rule %d: expression must not be empty", i))
		}
		check("expression", i, rule.Variant)
	}
	return errors.Join(errs...)
}

// DefaultLayoutFor applies the fallback formula ((seed % 30) + 1) % 10,
// mapping 0 to 10.
func DefaultLayoutFor(seed int) int {
	variant := ((seed % 30) + 1) % 10
	if variant == 0 {
		return 10
	}
	return variant
}

var layoutRulesDecoder = hydrate.NewDecoder[LayoutRules](
	hydrate.WithDisallowUnknownFields[LayoutRules](),
)

// LoadLayoutRules decodes an override table such as
//
//	{"ranges": [{"from": 160, "to": 170, "variant": 4}], "exact": {"42": 7}}
//
// Rules are checked against the catalog when the resolver is built.
func LoadLayoutRules(name string, r io.Reader) (LayoutRules, error) {
	return layoutRulesDecoder.DecodeReader(hydrate.Context{Name: name, Origin: "layout-rules"}, r)
}
