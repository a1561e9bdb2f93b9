package variation

import "fmt"

// MatchTier names the rule tier that selected a layout.
type MatchTier string

const (
	TierCanonical  MatchTier = "canonical"
	TierRange      MatchTier = "range"
	TierResidue    MatchTier = "residue"
	TierExact      MatchTier = "exact"
	TierExpression MatchTier = "expression"
	TierFormula    MatchTier = "formula"
)

// LayoutMatch explains a resolution.
type LayoutMatch struct {
	Seed    int       `json:"seed"`
	Tier    MatchTier `json:"tier"`
	Rule    int       `json:"rule"`
	Variant int       `json:"variant"`
}

// LayoutOption configures a LayoutResolver.
type LayoutOption func(*layoutConfig)

type layoutConfig struct {
	policy    Policy
	catalog   []LayoutVariant
	rules     LayoutRules
	evaluator Evaluator
	logger    Logger
}

// WithLayoutPolicy sets the variation policy.
func WithLayoutPolicy(policy Policy) LayoutOption {
	return func(cfg *layoutConfig) {
		cfg.policy = policy
	}
}

// WithLayoutCatalog replaces the built-in catalog. It must contain the
// canonical layout (ID 1).
func WithLayoutCatalog(catalog []LayoutVariant) LayoutOption {
	return func(cfg *layoutConfig) {
		cfg.catalog = append([]LayoutVariant(nil), catalog...)
	}
}

// WithLayoutRules replaces the built-in override table.
func WithLayoutRules(rules LayoutRules) LayoutOption {
	return func(cfg *layoutConfig) {
		cfg.rules = rules.Clone()
	}
}

// WithLayoutEvaluator sets the evaluator used for expression rules. The expr
// evaluator with the default function registry is used otherwise.
func WithLayoutEvaluator(evaluator Evaluator) LayoutOption {
	return func(cfg *layoutConfig) {
		cfg.evaluator = evaluator
	}
}

// WithLayoutLogger attaches a logger for rule evaluation diagnostics.
func WithLayoutLogger(logger Logger) LayoutOption {
	return func(cfg *layoutConfig) {
		cfg.logger = loggerOrNop(logger)
	}
}

type compiledExpressionRule struct {
	predicate *predicate
	variant   int
}

// LayoutResolver maps seeds to entries of a static layout catalog. It only
// performs lookups; the catalog and rules are fixed at construction.
type LayoutResolver struct {
	policy      Policy
	byID        map[int]LayoutVariant
	rules       LayoutRules
	expressions []compiledExpressionRule
	logger      Logger
}

// NewLayoutResolver validates the catalog and rules and compiles expression
// rules.
func NewLayoutResolver(opts ...LayoutOption) (*LayoutResolver, error) {
	cfg := layoutConfig{
		policy:  DefaultPolicy(),
		catalog: DefaultLayouts(),
		rules:   DefaultLayoutRules(),
		logger:  noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	byID := make(map[int]LayoutVariant, len(cfg.catalog))
	known := make(map[int]struct{}, len(cfg.catalog))
	for _, layout := range cfg.catalog {
		if _, dup := byID[layout.ID]; dup {
			return nil, fmt.Errorf("variation: duplicate layout id %d", layout.ID)
		}
		byID[layout.ID] = layout
		known[layout.ID] = struct{}{}
	}
	if _, ok := byID[CanonicalLayoutID]; !ok {
		return nil, fmt.Errorf("%w: catalog must contain canonical layout %d", ErrUnknownLayout, CanonicalLayoutID)
	}
	for variant := 1; variant <= 10; variant++ {
		if _, ok := byID[variant]; !ok {
			return nil, fmt.Errorf("%w: formula target %d missing from catalog", ErrUnknownLayout, variant)
		}
	}
	if err := cfg.rules.Validate(known); err != nil {
		return nil, err
	}

	resolver := &LayoutResolver{
		policy: cfg.policy,
		byID:   byID,
		rules:  cfg.rules,
		logger: cfg.logger,
	}
	if len(cfg.rules.Expressions) > 0 {
		evaluator := cfg.evaluator
		if evaluator == nil {
			evaluator = NewExprEvaluator(ExprWithFunctionRegistry(DefaultFunctionRegistry()))
		}
		for _, rule := range cfg.rules.Expressions {
			compiled, err := compilePredicate(evaluator, rule.Expr, cfg.logger)
			if err != nil {
				return nil, err
			}
			resolver.expressions = append(resolver.expressions, compiledExpressionRule{
				predicate: compiled,
				variant:   rule.Variant,
			})
		}
	}
	return resolver, nil
}

// Resolve returns the layout for seed. Invalid seeds resolve to the canonical
// layout.
func (r *LayoutResolver) Resolve(seed int) LayoutVariant {
	layout, _ := r.ResolveWithMatch(seed)
	return layout
}

// ResolveRaw parses raw (query parameter, header, ...) and resolves it.
// Missing or non-numeric input resolves to the canonical layout.
func (r *LayoutResolver) ResolveRaw(raw string) LayoutVariant {
	return r.Resolve(ParseSeed(raw, r.policy.maxSeed()))
}

// ResolveWithMatch returns the layout and the rule that selected it.
func (r *LayoutResolver) ResolveWithMatch(seed int) (LayoutVariant, LayoutMatch) {
	match := r.match(seed)
	return r.byID[match.Variant], match
}

// Layout returns the catalog entry for id.
func (r *LayoutResolver) Layout(id int) (LayoutVariant, bool) {
	layout, ok := r.byID[id]
	return layout, ok
}

func (r *LayoutResolver) match(seed int) LayoutMatch {
	if !ValidSeed(seed, r.policy.maxSeed()) || r.policy.Canonical(seed) {
		return LayoutMatch{Seed: CanonicalSeed, Tier: TierCanonical, Variant: CanonicalLayoutID}
	}
	for i, rule := range r.rules.Ranges {
		if seed >= rule.From && seed <= rule.To {
			return LayoutMatch{Seed: seed, Tier: TierRange, Rule: i, Variant: rule.Variant}
		}
	}
	for i, rule := range r.rules.Residues {
		if seed%rule.Modulus == rule.Residue {
			return LayoutMatch{Seed: seed, Tier: TierResidue, Rule: i, Variant: rule.Variant}
		}
	}
	if variant, ok := r.rules.Exact[seed]; ok {
		return LayoutMatch{Seed: seed, Tier: TierExact, Rule: seed, Variant: variant}
	}
	if len(r.expressions) > 0 {
		ctx := RuleContext{Seed: seed, MaxSeed: r.policy.maxSeed()}
		for i, rule := range r.expressions {
			if rule.predicate.match(ctx) {
				return LayoutMatch{Seed: seed, Tier: TierExpression, Rule: i, Variant: rule.variant}
			}
		}
	}
	return LayoutMatch{Seed: seed, Tier: TierFormula, Variant: DefaultLayoutFor(seed)}
}
