package variation

import (
	"fmt"
	"os"
)

// Engine bundles the per-render components behind one handle. It is built
// once at startup and shared; every method is safe for concurrent use.
type Engine struct {
	config  Config
	policy  Policy
	catalog *Catalog
	mutator *Mutator
	layouts *LayoutResolver
	logger  Logger
}

// New builds an Engine.
func New(opts ...Option) (*Engine, error) {
	cfg := applyOptions(opts)
	if err := cfg.config.Validate(); err != nil {
		return nil, err
	}
	policy := cfg.effectivePolicy()
	logger := cfg.effectiveLogger()

	dictionaries, err := cfg.loadDictionaries()
	if err != nil {
		return nil, err
	}
	catalogOpts := append(dictionaries.CatalogOptions(),
		WithCatalogPolicy(policy),
		WithCatalogLogger(logger),
		WithProduction(cfg.config.Production),
	)

	evaluator := cfg.evaluator
	if evaluator == nil {
		evaluator, err = NewEvaluator(cfg.config.Evaluator, cfg.programCache, cfg.registry())
		if err != nil {
			return nil, err
		}
	}
	layoutOpts := []LayoutOption{
		WithLayoutPolicy(policy),
		WithLayoutEvaluator(evaluator),
		WithLayoutLogger(logger),
	}
	rules, err := cfg.loadLayoutRules()
	if err != nil {
		return nil, err
	}
	if rules != nil {
		layoutOpts = append(layoutOpts, WithLayoutRules(*rules))
	}
	if cfg.layouts != nil {
		layoutOpts = append(layoutOpts, WithLayoutCatalog(cfg.layouts))
	}
	layouts, err := NewLayoutResolver(layoutOpts...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:  cfg.config,
		policy:  policy,
		catalog: NewCatalog(catalogOpts...),
		mutator: NewMutator(policy),
		layouts: layouts,
		logger:  logger,
	}, nil
}

func (cfg engineConfig) loadDictionaries() (DictionarySet, error) {
	if cfg.dictionaries != nil {
		if err := cfg.dictionaries.Validate(); err != nil {
			return DictionarySet{}, err
		}
		return *cfg.dictionaries, nil
	}
	if cfg.config.DictionaryFile == "" {
		return DictionarySet{}, nil
	}
	return LoadDictionaryFile(cfg.config.DictionaryFile)
}

func (cfg engineConfig) loadLayoutRules() (*LayoutRules, error) {
	if cfg.layoutRules != nil {
		return cfg.layoutRules, nil
	}
	if cfg.config.LayoutRulesFile == "" {
		return nil, nil
	}
	file, err := os.Open(cfg.config.LayoutRulesFile)
	if err != nil {
		return nil, fmt.Errorf("variation: open layout rules: %w", err)
	}
	defer file.Close()
	rules, err := LoadLayoutRules(cfg.config.LayoutRulesFile, file)
	if err != nil {
		return nil, err
	}
	return &rules, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.config }

// Policy returns the engine's variation policy.
func (e *Engine) Policy() Policy { return e.policy }

// Catalog returns the variant catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Mutator returns the structural mutator.
func (e *Engine) Mutator() *Mutator { return e.mutator }

// Layouts returns the layout resolver.
func (e *Engine) Layouts() *LayoutResolver { return e.layouts }

// Logger returns the shared logger.
func (e *Engine) Logger() Logger { return e.logger }

// NormalizeSeed clamps seed to the engine's range.
func (e *Engine) NormalizeSeed(seed int) int { return e.policy.Normalize(seed) }

// Variant resolves key for seed; see Catalog.Get.
func (e *Engine) Variant(seed int, key string, local Dictionary, fallback ...string) string {
	return e.catalog.Get(seed, key, local, fallback...)
}

// VariantIndex is SelectVariantIndex gated by the policy: canonical seeds
// always select index 0.
func (e *Engine) VariantIndex(seed int, key string, count int) int {
	seed = e.policy.Normalize(seed)
	if e.policy.Canonical(seed) {
		return 0
	}
	return SelectVariantIndex(seed, key, count)
}

// Order returns the permutation for an ordered list; see Mutator.Order.
func (e *Engine) Order(seed int, key string, count int) []int {
	return e.mutator.Order(seed, key, count)
}

// Plan returns the structural mutation plan; see Mutator.Plan.
func (e *Engine) Plan(seed int, key string) Mutation {
	return e.mutator.Plan(seed, key)
}

// Layout resolves the layout for seed.
func (e *Engine) Layout(seed int) LayoutVariant {
	return e.layouts.Resolve(seed)
}

// ID builds a diagnostic identifier; see GenerateID.
func (e *Engine) ID(seed int, key, prefix string) string {
	return GenerateID(e.policy.Normalize(seed), key, prefix)
}
