package variation

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	config       Config
	policy       *Policy
	logger       Logger
	dictionaries *DictionarySet
	layoutRules  *LayoutRules
	layouts      []LayoutVariant
	evaluator    Evaluator
	functions    *FunctionRegistry
	programCache ProgramCache
}

func applyOptions(opts []Option) engineConfig {
	cfg := engineConfig{config: DefaultConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithConfig sets the base configuration, typically from LoadConfig.
func WithConfig(config Config) Option {
	return func(cfg *engineConfig) {
		cfg.config = config
	}
}

// WithPolicy overrides the policy derived from the configuration.
func WithPolicy(policy Policy) Option {
	return func(cfg *engineConfig) {
		cfg.policy = &policy
	}
}

// WithLogger attaches a logger shared by every component.
func WithLogger(logger Logger) Option {
	return func(cfg *engineConfig) {
		cfg.logger = logger
	}
}

// WithDictionaries registers the global variant dictionaries. It takes
// precedence over Config.DictionaryFile.
func WithDictionaries(set DictionarySet) Option {
	return func(cfg *engineConfig) {
		cfg.dictionaries = &set
	}
}

// WithLayoutOverrides replaces the layout override table. It takes precedence
// over Config.LayoutRulesFile.
func WithLayoutOverrides(rules LayoutRules) Option {
	return func(cfg *engineConfig) {
		clone := rules.Clone()
		cfg.layoutRules = &clone
	}
}

// WithLayouts replaces the layout catalog.
func WithLayouts(layouts []LayoutVariant) Option {
	return func(cfg *engineConfig) {
		cfg.layouts = append([]LayoutVariant(nil), layouts...)
	}
}

// WithEvaluator sets the evaluator used for layout expression rules.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *engineConfig) {
		cfg.evaluator = e
	}
}

// WithFunctionRegistry exposes additional functions to layout expressions.
// The default registry functions are added unless already registered.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *engineConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithProgramCache shares a compiled program cache with the evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *engineConfig) {
		cfg.programCache = cache
	}
}

func (cfg engineConfig) effectivePolicy() Policy {
	if cfg.policy != nil {
		return *cfg.policy
	}
	return cfg.config.Policy()
}

func (cfg engineConfig) effectiveLogger() Logger {
	return loggerOrNop(cfg.logger)
}

func (cfg engineConfig) registry() *FunctionRegistry {
	defaults := DefaultFunctionRegistry()
	if cfg.functions == nil {
		return defaults
	}
	merged := cfg.functions.Clone()
	for _, name := range defaults.Names() {
		fn := name
		_ = merged.Register(fn, func(args ...any) (any, error) {
			return defaults.Call(fn, args...)
		})
	}
	return merged
}
