package variation

// Dictionary maps a component key to its interchangeable variants. The first
// entry of every list is the canonical value.
type Dictionary map[string][]string

// Clone returns a deep copy of d.
func (d Dictionary) Clone() Dictionary {
	if d == nil {
		return nil
	}
	out := make(Dictionary, len(d))
	for key, values := range d {
		out[key] = append([]string(nil), values...)
	}
	return out
}

// Lookup returns the variants for key when present and non-empty.
func (d Dictionary) Lookup(key string) ([]string, bool) {
	if d == nil {
		return nil, false
	}
	values, ok := d[key]
	if !ok || len(values) == 0 {
		return nil, false
	}
	return values, true
}

// globalOrder is the search order for global dictionaries.
var globalOrder = []Source{SourceIdentifiers, SourceClasses, SourceTexts}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithIdentifierVariants registers the global identifier dictionary.
func WithIdentifierVariants(dict Dictionary) CatalogOption {
	return func(c *Catalog) {
		c.globals[SourceIdentifiers] = dict.Clone()
	}
}

// WithClassVariants registers the global class-name dictionary.
func WithClassVariants(dict Dictionary) CatalogOption {
	return func(c *Catalog) {
		c.globals[SourceClasses] = dict.Clone()
	}
}

// WithTextVariants registers the global text dictionary.
func WithTextVariants(dict Dictionary) CatalogOption {
	return func(c *Catalog) {
		c.globals[SourceTexts] = dict.Clone()
	}
}

// WithCatalogPolicy sets the variation policy used by the catalog.
func WithCatalogPolicy(policy Policy) CatalogOption {
	return func(c *Catalog) {
		c.policy = policy
	}
}

// WithCatalogLogger attaches a logger used for lookup-miss diagnostics.
func WithCatalogLogger(logger Logger) CatalogOption {
	return func(c *Catalog) {
		c.logger = loggerOrNop(logger)
	}
}

// WithProduction silences lookup-miss diagnostics.
func WithProduction(production bool) CatalogOption {
	return func(c *Catalog) {
		c.production = production
	}
}

// Catalog resolves (seed, key) pairs to one concrete variant. It is immutable
// after construction and safe for concurrent use.
type Catalog struct {
	policy     Policy
	globals    map[Source]Dictionary
	logger     Logger
	production bool
}

// NewCatalog builds a catalog with the default policy and no dictionaries.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		policy:  DefaultPolicy(),
		globals: make(map[Source]Dictionary, len(globalOrder)),
		logger:  noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// With returns a copy of c whose dictionary for source is replaced by dict.
// Only the global sources (identifiers, classes, texts) are accepted; any other
// source returns c unchanged.
func (c *Catalog) With(source Source, dict Dictionary) *Catalog {
	if c == nil {
		c = NewCatalog()
	}
	switch source {
	case SourceIdentifiers, SourceClasses, SourceTexts:
	default:
		return c
	}
	clone := &Catalog{
		policy:     c.policy,
		globals:    make(map[Source]Dictionary, len(c.globals)+1),
		logger:     c.logger,
		production: c.production,
	}
	for name, existing := range c.globals {
		clone.globals[name] = existing
	}
	clone.globals[source] = dict.Clone()
	return clone
}

// Policy returns the catalog's variation policy.
func (c *Catalog) Policy() Policy {
	if c == nil {
		return DefaultPolicy()
	}
	return c.policy
}

// Get returns the variant for key under seed. local takes precedence over the
// global dictionaries; the first fallback is used when no dictionary has the
// key, and the key itself is returned as a last resort.
func (c *Catalog) Get(seed int, key string, local Dictionary, fallback ...string) string {
	return c.Resolve(seed, key, local, fallback...).Value
}

// Resolve performs the same lookup as Get and reports where the value came
// from.
func (c *Catalog) Resolve(seed int, key string, local Dictionary, fallback ...string) Resolution {
	if c == nil {
		c = NewCatalog()
	}
	seed = c.policy.Normalize(seed)
	res := Resolution{Seed: seed, Key: key, Canonical: c.policy.Canonical(seed)}

	values, source, ok := c.lookup(key, local)
	if !ok {
		if len(fallback) > 0 {
			res.Source = SourceFallback
			res.Value = fallback[0]
		} else {
			res.Source = SourceKey
			res.Value = key
		}
		c.reportMiss(res)
		return res
	}

	res.Source = source
	res.Candidates = len(values)
	if res.Canonical {
		res.Value = values[0]
		return res
	}
	index := SelectVariantIndex(seed, key, len(values))
	if index < 0 || index >= len(values) {
		index = 0
	}
	res.Index = index
	res.Value = values[index]
	return res
}

func (c *Catalog) lookup(key string, local Dictionary) ([]string, Source, bool) {
	if values, ok := local.Lookup(key); ok {
		return values, SourceLocal, true
	}
	for _, source := range globalOrder {
		if values, ok := c.globals[source].Lookup(key); ok {
			return values, source, true
		}
	}
	return nil, "", false
}

func (c *Catalog) reportMiss(res Resolution) {
	if c.production {
		return
	}
	c.logger.Log(LogEvent{
		Level:     LogLevelWarn,
		Component: "catalog",
		Message:   "variant key not found in any dictionary",
		Seed:      res.Seed,
		Key:       res.Key,
		Fields:    map[string]any{"source": string(res.Source)},
	})
}
