package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctaVariants = []string{"Book", "Reserve", "Confirm"}

func TestCatalogCanonicalSeed(t *testing.T) {
	catalog := NewCatalog()
	assert.Equal(t, "Book", catalog.Get(1, "cta", Dictionary{"cta": ctaVariants}))
}

func TestCatalogSeededSelectionIsReproducible(t *testing.T) {
	catalog := NewCatalog()
	local := Dictionary{"cta": ctaVariants}
	index := SelectVariantIndex(7, "cta", len(ctaVariants))
	for i := 0; i < 100; i++ {
		assert.Equal(t, index, SelectVariantIndex(7, "cta", len(ctaVariants)))
	}
	assert.Equal(t, ctaVariants[index], catalog.Get(7, "cta", local))
	assert.Equal(t, "Confirm", catalog.Get(7, "cta", local))
}

func TestCatalogDisabledPolicyReturnsCanonical(t *testing.T) {
	catalog := NewCatalog(WithCatalogPolicy(DisabledPolicy()))
	for seed := 1; seed <= 50; seed++ {
		assert.Equal(t, "Book", catalog.Get(seed, "cta", Dictionary{"cta": ctaVariants}))
	}
}

func TestCatalogResolutionOrder(t *testing.T) {
	catalog := NewCatalog(
		WithIdentifierVariants(Dictionary{"cta": {"id-cta"}, "shared": {"id-shared"}}),
		WithClassVariants(Dictionary{"shared": {"class-shared"}, "panel": {"class-panel"}}),
		WithTextVariants(Dictionary{"panel": {"text-panel"}, "title": {"Welcome"}}),
	)

	res := catalog.Resolve(7, "cta", Dictionary{"cta": {"local-cta"}})
	assert.Equal(t, SourceLocal, res.Source)
	assert.Equal(t, "local-cta", res.Value)

	assert.Equal(t, "id-shared", catalog.Get(7, "shared", nil))
	assert.Equal(t, "class-panel", catalog.Get(7, "panel", nil))
	assert.Equal(t, "Welcome", catalog.Get(7, "title", nil))

	res = catalog.Resolve(7, "missing", nil, "Default")
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, "Default", res.Value)
	assert.True(t, res.Miss())

	res = catalog.Resolve(7, "missing", nil)
	assert.Equal(t, SourceKey, res.Source)
	assert.Equal(t, "missing", res.Value)
}

func TestCatalogEmptyLocalListFallsThrough(t *testing.T) {
	catalog := NewCatalog(WithTextVariants(Dictionary{"cta": {"global"}}))
	assert.Equal(t, "global", catalog.Get(7, "cta", Dictionary{"cta": {}}))
}

func TestCatalogLogsMissOutsideProduction(t *testing.T) {
	var events []LogEvent
	logger := LoggerFunc(func(event LogEvent) { events = append(events, event) })

	NewCatalog(WithCatalogLogger(logger)).Get(7, "nope", nil)
	require.Len(t, events, 1)
	assert.Equal(t, LogLevelWarn, events[0].Level)
	assert.Equal(t, "catalog", events[0].Component)
	assert.Equal(t, "nope", events[0].Key)

	events = nil
	NewCatalog(WithCatalogLogger(logger), WithProduction(true)).Get(7, "nope", nil)
	assert.Empty(t, events)
}

func TestCatalogWithReturnsCopy(t *testing.T) {
	base := NewCatalog(WithTextVariants(Dictionary{"title": {"Hello"}}))
	extended := base.With(SourceTexts, Dictionary{"title": {"Howdy"}})

	assert.Equal(t, "Hello", base.Get(1, "title", nil))
	assert.Equal(t, "Howdy", extended.Get(1, "title", nil))
	assert.Same(t, base, base.With(SourceLocal, Dictionary{"title": {"x"}}))
}

func TestCatalogOptionsCloneDictionaries(t *testing.T) {
	dict := Dictionary{"title": {"Hello"}}
	catalog := NewCatalog(WithTextVariants(dict))
	dict["title"][0] = "Mutated"
	assert.Equal(t, "Hello", catalog.Get(1, "title", nil))
}

func TestResolutionJSONRoundTrip(t *testing.T) {
	res := NewCatalog().Resolve(7, "cta", Dictionary{"cta": ctaVariants})
	payload, err := res.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"seed":7,"key":"cta","source":"local","index":2,"candidates":3,"value":"Confirm","canonical":false}`, string(payload))

	decoded, err := ResolutionFromJSON(payload)
	require.NoError(t, err)
	assert.Equal(t, res, decoded)
}

func TestNilCatalogUsesDefaults(t *testing.T) {
	var catalog *Catalog
	assert.Equal(t, "Book", catalog.Get(1, "cta", Dictionary{"cta": ctaVariants}))
	assert.Equal(t, DefaultPolicy(), catalog.Policy())
}
