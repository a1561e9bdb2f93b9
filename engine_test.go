package variation

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineDefaults(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	assert.Equal(t, DefaultPolicy(), engine.Policy())
	assert.Equal(t, "Book", engine.Variant(1, "cta", Dictionary{"cta": ctaVariants}))
	assert.Equal(t, "Confirm", engine.Variant(7, "cta", Dictionary{"cta": ctaVariants}))
	assert.Equal(t, 0, engine.VariantIndex(1, "cta", 3))
	assert.Equal(t, 2, engine.VariantIndex(7, "cta", 3))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, engine.Order(1, "list", 5))
	assert.Equal(t, 7, engine.Layout(42).ID)
	assert.True(t, engine.Plan(1, "cta").Identity())
	assert.Equal(t, "wrap-cta-8848", engine.ID(7, "cta", "wrap"))
	assert.Equal(t, 1, engine.NormalizeSeed(999))
}

func TestEngineDisabledPolicyIsCanonicalEverywhere(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	engine, err := New(WithConfig(cfg))
	require.NoError(t, err)

	for seed := 1; seed <= 40; seed++ {
		assert.Equal(t, "Book", engine.Variant(seed, "cta", Dictionary{"cta": ctaVariants}))
		assert.Equal(t, 0, engine.VariantIndex(seed, "cta", 3))
		assert.Equal(t, []int{0, 1, 2}, engine.Order(seed, "list", 3))
		assert.True(t, engine.Plan(seed, "search-form").Identity())
		assert.Equal(t, CanonicalLayoutID, engine.Layout(seed).ID)
	}
}

func TestEngineLoadsFilesFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DictionaryFile = "testdata/dictionaries.json"
	cfg.LayoutRulesFile = "testdata/layout_rules.json"
	engine, err := New(WithConfig(cfg))
	require.NoError(t, err)

	assert.Equal(t, "book-btn", engine.Variant(1, "cta", nil))
	assert.Equal(t, 5, engine.Layout(205).ID)
	assert.Equal(t, 8, engine.Layout(10).ID)
	assert.Equal(t, 6, engine.Layout(165).ID, "default range rule replaced")
}

func TestEngineOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	registry := NewFunctionRegistry()
	require.NoError(t, registry.Register("is_even", func(args ...any) (any, error) {
		seed, err := toInt(args[0])
		if err != nil {
			return nil, err
		}
		return seed%2 == 0, nil
	}))

	engine, err := New(
		WithPolicy(Policy{Enabled: true, MaxSeed: 50}),
		WithLogger(logger),
		WithDictionaries(DictionarySet{Texts: Dictionary{"title": {"Hello", "Hi"}}}),
		WithLayoutOverrides(LayoutRules{Expressions: []ExpressionRule{{Expr: "is_even(seed) && variant_index(seed, \"x\", 1) == 0", Variant: 4}}}),
		WithFunctionRegistry(registry),
		WithProgramCache(NewMemoryProgramCache()),
	)
	require.NoError(t, err)

	assert.Equal(t, 50, engine.Policy().MaxSeed)
	assert.Equal(t, 4, engine.Layout(2).ID)
	assert.Equal(t, DefaultLayoutFor(3), engine.Layout(3).ID)
	assert.Equal(t, CanonicalLayoutID, engine.Layout(60).ID)
	assert.Equal(t, "Hello", engine.Variant(1, "title", nil))

	engine.Variant(5, "missing", nil)
	assert.Contains(t, buf.String(), `"component":"catalog"`)
	assert.Contains(t, buf.String(), `"key":"missing"`)
}

func TestEngineErrors(t *testing.T) {
	_, err := New(WithDictionaries(DictionarySet{Texts: Dictionary{"cta": {}}}))
	assert.ErrorIs(t, err, ErrEmptyVariants)

	cfg := DefaultConfig()
	cfg.Evaluator = "lua"
	_, err = New(WithConfig(cfg))
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.LayoutRulesFile = "testdata/missing.json"
	_, err = New(WithConfig(cfg))
	assert.ErrorContains(t, err, "open layout rules")

	rules := DefaultLayoutRules()
	rules.Exact[3] = 40
	_, err = New(WithLayoutOverrides(rules))
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestEngineJSEvaluatorAvailability(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Evaluator = EvaluatorJS
	engine, err := New(WithConfig(cfg))
	if JSEvaluatorAvailable() {
		require.NoError(t, err)
		assert.NotNil(t, engine)
		return
	}
	assert.ErrorContains(t, err, "js_eval")
}
