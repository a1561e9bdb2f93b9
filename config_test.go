package variation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "variation.env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeEnvFile(t, `
VARIATION_ENABLED=false
VARIATION_MAX_SEED=120
VARIATION_ENV=production
VARIATION_SETTLE_DELAY=10ms
VARIATION_DICTIONARY_FILE=testdata/dictionaries.json
VARIATION_EVALUATOR=CEL
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 120, cfg.MaxSeed)
	assert.True(t, cfg.Production)
	assert.Equal(t, 10*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, "testdata/dictionaries.json", cfg.DictionaryFile)
	assert.Equal(t, EvaluatorCEL, cfg.Evaluator)
	assert.Equal(t, Policy{Enabled: false, MaxSeed: 120}, cfg.Policy())
}

func TestLoadConfigEnvironmentOverridesFile(t *testing.T) {
	path := writeEnvFile(t, "VARIATION_MAX_SEED=120\n")
	t.Setenv(EnvMaxSeed, "50")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxSeed)
	assert.True(t, cfg.Enabled)
}

func TestLoadConfigDefaultsWithoutDotenv(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	for _, body := range []string{
		"VARIATION_ENABLED=maybe\n",
		"VARIATION_MAX_SEED=lots\n",
		"VARIATION_MAX_SEED=0\n",
		"VARIATION_SETTLE_DELAY=soon\n",
		"VARIATION_SETTLE_DELAY=-1s\n",
		"VARIATION_EVALUATOR=lua\n",
	} {
		_, err := LoadConfig(writeEnvFile(t, body))
		assert.Error(t, err, body)
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
