package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/quickmatch/pkg/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), reloaded)
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[matcher]
limit = 10
trigram_budget = 9
separators = "_-. "

[corpus]
source = "s3://bucket/items.txt"
lowercase = false

[corpus.s3]
region = "eu-west-1"
endpoint = "http://localhost:9000"

[log]
level = "debug"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Matcher.Limit)
	assert.Equal(t, 9, cfg.Matcher.TrigramBudget)
	assert.Equal(t, "_-. ", cfg.Matcher.Separators)
	assert.Equal(t, "s3://bucket/items.txt", cfg.Corpus.Source)
	assert.False(t, cfg.Corpus.Lowercase)
	assert.Equal(t, "eu-west-1", cfg.Corpus.S3.Region)
	assert.Equal(t, "http://localhost:9000", cfg.Corpus.S3.Endpoint)
	assert.Equal(t, "debug", cfg.Log.Level)

	// untouched sections keep their defaults
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
	assert.Equal(t, DefaultConfig().CLI, cfg.CLI)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
matcher:
  limit: 5
  trigram_budget: 3
server:
  enable_cache: false
  cache_size: 64
cli:
  show_timing: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Matcher.Limit)
	assert.Equal(t, 3, cfg.Matcher.TrigramBudget)
	assert.Equal(t, matcher.DefaultSeparators, cfg.Matcher.Separators)
	assert.False(t, cfg.Server.EnableCache)
	assert.Equal(t, 64, cfg.Server.CacheSize)
	assert.False(t, cfg.CLI.ShowTiming)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// limit has the wrong type; everything else is valid
	path := writeFile(t, "config.toml", `
[matcher]
limit = "many"
trigram_budget = 12

[server]
cache_size = 8
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, matcher.DefaultLimit, cfg.Matcher.Limit)
	assert.Equal(t, 12, cfg.Matcher.TrigramBudget)
	assert.Equal(t, 8, cfg.Server.CacheSize)
}

func TestLoadConfigUnparsableFallsBack(t *testing.T) {
	path := writeFile(t, "config.toml", "[matcher\nlimit = ")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeFile(t, "custom.toml", "[matcher]\nlimit = 3\n")

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 3, cfg.Matcher.Limit)
}

func TestMatcherConfigClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Matcher.Limit = 0
	cfg.Matcher.TrigramBudget = 99
	cfg.Matcher.Separators = "."

	mc := cfg.MatcherConfig()
	assert.Equal(t, 1, mc.Limit())
	assert.Equal(t, matcher.MaxTrigramBudget, mc.TrigramBudget())
	assert.Equal(t, ".", mc.Separators())
}

func TestUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()

	limit, budget, seps := 7, 0, "-"
	require.NoError(t, cfg.Update(path, &limit, &budget, &seps))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.Matcher.Limit)
	assert.Equal(t, 0, reloaded.Matcher.TrigramBudget)
	assert.Equal(t, "-", reloaded.Matcher.Separators)
}

func TestUpdateInMemoryOnly(t *testing.T) {
	cfg := DefaultConfig()
	limit := 12
	require.NoError(t, cfg.Update("", &limit, nil, nil))
	assert.Equal(t, 12, cfg.Matcher.Limit)
	assert.Equal(t, matcher.DefaultTrigramBudget, cfg.Matcher.TrigramBudget)
}

func TestHistoryPathAbsolute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CLI.HistoryFile = "/tmp/qm-history"
	assert.Equal(t, "/tmp/qm-history", cfg.HistoryPath())

	cfg.CLI.HistoryFile = ""
	assert.Empty(t, cfg.HistoryPath())
}
