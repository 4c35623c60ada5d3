package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Section struct {
		Name    string `toml:"name" yaml:"name"`
		Count   int    `toml:"count" yaml:"count"`
		Enabled bool   `toml:"enabled" yaml:"enabled"`
	} `toml:"section" yaml:"section"`
}

func TestSaveAndLoadConfigFile(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			var in sample
			in.Section.Name = "quick"
			in.Section.Count = 42
			in.Section.Enabled = true
			require.NoError(t, SaveConfigFile(in, path))
			assert.True(t, FileExists(path))

			var out sample
			require.NoError(t, LoadConfigFile(path, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestSaveConfigFileReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("stale = true\n"), 0644))

	var in sample
	in.Section.Name = "fresh"
	require.NoError(t, SaveConfigFile(in, path))

	var out sample
	require.NoError(t, LoadConfigFile(path, &out))
	assert.Equal(t, "fresh", out.Section.Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestParseWithRecovery(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "c.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[section]\nname = \"x\"\ncount = 3\nenabled = true\n"), 0644))
	yamlPath := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("section:\n  name: x\n  count: 3\n  enabled: true\n"), 0644))

	for _, path := range []string{tomlPath, yamlPath} {
		data, err := ParseWithRecovery(path)
		require.NoError(t, err, path)

		section, ok := ExtractSection(data, "section")
		require.True(t, ok, path)

		name, ok := ExtractString(section, "name")
		assert.True(t, ok)
		assert.Equal(t, "x", name)

		count, ok := ExtractInt(section, "count")
		assert.True(t, ok)
		assert.Equal(t, 3, count)

		on, ok := ExtractBool(section, "enabled")
		assert.True(t, ok)
		assert.True(t, on)

		_, ok = ExtractInt(section, "name")
		assert.False(t, ok)
	}
}

func TestParseWithRecoveryInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[section\nname = "), 0644))

	_, err := ParseWithRecovery(path)
	assert.Error(t, err)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	result := CheckDirStatus(dir)
	assert.NoError(t, result.Error)
	assert.True(t, result.Exists)
	assert.True(t, result.Writable)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe must be removed")
}

func TestIsYAMLPath(t *testing.T) {
	assert.True(t, IsYAMLPath("a/b/config.YAML"))
	assert.True(t, IsYAMLPath("config.yml"))
	assert.False(t, IsYAMLPath("config.toml"))
	assert.False(t, IsYAMLPath("config"))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{}, CreateRankList(0))
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
	ranks := CreateRankList(70000)
	assert.Equal(t, uint16(65535), ranks[len(ranks)-1])
}

func TestFormatWithCommas(t *testing.T) {
	testCases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		123456:   "123,456",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, want := range testCases {
		assert.Equal(t, want, FormatWithCommas(n))
	}
}
