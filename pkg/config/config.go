/*
Package config manages the TOML (or YAML) config for QuickMatch.

The file is created with defaults on first run. A file that fails to parse
is recovered section by section, and anything unreadable falls back to the
built-in defaults, so loading config never stops the program.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/quickmatch/internal/utils"
	"github.com/bastiangx/quickmatch/pkg/matcher"
	"github.com/charmbracelet/log"
)

const appDir = "quickmatch"

// Config mirrors the config file.
type Config struct {
	Matcher MatcherConfig `toml:"matcher" yaml:"matcher"`
	Corpus  CorpusConfig  `toml:"corpus" yaml:"corpus"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	CLI     CliConfig     `toml:"cli" yaml:"cli"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// MatcherConfig holds the matching knobs.
type MatcherConfig struct {
	Limit         int    `toml:"limit" yaml:"limit"`
	TrigramBudget int    `toml:"trigram_budget" yaml:"trigram_budget"`
	Separators    string `toml:"separators" yaml:"separators"`
}

// CorpusConfig describes where the items come from.
type CorpusConfig struct {
	Source    string   `toml:"source" yaml:"source"`
	Lowercase bool     `toml:"lowercase" yaml:"lowercase"`
	S3        S3Config `toml:"s3" yaml:"s3"`
}

// S3Config holds optional S3 overrides. Empty values use the AWS defaults chain.
type S3Config struct {
	Region    string `toml:"region" yaml:"region"`
	Endpoint  string `toml:"endpoint" yaml:"endpoint"`
	AccessKey string `toml:"access_key" yaml:"access_key"`
	SecretKey string `toml:"secret_key" yaml:"secret_key"`
}

// ServerConfig controls the IPC server.
type ServerConfig struct {
	EnableCache bool `toml:"enable_cache" yaml:"enable_cache"`
	CacheSize   int  `toml:"cache_size" yaml:"cache_size"`
}

// CliConfig controls the interactive CLI.
type CliConfig struct {
	HistoryFile string `toml:"history_file" yaml:"history_file"`
	ShowTiming  bool   `toml:"show_timing" yaml:"show_timing"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Matcher: MatcherConfig{
			Limit:         matcher.DefaultLimit,
			TrigramBudget: matcher.DefaultTrigramBudget,
			Separators:    matcher.DefaultSeparators,
		},
		Corpus: CorpusConfig{
			Lowercase: true,
		},
		Server: ServerConfig{
			EnableCache: true,
			CacheSize:   1024,
		},
		CLI: CliConfig{
			HistoryFile: "history",
			ShowTiming:  true,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// MatcherConfig converts the [matcher] section into a clamped matcher.Config.
func (c *Config) MatcherConfig() matcher.Config {
	return matcher.NewConfig().
		WithLimit(c.Matcher.Limit).
		WithTrigramBudget(c.Matcher.TrigramBudget).
		WithSeparators(c.Matcher.Separators)
}

// GetConfigDir returns the first writable config directory out of
// ~/.config/quickmatch, ~/Library/Application Support/quickmatch and the
// directory of the running executable.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("No home directory (%v), keeping config next to the executable", err)
		return utils.GetExecutableDir()
	}

	candidates := []string{
		filepath.Join(homeDir, ".config", appDir),
		filepath.Join(homeDir, "Library", "Application Support", appDir),
	}
	for _, dir := range candidates {
		if utils.CheckDirStatus(dir).Writable {
			return dir, nil
		}
	}
	return utils.GetExecutableDir()
}

// GetDefaultConfigPath returns config.toml in the config dir, or config.yaml
// if only that one exists.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	tomlPath := filepath.Join(configDir, "config.toml")
	yamlPath := filepath.Join(configDir, "config.yaml")
	if !utils.FileExists(tomlPath) && utils.FileExists(yamlPath) {
		return yamlPath, nil
	}
	return tomlPath, nil
}

// LoadConfigWithPriority returns the config to run with and the file it came
// from. A custom path wins if it loads; then the default path, created on
// first run; then the built-in defaults with an empty path.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		config, err := LoadConfig(customConfigPath)
		if err == nil {
			log.Debugf("Loaded config from custom path: %s", customConfigPath)
			return config, customConfigPath, nil
		}
		log.Warnf("Ignoring config %s: %v", customConfigPath, err)
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("No usable config dir (%v), running on defaults", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Config %s unusable (%v), running on defaults", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads configPath, writing the defaults there first if the file
// does not exist yet. Failures are logged and answered with the defaults.
func InitConfig(configPath string) (*Config, error) {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		log.Warnf("Cannot create config dir for %s: %v", configPath, err)
		return DefaultConfig(), nil
	}

	if utils.FileExists(configPath) {
		config, err := LoadConfig(configPath)
		if err != nil {
			log.Warnf("Cannot read config %s: %v", configPath, err)
			return DefaultConfig(), nil
		}
		return config, nil
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		log.Warnf("Cannot write default config to %s: %v", configPath, err)
		return config, nil
	}
	log.Debugf("Wrote default config to %s", configPath)
	return config, nil
}

// LoadConfig loads from a TOML or YAML file, chosen by extension.
// Keys missing from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadConfigFile(configPath, config); err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every section and key that still decodes.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseWithRecovery(configPath)
	if err != nil {
		log.Warnf("Nothing recoverable in %s (%v), using defaults", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "matcher"); ok {
		extractMatcherConfig(section, &config.Matcher)
	}
	if section, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(section, &config.Corpus)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	if section, ok := utils.ExtractSection(tempConfig, "log"); ok {
		if val, ok := utils.ExtractString(section, "level"); ok {
			config.Log.Level = val
		}
	}
	return config, nil
}

func extractMatcherConfig(data map[string]any, m *MatcherConfig) {
	if val, ok := utils.ExtractInt(data, "limit"); ok {
		m.Limit = val
	}
	if val, ok := utils.ExtractInt(data, "trigram_budget"); ok {
		m.TrigramBudget = val
	}
	if val, ok := utils.ExtractString(data, "separators"); ok {
		m.Separators = val
	}
}

func extractCorpusConfig(data map[string]any, c *CorpusConfig) {
	if val, ok := utils.ExtractString(data, "source"); ok {
		c.Source = val
	}
	if val, ok := utils.ExtractBool(data, "lowercase"); ok {
		c.Lowercase = val
	}
	if s3, ok := utils.ExtractSection(data, "s3"); ok {
		if val, ok := utils.ExtractString(s3, "region"); ok {
			c.S3.Region = val
		}
		if val, ok := utils.ExtractString(s3, "endpoint"); ok {
			c.S3.Endpoint = val
		}
		if val, ok := utils.ExtractString(s3, "access_key"); ok {
			c.S3.AccessKey = val
		}
		if val, ok := utils.ExtractString(s3, "secret_key"); ok {
			c.S3.SecretKey = val
		}
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractBool(data, "enable_cache"); ok {
		server.EnableCache = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		server.CacheSize = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractString(data, "history_file"); ok {
		cli.HistoryFile = val
	}
	if val, ok := utils.ExtractBool(data, "show_timing"); ok {
		cli.ShowTiming = val
	}
}

// RebuildConfigFile overwrites the default config file with DefaultConfig.
func RebuildConfigFile() error {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return fmt.Errorf("locating default config: %w", err)
	}
	return SaveConfig(DefaultConfig(), path)
}

// GetActiveConfigPath is configPath made absolute for display. An empty
// path stands for the default location.
func GetActiveConfigPath(configPath string) string {
	if configPath != "" {
		return utils.GetAbsolutePath(configPath)
	}
	path, err := GetDefaultConfigPath()
	if err != nil {
		return "unknown"
	}
	return path
}

// HistoryPath resolves the CLI history file. Relative names live in the
// config dir; an empty name disables history.
func (c *Config) HistoryPath() string {
	name := c.CLI.HistoryFile
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	dir, err := GetConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, name)
}

// SaveConfig saves into a TOML or YAML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveConfigFile(config, configPath)
}

// Update changes the matcher values and saves to file. Nil values are left
// as they are; an empty configPath only updates the in-memory Config.
func (c *Config) Update(configPath string, limit, budget *int, separators *string) error {
	m := &c.Matcher
	if limit != nil {
		m.Limit = *limit
	}
	if budget != nil {
		m.TrigramBudget = *budget
	}
	if separators != nil {
		m.Separators = *separators
	}
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
