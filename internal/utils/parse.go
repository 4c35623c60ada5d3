package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// LoadConfigFile decodes a TOML or YAML file into config.
func LoadConfigFile(configPath string, config any) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	if IsYAMLPath(configPath) {
		err = yaml.Unmarshal(data, config)
	} else {
		_, err = toml.Decode(string(data), config)
	}
	if err != nil {
		log.Warnf("Parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
		return err
	}
	return nil
}

// ParseWithRecovery decodes a config file into a generic map so that the
// sections that are still valid can be picked out one by one.
func ParseWithRecovery(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	tempConfig := make(map[string]any)
	if IsYAMLPath(configPath) {
		err = yaml.Unmarshal(data, &tempConfig)
	} else {
		_, err = toml.Decode(string(data), &tempConfig)
	}
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", configPath, err)
		return nil, err
	}
	return tempConfig, nil
}

// ExtractSection extracts a specific section from parsed config data
func ExtractSection(data map[string]any, sectionName string) (map[string]any, bool) {
	section, ok := data[sectionName].(map[string]any)
	return section, ok
}

// ExtractInt extracts an integer. TOML decodes integers as int64, YAML as int.
func ExtractInt(data map[string]any, key string) (int, bool) {
	switch val := data[key].(type) {
	case int64:
		return int(val), true
	case int:
		return val, true
	}
	return 0, false
}

// ExtractBool safely extracts a bool value from a map
func ExtractBool(data map[string]any, key string) (bool, bool) {
	if val, ok := data[key].(bool); ok {
		return val, true
	}
	return false, false
}

// ExtractString safely extracts a string value from a map
func ExtractString(data map[string]any, key string) (string, bool) {
	if val, ok := data[key].(string); ok {
		return val, true
	}
	return "", false
}
