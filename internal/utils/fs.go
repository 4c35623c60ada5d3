package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// DirCheckResult is what CheckDirStatus found out about a config dir candidate.
type DirCheckResult struct {
	Exists   bool
	Writable bool
	Error    error
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dirPath and any missing parents.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// IsYAMLPath reports whether a config path should be read and written as YAML.
// Everything else is treated as TOML.
func IsYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveConfigFile encodes data as TOML or YAML depending on the file extension.
// The data goes to a temp file in the same directory, which is then renamed
// over filePath.
func SaveConfigFile(data any, filePath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".config-*")
	if err != nil {
		log.Errorf("Failed to create temp config file: %v", err)
		return err
	}
	defer os.Remove(tmp.Name())

	if err := encodeConfig(tmp, data, IsYAMLPath(filePath)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}

func encodeConfig(w io.Writer, data any, asYAML bool) error {
	if !asYAML {
		return toml.NewEncoder(w).Encode(data)
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if !filepath.IsAbs(path) {
		if absPath, err := filepath.Abs(path); err == nil {
			return absPath
		}
	}
	return path
}

func canWrite(dirPath string) bool {
	probe, err := os.CreateTemp(dirPath, ".quickmatch-write-*")
	if err != nil {
		log.Warnf("Directory %s is not writable: %v", dirPath, err)
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	return true
}

// GetExecutableDir returns the directory of the current executable.
// Config lookup falls back to it when no home directory is available.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus creates dirPath if needed and tests that it is writable.
func CheckDirStatus(dirPath string) DirCheckResult {
	if err := EnsureDir(dirPath); err != nil {
		log.Warnf("Skipping config dir %s: %v", dirPath, err)
		return DirCheckResult{Error: err}
	}
	return DirCheckResult{Exists: true, Writable: canWrite(dirPath)}
}
