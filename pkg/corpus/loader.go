/*
Package corpus loads and saves the item lists a matcher is built from.

A source is one of:

	items.txt                 local file (.txt, .list, .msgpack, .mp, optionally .lz4)
	corpora/                  directory, every supported file in name order
	s3://bucket/key.txt.lz4   S3 object, format taken from the key
	sqlite://items.db?query=SELECT name FROM products

The matcher expects lowercase items; Options.Lowercase folds them on load.
*/
package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configures Load.
type Options struct {
	// S3 settings. Empty values fall back to the AWS default chain.
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string

	// Lowercase folds every item after loading.
	Lowercase bool
}

// Load reads items from source and prepares them according to opts.
func Load(ctx context.Context, source string, opts Options) ([]string, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrUnsupportedSource)
	}

	var items []string
	var err error
	switch {
	case strings.HasPrefix(source, s3Scheme):
		items, err = loadS3(ctx, source, opts)
	case strings.HasPrefix(source, sqliteScheme):
		items, err = loadSQLite(ctx, source)
	case strings.Contains(source, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	default:
		items, err = LoadFile(source)
	}
	if err != nil {
		return nil, err
	}

	log.Debugf("Loaded %d items from %s", len(items), source)
	return Prepare(items, opts.Lowercase), nil
}

// LoadFile reads a local corpus file, or every supported file of a directory.
func LoadFile(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat corpus %s: %w", path, err)
	}
	if info.IsDir() {
		return loadDir(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus %s: %w", path, err)
	}
	defer file.Close()

	return Decode(file, path)
}

// loadDir concatenates the supported files of dir in file name order.
// Subdirectories and unknown extensions are skipped.
func loadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus dir %s: %w", dir, err)
	}

	var items []string
	files := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := filepath.Join(dir, entry.Name())
		if _, _, err := DetectFileFormat(name); err != nil {
			log.Debugf("Skipping %s: %v", name, err)
			continue
		}

		part, err := LoadFile(name)
		if err != nil {
			return nil, err
		}
		items = append(items, part...)
		files++
	}

	if files == 0 {
		return nil, fmt.Errorf("%w: no corpus files in %s", ErrUnsupportedFormat, dir)
	}
	log.Debugf("Loaded %d corpus files from %s", files, dir)
	return items, nil
}

// SaveFile writes items to path in the format its extension names.
func SaveFile(path string, items []string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	return Encode(file, path, items)
}

// Prepare returns a copy of items, lowercased when lowercase is set.
func Prepare(items []string, lowercase bool) []string {
	prepared := make([]string, len(items))
	for i, item := range items {
		if lowercase {
			item = strings.ToLower(item)
		}
		prepared[i] = item
	}
	return prepared
}
