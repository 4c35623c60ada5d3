package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// FileFormat represents the supported corpus file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one item per line
	FormatMsgpack            // msgpack array of strings
)

// lz4Ext marks an lz4 frame around either format, e.g. items.txt.lz4.
const lz4Ext = ".lz4"

var (
	// ErrUnsupportedFormat is returned for names whose extension maps to no format.
	ErrUnsupportedFormat = errors.New("unsupported corpus format")
	// ErrUnsupportedSource is returned for malformed or unknown source URIs.
	ErrUnsupportedSource = errors.New("unsupported corpus source")
)

// FormatInfo contains metadata about a corpus file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
}

var supportedFormats = []FormatInfo{
	{
		Format:      FormatText,
		Description: "Plain text, one item per line",
		Extensions:  []string{".txt", ".list"},
	},
	{
		Format:      FormatMsgpack,
		Description: "MessagePack string array",
		Extensions:  []string{".msgpack", ".mp"},
	},
}

func (f FileFormat) String() string {
	if info, ok := GetFormatInfo(f); ok {
		return info.Description
	}
	return "unknown"
}

// DetectFileFormat maps a file name or object key to its format and reports
// whether the content is lz4 compressed.
func DetectFileFormat(name string) (FileFormat, bool, error) {
	lower := strings.ToLower(name)
	compressed := strings.HasSuffix(lower, lz4Ext)
	lower = strings.TrimSuffix(lower, lz4Ext)

	ext := path.Ext(lower)
	for _, info := range supportedFormats {
		for _, candidate := range info.Extensions {
			if ext == candidate {
				return info.Format, compressed, nil
			}
		}
	}
	return FormatUnknown, compressed, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	for _, info := range supportedFormats {
		if info.Format == format {
			return info, true
		}
	}
	return FormatInfo{}, false
}

// ListSupportedFormats returns all supported formats
func ListSupportedFormats() []FormatInfo {
	return append([]FormatInfo(nil), supportedFormats...)
}

// Decode reads items from r, using name to pick the format.
//
// Text input yields one item per line with trailing carriage returns
// stripped. Blank lines are skipped.
func Decode(r io.Reader, name string) ([]string, error) {
	format, compressed, err := DetectFileFormat(name)
	if err != nil {
		return nil, err
	}
	if compressed {
		r = lz4.NewReader(r)
	}

	var items []string
	switch format {
	case FormatText:
		items, err = decodeText(r)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&items)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	log.Debugf("Decoded %d items from %s (%s, lz4=%t)", len(items), name, format, compressed)
	return items, nil
}

func decodeText(r io.Reader) ([]string, error) {
	var items []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, line)
	}
	return items, scanner.Err()
}

// Encode writes items to w in the format named by name.
func Encode(w io.Writer, name string, items []string) error {
	format, compressed, err := DetectFileFormat(name)
	if err != nil {
		return err
	}

	var zw *lz4.Writer
	if compressed {
		zw = lz4.NewWriter(w)
		w = zw
	}

	switch format {
	case FormatText:
		err = encodeText(w, items)
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(items)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if zw != nil {
		return zw.Close()
	}
	return nil
}

func encodeText(w io.Writer, items []string) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		if strings.ContainsAny(item, "\r\n") {
			return fmt.Errorf("item %q spans lines", item)
		}
		bw.WriteString(item)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
