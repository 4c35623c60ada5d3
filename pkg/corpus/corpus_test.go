package corpus

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleItems = []string{
	"apple iphone 15 pro",
	"Samsung Galaxy S24",
	"sony wh-1000xm5 headphones",
}

func TestDetectFileFormat(t *testing.T) {
	testCases := []struct {
		name       string
		format     FileFormat
		compressed bool
		err        bool
	}{
		{"items.txt", FormatText, false, false},
		{"dir/ITEMS.TXT", FormatText, false, false},
		{"items.list.lz4", FormatText, true, false},
		{"items.msgpack", FormatMsgpack, false, false},
		{"corpora/items.mp.lz4", FormatMsgpack, true, false},
		{"items.csv", FormatUnknown, false, true},
		{"items", FormatUnknown, false, true},
		{"items.lz4", FormatUnknown, true, true},
	}

	for _, tc := range testCases {
		format, compressed, err := DetectFileFormat(tc.name)
		assert.Equal(t, tc.format, format, tc.name)
		assert.Equal(t, tc.compressed, compressed, tc.name)
		if tc.err {
			assert.ErrorIs(t, err, ErrUnsupportedFormat, tc.name)
		} else {
			assert.NoError(t, err, tc.name)
		}
	}
}

func TestEncodeDecodeFormats(t *testing.T) {
	for _, name := range []string{"c.txt", "c.txt.lz4", "c.msgpack", "c.msgpack.lz4"} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, name, sampleItems))

			items, err := Decode(&buf, name)
			require.NoError(t, err)
			assert.Equal(t, sampleItems, items)
		})
	}
}

func TestDecodeTextSkipsBlankLines(t *testing.T) {
	input := "chrome\r\n\r\n  \nfirefox\n\nsafari browser"
	items, err := Decode(strings.NewReader(input), "browsers.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"chrome", "firefox", "safari browser"}, items)
}

func TestEncodeTextRejectsMultilineItems(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, "c.txt", []string{"one\ntwo"})
	assert.Error(t, err)
}

func TestDecodeCorruptLZ4(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not lz4"), "c.txt.lz4")
	assert.Error(t, err)
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.msgpack.lz4")
	require.NoError(t, SaveFile(path, sampleItems))

	items, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleItems, items)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveFile(filepath.Join(dir, "b.msgpack"), []string{"two", "three"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# ignored\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	items, err := LoadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, items)
}

func TestLoadEmptyDirectory(t *testing.T) {
	_, err := LoadFile(t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadLowercases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.txt")
	require.NoError(t, SaveFile(path, sampleItems))

	items, err := Load(context.Background(), path, Options{Lowercase: true})
	require.NoError(t, err)
	assert.Equal(t, "samsung galaxy s24", items[1])

	items, err = Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, sampleItems, items)
}

func TestLoadUnsupportedSource(t *testing.T) {
	for _, source := range []string{"", "ftp://host/items.txt", "s3://bucket", "s3:///key.txt", "sqlite://"} {
		_, err := Load(context.Background(), source, Options{})
		assert.ErrorIs(t, err, ErrUnsupportedSource, source)
	}
}

func TestLoadS3RejectsUnknownKeyFormat(t *testing.T) {
	_, err := Load(context.Background(), "s3://bucket/items.csv", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := parseS3URI("s3://corpora/products/items.txt.lz4")
	require.NoError(t, err)
	assert.Equal(t, "corpora", bucket)
	assert.Equal(t, "products/items.txt.lz4", key)
}

func TestParseSQLiteURI(t *testing.T) {
	path, query, err := parseSQLiteURI("sqlite:///data/items.db?query=SELECT name FROM products")
	require.NoError(t, err)
	assert.Equal(t, "/data/items.db", path)
	assert.Equal(t, "SELECT name FROM products", query)

	path, query, err = parseSQLiteURI("sqlite://items.db")
	require.NoError(t, err)
	assert.Equal(t, "items.db", path)
	assert.Equal(t, defaultSQLiteQuery, query)
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT, price REAL)`)
	require.NoError(t, err)
	for i, name := range []any{"Nikon Z9 Camera", nil, "gopro hero 12"} {
		_, err = db.Exec(`INSERT INTO products (id, name, price) VALUES (?, ?, ?)`, i+1, name, 9.99)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	source := "sqlite://" + path + "?query=SELECT name, price FROM products ORDER BY id"
	items, err := Load(context.Background(), source, Options{Lowercase: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"nikon z9 camera", "gopro hero 12"}, items)
}

func TestPrepareCopies(t *testing.T) {
	in := []string{"ABC"}
	out := Prepare(in, false)
	out[0] = "changed"
	assert.Equal(t, "ABC", in[0])
	assert.Equal(t, []string{"abc"}, Prepare(in, true))
}
