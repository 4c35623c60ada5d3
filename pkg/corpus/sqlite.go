package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const (
	sqliteScheme       = "sqlite://"
	defaultSQLiteQuery = "SELECT item FROM items"
)

// parseSQLiteURI splits sqlite://<path>?query=<sql>. The query parameter is
// optional and defaults to selecting the item column of an items table.
func parseSQLiteURI(uri string) (path, query string, err error) {
	rest, ok := strings.CutPrefix(uri, sqliteScheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedSource, uri)
	}

	path, rawQuery, _ := strings.Cut(rest, "?")
	if path == "" {
		return "", "", fmt.Errorf("%w: missing database path in %s", ErrUnsupportedSource, uri)
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}
	query = values.Get("query")
	if query == "" {
		query = defaultSQLiteQuery
	}
	return path, query, nil
}

// loadSQLite runs the query and collects the first column of every row.
// NULL values are skipped.
func loadSQLite(ctx context.Context, uri string) ([]string, error) {
	path, query, err := parseSQLiteURI(uri)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	log.Debugf("Querying corpus from %s: %s", path, query)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("query returned no columns: %s", query)
	}

	var item sql.NullString
	dest := make([]any, len(columns))
	dest[0] = &item
	for i := 1; i < len(dest); i++ {
		dest[i] = new(any)
	}

	var items []string
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if item.Valid {
			items = append(items, item.String)
		}
	}
	return items, rows.Err()
}
