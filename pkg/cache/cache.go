// Package cache keeps recent match results keyed by query and matcher config.
package cache

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/bastiangx/quickmatch/pkg/matcher"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Key builds the cache key for a normalized query under cfg. The query goes
// last so that entries for one config share a trie prefix.
func Key(cfg matcher.Config, normalizedQuery string) string {
	var b strings.Builder
	b.Grow(len(normalizedQuery) + len(cfg.Separators()) + 16)
	b.WriteString(strconv.Itoa(cfg.Limit()))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(cfg.TrigramBudget()))
	b.WriteByte('|')
	b.WriteString(strconv.Quote(cfg.Separators()))
	b.WriteByte('|')
	b.WriteString(normalizedQuery)
	return b.String()
}

type entry struct {
	results    []string
	lastAccess int64
}

// ResultCache is a bounded LRU of match results stored in a patricia trie.
type ResultCache struct {
	trie        *patricia.Trie
	accessCount int64
	maxEntries  int
	entries     int
	hits        int
	misses      int
	mu          sync.Mutex
}

// New returns a cache holding at most maxEntries results. Values below 1 become 1.
func New(maxEntries int) *ResultCache {
	return &ResultCache{
		trie:       patricia.NewTrie(),
		maxEntries: max(maxEntries, 1),
	}
}

// Get returns the cached results for key. A hit refreshes the entry.
func (rc *ResultCache) Get(key string) ([]string, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	item := rc.trie.Get(patricia.Prefix(key))
	if item == nil {
		rc.misses++
		return nil, false
	}

	e := item.(*entry)
	e.lastAccess = rc.nextAccessTime()
	rc.hits++
	return e.results, true
}

// Put stores results under key, evicting the least recently used entry when full.
// Callers must not modify results afterwards.
func (rc *ResultCache) Put(key string, results []string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	prefix := patricia.Prefix(key)
	if item := rc.trie.Get(prefix); item != nil {
		e := item.(*entry)
		e.results = results
		e.lastAccess = rc.nextAccessTime()
		return
	}

	if rc.entries >= rc.maxEntries {
		rc.evictLRU()
	}

	rc.trie.Insert(prefix, &entry{results: results, lastAccess: rc.nextAccessTime()})
	rc.entries++
}

// Purge drops every entry. Hit and miss counters are kept.
func (rc *ResultCache) Purge() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.trie = patricia.NewTrie()
	rc.entries = 0
	log.Debug("Purged result cache")
}

// Len returns the number of cached entries.
func (rc *ResultCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.entries
}

func (rc *ResultCache) Stats() map[string]int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"entries": rc.entries,
		"max":     rc.maxEntries,
		"hits":    rc.hits,
		"misses":  rc.misses,
	}
}

func (rc *ResultCache) nextAccessTime() int64 {
	rc.accessCount++
	return rc.accessCount
}

func (rc *ResultCache) evictLRU() {
	var oldestKey patricia.Prefix
	var oldestTime int64 = math.MaxInt64

	rc.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		if e := item.(*entry); e.lastAccess < oldestTime {
			oldestTime = e.lastAccess
			oldestKey = append(oldestKey[:0], prefix...)
		}
		return nil
	})

	if oldestKey != nil && rc.trie.Delete(oldestKey) {
		rc.entries--
		log.Debugf("Evicted '%s' from result cache", oldestKey)
	}
}
