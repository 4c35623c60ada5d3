/*
Package matcher implements an in-memory fuzzy matcher for search-as-you-type
over a fixed corpus of short strings.

A Matcher indexes the corpus once, building a word index and a trigram
index, and answers each query with a bounded amount of work so it can run
on every keystroke:

	m := matcher.New(items, matcher.NewConfig())
	results := m.Match("chrom") // ["chrome"]

# Matching

Queries are normalized (see Normalize) and split into words. Words found in
the word index are intersected to get exact matches. Unknown words of three
or more characters are matched through a handful of sampled trigrams; the
number of trigram lookups never exceeds the configured budget, regardless
of corpus size.

Exact-only results are ranked shortest item first. When trigrams are used,
items are ranked by trigram votes, then by length. With exact matches
present the trigram votes only reorder them; without exact matches the
trigrams may introduce new items.

# Corpus

Items are expected to be lowercase already; the matcher normalizes query
text only. A Matcher is immutable once built and safe for concurrent use.
*/
package matcher

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/log"
)

// Matcher answers fuzzy queries over a fixed corpus.
type Matcher struct {
	items  []string
	config Config
	seps   *separatorSet
	index  *index
}

// New indexes items using the separators in cfg. cfg is also used by Match.
// The items slice is copied.
func New(items []string, cfg Config) *Matcher {
	seps := newSeparatorSet(cfg.separators)
	m := &Matcher{
		items:  slices.Clone(items),
		config: cfg,
		seps:   seps,
	}
	m.index = buildIndex(m.items, seps)

	log.Debugf("Indexed %d items: words=[%d], trigrams=[%d], maxQueryLen=[%d]",
		len(m.items), len(m.index.words), len(m.index.trigrams), m.index.bounds.maxQueryLen)
	return m
}

// Match returns up to Config().Limit() items for query, best first.
func (m *Matcher) Match(query string) []string {
	return m.MatchWith(query, m.config)
}

// MatchWith is Match using cfg instead of the Matcher's own Config.
// The index is not rebuilt: cfg separators only change how the query is split.
func (m *Matcher) MatchWith(query string, cfg Config) []string {
	bounds := m.index.bounds

	normalized := Normalize(query)
	if normalized == "" || len(normalized) > bounds.maxQueryLen {
		return nil
	}

	seps := m.seps
	if cfg.separators != m.config.separators {
		seps = newSeparatorSet(cfg.separators)
	}

	words := seps.queryWords(normalized, bounds.maxWordLen)
	if len(words) == 0 || len(words) > bounds.maxWordCount {
		return nil
	}

	budget := cfg.TrigramBudget()
	var known [][]int
	var unknown []string
	for _, word := range words {
		if postings, ok := m.index.words[word]; ok {
			known = append(known, postings)
			continue
		}
		if len(word) >= 3 && len(unknown) < budget {
			unknown = append(unknown, word)
		}
	}

	exact := intersect(known)
	limit := cfg.Limit()

	if len(unknown) == 0 || budget == 0 {
		return m.rankExact(exact, limit)
	}

	minItemLen := max(0, len(normalized)-3)
	scores, hits := m.scoreFuzzy(unknown, exact, budget, minItemLen)
	return m.rankScored(scores, minScore(hits), limit)
}

// Config returns the Config the Matcher was built with.
func (m *Matcher) Config() Config {
	return m.config
}

// Len returns the number of indexed items.
func (m *Matcher) Len() int {
	return len(m.items)
}

// Item returns the corpus item at position i.
func (m *Matcher) Item(i int) string {
	return m.items[i]
}

// Stats returns index sizes and bounds.
func (m *Matcher) Stats() map[string]int {
	return map[string]int{
		"items":        len(m.items),
		"words":        len(m.index.words),
		"trigrams":     len(m.index.trigrams),
		"maxWordLen":   m.index.bounds.maxWordLen,
		"maxQueryLen":  m.index.bounds.maxQueryLen,
		"maxWordCount": m.index.bounds.maxWordCount,
	}
}

// minScore is half the trigram hits, rounded up, and at least 1.
func minScore(hits int) int {
	return max(1, (hits+1)/2)
}

// rankExact orders exact matches shortest first. Repeated indices are kept.
func (m *Matcher) rankExact(exact []int, limit int) []string {
	if len(exact) == 0 {
		return nil
	}

	slices.SortStableFunc(exact, func(a, b int) int {
		return cmp.Compare(len(m.items[a]), len(m.items[b]))
	})

	exact = exact[:min(len(exact), limit)]
	results := make([]string, len(exact))
	for i, item := range exact {
		results[i] = m.items[item]
	}
	return results
}

type scoredItem struct {
	item  int
	score int
}

// rankScored keeps items scoring at least threshold, highest score first,
// then shortest, then by corpus position.
func (m *Matcher) rankScored(scores map[int]int, threshold, limit int) []string {
	candidates := make([]scoredItem, 0, len(scores))
	for item, score := range scores {
		if score >= threshold {
			candidates = append(candidates, scoredItem{item: item, score: score})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	slices.SortFunc(candidates, func(a, b scoredItem) int {
		return cmp.Or(
			cmp.Compare(b.score, a.score),
			cmp.Compare(len(m.items[a.item]), len(m.items[b.item])),
			cmp.Compare(a.item, b.item),
		)
	})

	candidates = candidates[:min(len(candidates), limit)]
	results := make([]string, len(candidates))
	for i, c := range candidates {
		results[i] = m.items[c.item]
	}
	return results
}
