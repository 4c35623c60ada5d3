package matcher

const (
	// DefaultSeparators split "foo_bar-baz qux" into four words.
	DefaultSeparators = "_- "
	// DefaultLimit is the number of results returned when none is set.
	DefaultLimit = 100
	// DefaultTrigramBudget is the number of trigram probes spent on unknown words.
	DefaultTrigramBudget = 6
	// MaxTrigramBudget caps the probes a single query may spend.
	MaxTrigramBudget = 20
)

// Config holds the per-query knobs of a Matcher.
// It is a plain value: every With* method returns a modified copy, so a
// Config can be shared between goroutines and overridden per query
// without touching the index.
type Config struct {
	separators    string
	limit         int
	trigramBudget int
}

// NewConfig returns a Config with the default separators, limit and budget.
func NewConfig() Config {
	return Config{
		separators:    DefaultSeparators,
		limit:         DefaultLimit,
		trigramBudget: DefaultTrigramBudget,
	}
}

// WithLimit sets the maximum number of results. Values below 1 become 1.
func (c Config) WithLimit(limit int) Config {
	c.limit = max(limit, 1)
	return c
}

// WithTrigramBudget sets how many trigram probes unknown words may use.
//
//   - 0 disables fuzzy matching (exact words only)
//   - 3-6 is fast with coarse fuzzy matching
//   - 9-15 is slower and more accurate
//
// Values are clamped to [0, MaxTrigramBudget].
func (c Config) WithTrigramBudget(budget int) Config {
	c.trigramBudget = min(max(budget, 0), MaxTrigramBudget)
	return c
}

// WithSeparators sets the characters that split words.
// An empty string makes every string a single word.
func (c Config) WithSeparators(separators string) Config {
	c.separators = separators
	return c
}

// Limit returns the maximum number of results, never less than 1.
func (c Config) Limit() int {
	return max(c.limit, 1)
}

// TrigramBudget returns the trigram probe budget.
func (c Config) TrigramBudget() int {
	return c.trigramBudget
}

// Separators returns the word separator characters.
func (c Config) Separators() string {
	return c.separators
}
