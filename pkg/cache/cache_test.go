package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bastiangx/quickmatch/pkg/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDependsOnConfig(t *testing.T) {
	base := matcher.NewConfig()

	keys := map[string]bool{
		Key(base, "chrom"):                      true,
		Key(base.WithLimit(5), "chrom"):         true,
		Key(base.WithTrigramBudget(0), "chrom"): true,
		Key(base.WithSeparators("."), "chrom"):  true,
		Key(base, "chrome"):                     true,
		Key(base.WithSeparators("|"), "chrom"):  true,
		Key(base.WithSeparators(""), "chrom"):   true,
	}
	assert.Len(t, keys, 7)
	assert.Equal(t, Key(base, "chrom"), Key(matcher.NewConfig(), "chrom"))
}

func TestGetPut(t *testing.T) {
	rc := New(4)

	_, ok := rc.Get("a")
	assert.False(t, ok)

	rc.Put("a", []string{"apple"})
	results, ok := rc.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"apple"}, results)

	// nil results are cached too
	rc.Put("none", nil)
	results, ok = rc.Get("none")
	assert.True(t, ok)
	assert.Nil(t, results)

	rc.Put("a", []string{"apricot"})
	results, _ = rc.Get("a")
	assert.Equal(t, []string{"apricot"}, results)
	assert.Equal(t, 2, rc.Len())

	stats := rc.Stats()
	assert.Equal(t, 2, stats["entries"])
	assert.Equal(t, 4, stats["max"])
	assert.Equal(t, 3, stats["hits"])
	assert.Equal(t, 1, stats["misses"])
}

func TestPrefixKeysAreDistinct(t *testing.T) {
	rc := New(4)
	rc.Put("ab", []string{"short"})
	rc.Put("abc", []string{"long"})

	short, _ := rc.Get("ab")
	long, _ := rc.Get("abc")
	assert.Equal(t, []string{"short"}, short)
	assert.Equal(t, []string{"long"}, long)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	rc := New(2)
	rc.Put("one", []string{"1"})
	rc.Put("two", []string{"2"})

	// touch "one" so "two" becomes the oldest
	_, ok := rc.Get("one")
	require.True(t, ok)

	rc.Put("three", []string{"3"})
	assert.Equal(t, 2, rc.Len())

	_, ok = rc.Get("two")
	assert.False(t, ok)
	_, ok = rc.Get("one")
	assert.True(t, ok)
	_, ok = rc.Get("three")
	assert.True(t, ok)
}

func TestPurge(t *testing.T) {
	rc := New(0)
	assert.Equal(t, 1, rc.Stats()["max"])

	rc.Put("k", []string{"v"})
	rc.Purge()
	assert.Equal(t, 0, rc.Len())
	_, ok := rc.Get("k")
	assert.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	rc := New(16)
	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("q%d", (worker*7+i)%40)
				if _, ok := rc.Get(key); !ok {
					rc.Put(key, []string{key})
				}
			}
		}(worker)
	}
	wg.Wait()
	assert.LessOrEqual(t, rc.Len(), 16)
}
