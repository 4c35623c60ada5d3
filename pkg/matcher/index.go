package matcher

// Slack added to the corpus maxima so slightly longer or typo-laden queries
// still pass the bounds checks.
const (
	wordLenSlack   = 4
	queryLenSlack  = 6
	wordCountSlack = 2
)

// bounds reject pathological queries before any lookup.
type bounds struct {
	maxWordLen   int
	maxQueryLen  int
	maxWordCount int
}

// index is built once from the corpus and only read afterwards.
type index struct {
	words    map[string][]int
	trigrams map[trigram][]int
	bounds   bounds
}

// buildIndex consumes the corpus once.
//
// Word postings are appended for every occurrence, so a word repeated inside
// one item lists that item more than once. Trigram postings only drop a
// repeat coming from the same word; two different words of one item that
// share a trigram both register it.
func buildIndex(items []string, seps *separatorSet) *index {
	ix := &index{
		words:    make(map[string][]int, len(items)),
		trigrams: make(map[trigram][]int, len(items)*2),
	}

	// lastWord remembers which word last wrote each trigram posting.
	lastWord := make(map[trigram]int, len(items)*2)
	serial := 0

	var longestWord, longestItem, mostWords int
	for item, text := range items {
		longestItem = max(longestItem, len(text))
		wordCount := 0

		seps.splitWords(text, func(word string) {
			wordCount++
			serial++
			longestWord = max(longestWord, len(word))

			ix.words[word] = append(ix.words[word], item)

			for pos := 0; pos+3 <= len(word); pos++ {
				t := trigramAt(word, pos)
				if lastWord[t] == serial {
					continue
				}
				lastWord[t] = serial
				ix.trigrams[t] = append(ix.trigrams[t], item)
			}
		})

		mostWords = max(mostWords, wordCount)
	}

	ix.bounds = bounds{
		maxWordLen:   longestWord + wordLenSlack,
		maxQueryLen:  longestItem + queryLenSlack,
		maxWordCount: mostWords + wordCountSlack,
	}
	return ix
}
