package matcher

import (
	"slices"
	"unicode/utf8"
)

// trigram is a 3-byte window of a word.
type trigram [3]byte

func trigramAt(word string, pos int) trigram {
	return trigram{word[pos], word[pos+1], word[pos+2]}
}

func (t trigram) String() string {
	return string(t[:])
}

// separatorSet is a lookup table for word boundaries.
// ASCII separators hit the table directly; anything else falls back to a scan.
type separatorSet struct {
	ascii [utf8.RuneSelf]bool
	other []rune
}

func newSeparatorSet(separators string) *separatorSet {
	set := &separatorSet{}
	for _, r := range separators {
		if r < utf8.RuneSelf {
			set.ascii[r] = true
		} else if !slices.Contains(set.other, r) {
			set.other = append(set.other, r)
		}
	}
	return set
}

func (s *separatorSet) contains(r rune) bool {
	if r < utf8.RuneSelf {
		return s.ascii[r]
	}
	return len(s.other) > 0 && slices.Contains(s.other, r)
}

// splitWords calls fn for every maximal run of non-separator characters in
// text, left to right. Runs of separators and separators at either end
// produce nothing.
func (s *separatorSet) splitWords(text string, fn func(word string)) {
	start := -1
	for i, r := range text {
		if s.contains(r) {
			if start >= 0 {
				fn(text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fn(text[start:])
	}
}

// queryWords splits a normalized query. Words longer than maxWordLen are
// skipped and repeated words are kept once, in order of first appearance.
func (s *separatorSet) queryWords(query string, maxWordLen int) []string {
	var words []string
	s.splitWords(query, func(word string) {
		if len(word) > maxWordLen || slices.Contains(words, word) {
			return
		}
		words = append(words, word)
	})
	return words
}
