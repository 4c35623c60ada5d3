package matcher

// trigramPosition picks which trigram of a word to probe in a given round.
//
// Round 0 takes the prefix, round 1 the suffix, round 2 the middle. Later
// rounds walk outward from the middle, alternating sides, and never revisit
// a position an earlier round already covers. Words with three or fewer
// trigram positions have nothing left after round 2.
func trigramPosition(wordLen, round int) (int, bool) {
	maxPos := wordLen - 3
	if maxPos < 0 {
		return 0, false
	}

	switch round {
	case 0:
		return 0, true
	case 1:
		return maxPos, maxPos > 0
	case 2:
		return maxPos >> 1, maxPos > 1
	}

	if maxPos <= 2 {
		return 0, false
	}

	middle := maxPos >> 1
	offset := (round - 2) >> 1

	pos := middle + offset
	if round%2 == 1 {
		pos = max(0, middle-offset)
	}

	if pos == 0 || pos >= maxPos || pos == middle {
		return 0, false
	}
	return pos, true
}

// sampleTrigrams feeds probe at most budget distinct trigrams taken from
// words, one position per word per round. Skipped positions and trigrams
// already probed do not count against the budget.
func sampleTrigrams(words []string, budget int, probe func(t trigram)) {
	if budget <= 0 || len(words) == 0 {
		return
	}

	visited := make(map[trigram]struct{}, budget)
	spent := 0

	for round := 0; round < budget; round++ {
		for _, word := range words {
			pos, ok := trigramPosition(len(word), round)
			if !ok {
				continue
			}

			t := trigramAt(word, pos)
			if _, seen := visited[t]; seen {
				continue
			}

			visited[t] = struct{}{}
			probe(t)

			spent++
			if spent >= budget {
				return
			}
		}
	}
}

// fuzzyScan holds the state of one fuzzy scoring pass.
type fuzzyScan struct {
	items      []string
	trigrams   map[trigram][]int
	scores     map[int]int
	anchored   bool
	minItemLen int
	hits       int
}

// scoreFuzzy accumulates trigram votes for unknown words on top of the
// exact matches. With exact matches present only those items can gain
// score; without them any item at least minItemLen long can.
// It returns the scores and the number of probes that found a posting list.
func (m *Matcher) scoreFuzzy(unknown []string, exact []int, budget, minItemLen int) (map[int]int, int) {
	scan := &fuzzyScan{
		items:      m.items,
		trigrams:   m.index.trigrams,
		scores:     make(map[int]int, max(len(exact), 16)),
		anchored:   len(exact) > 0,
		minItemLen: minItemLen,
	}
	for _, item := range exact {
		scan.scores[item] = 1
	}

	sampleTrigrams(unknown, budget, scan.probe)
	return scan.scores, scan.hits
}

func (s *fuzzyScan) probe(t trigram) {
	postings, ok := s.trigrams[t]
	if !ok {
		return
	}
	s.hits++

	for _, item := range postings {
		if s.anchored {
			if _, scored := s.scores[item]; scored {
				s.scores[item]++
			}
			continue
		}
		if len(s.items[item]) >= s.minItemLen {
			s.scores[item]++
		}
	}
}
