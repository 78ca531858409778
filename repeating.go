package htmldiff

// repeatFilter discards candidate matches that are anchored only on tokens
// repeated throughout the searched range, such as "the" or a bare space.
// Such matches pair unrelated occurrences and fragment the diff.
//
// A run is anchored on its least frequent non-whitespace token; runs made
// only of whitespace are anchored on their least frequent whitespace token.
// The run is rejected when its anchor occurs more than
// len(run)/accuracy times in the range.
type repeatFilter struct {
	counts   map[string]int
	accuracy float64
}

// newRepeatFilter counts token occurrences in the searched range.
func newRepeatFilter(tokens []string, accuracy float64) *repeatFilter {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return &repeatFilter{counts: counts, accuracy: accuracy}
}

// rejects reports whether run is anchored on an over-repeated token.
func (f *repeatFilter) rejects(run []string) bool {
	if len(run) == 0 {
		return true
	}
	anchor := f.anchorCount(run)
	return float64(anchor) > float64(len(run))/f.accuracy
}

// anchorCount returns the occurrence count of the run's anchor token.
func (f *repeatFilter) anchorCount(run []string) int {
	content, blank := -1, -1
	for _, t := range run {
		c := f.counts[t]
		if IsWhitespace(t) {
			if blank < 0 || c < blank {
				blank = c
			}
			continue
		}
		if content < 0 || c < content {
			content = c
		}
	}
	if content >= 0 {
		return content
	}
	return blank
}
