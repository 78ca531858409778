package htmldiff

import "strings"

// gramSeparator joins the tokens of a gram into an index key. Inputs that
// contain NUL can produce colliding keys, so candidates are re-checked.
const gramSeparator = "\x00"

// FindMatch returns the longest run of at least opts.BlockSize tokens that
// is common to oldTokens[oldRange] and newTokens[newRange]. Ties are broken
// by the smallest start in the old sequence, then in the new one. The second
// result is false when no such run exists.
//
// Ranges are clamped to the token slices. A BlockSize below 1 never matches.
func FindMatch(oldTokens, newTokens []string, oldRange, newRange Range, opts MatchOptions) (Match, bool) {
	oldRange = clampRange(oldRange, len(oldTokens))
	newRange = clampRange(newRange, len(newTokens))

	if opts.BlockSize <= 0 || oldRange.Len() < opts.BlockSize || newRange.Len() < opts.BlockSize {
		return Match{}, false
	}

	f := matchFinder{
		old:      normalizeTokens(oldTokens[oldRange.Start:oldRange.End], opts),
		new:      normalizeTokens(newTokens[newRange.Start:newRange.End], opts),
		oldStart: oldRange.Start,
		newStart: newRange.Start,
		opts:     opts,
	}
	return f.find()
}

// findMatchDescending tries block sizes from granularity down to 1 and
// returns the first match found, preferring the coarsest reliable one.
func findMatchDescending(oldTokens, newTokens []string, oldRange, newRange Range, granularity int, opts Options) (Match, bool) {
	for blockSize := granularity; blockSize > 0; blockSize-- {
		if m, ok := FindMatch(oldTokens, newTokens, oldRange, newRange, opts.matchOptions(blockSize)); ok {
			return m, true
		}
	}
	return Match{}, false
}

// matchFinder holds the normalized token windows of one FindMatch call.
// Indices into old and new are relative to oldStart and newStart.
type matchFinder struct {
	old      []string
	new      []string
	oldStart int
	newStart int
	opts     MatchOptions
}

func (f *matchFinder) find() (Match, bool) {
	bs := f.opts.BlockSize
	index := f.indexOld()

	var filter *repeatFilter
	if f.opts.RepeatingWordsAccuracy > 0 && f.opts.RepeatingWordsAccuracy < 1 {
		filter = newRepeatFilter(f.new, f.opts.RepeatingWordsAccuracy)
	}

	var best Match
	found := false

	for j := 0; j+bs <= len(f.new); j++ {
		candidates, ok := index[gramKey(f.new[j:j+bs])]
		if !ok {
			continue
		}
		for _, i := range candidates {
			// A candidate whose predecessors also match is a suffix of a
			// longer run that is examined from its own start.
			if i > 0 && j > 0 && f.old[i-1] == f.new[j-1] {
				continue
			}
			if bs > 1 && !equalTokens(f.old[i:i+bs], f.new[j:j+bs]) {
				continue
			}

			size := bs
			for i+size < len(f.old) && j+size < len(f.new) && f.old[i+size] == f.new[j+size] {
				size++
			}

			if filter != nil && filter.rejects(f.new[j:j+size]) {
				continue
			}

			m := Match{StartInOld: f.oldStart + i, StartInNew: f.newStart + j, Size: size}
			if !found || betterMatch(m, best) {
				best = m
				found = true
			}
		}
	}

	return best, found
}

// indexOld maps every gram of the old window to its start offsets, in
// increasing order.
func (f *matchFinder) indexOld() map[string][]int {
	bs := f.opts.BlockSize
	index := make(map[string][]int)
	for i := 0; i+bs <= len(f.old); i++ {
		key := gramKey(f.old[i : i+bs])
		index[key] = append(index[key], i)
	}
	return index
}

// betterMatch reports whether a should replace b as the best match.
func betterMatch(a, b Match) bool {
	if a.Size != b.Size {
		return a.Size > b.Size
	}
	if a.StartInOld != b.StartInOld {
		return a.StartInOld < b.StartInOld
	}
	return a.StartInNew < b.StartInNew
}

func equalTokens(a, b []string) bool {
	for k := range a {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}

func gramKey(gram []string) string {
	if len(gram) == 1 {
		return gram[0]
	}
	return strings.Join(gram, gramSeparator)
}

func normalizeTokens(tokens []string, opts MatchOptions) []string {
	if !opts.IgnoreWhitespaceDifferences && !opts.IgnoreTagAttributes {
		return tokens
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = opts.normalize(t)
	}
	return out
}

func clampRange(r Range, n int) Range {
	r.Start = max(0, min(r.Start, n))
	r.End = max(r.Start, min(r.End, n))
	return r
}
