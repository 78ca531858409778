package htmldiff

import "unicode/utf8"

// removeOrphans drops matches that sit isolated between large edits. Such
// coincidental matches (a shared "the" inside a rewritten sentence) split one
// readable replacement into several fragments.
//
// Each match is judged against its original neighbours: a match touching the
// previous or the next one without a gap on either side is always kept.
// Otherwise it is kept only if its length in characters exceeds the
// character length of the edit surrounding it, on the larger side, times
// threshold. The last match, the end sentinel, is always kept.
func removeOrphans(oldTokens, newTokens []string, matches []Match, threshold float64) []Match {
	if len(matches) == 0 {
		return matches
	}

	kept := make([]Match, 0, len(matches))
	prev := Match{}

	for i, curr := range matches[:len(matches)-1] {
		next := matches[i+1]

		if adjacent(prev, curr) || adjacent(curr, next) || keepOrphan(oldTokens, newTokens, prev, curr, next, threshold) {
			kept = append(kept, curr)
		}
		prev = curr
	}

	return append(kept, matches[len(matches)-1])
}

// adjacent reports whether b starts exactly where a ends in both sequences.
func adjacent(a, b Match) bool {
	return a.EndInOld() == b.StartInOld && a.EndInNew() == b.StartInNew
}

// keepOrphan applies the character-length test to an isolated match.
func keepOrphan(oldTokens, newTokens []string, prev, curr, next Match, threshold float64) bool {
	oldDistance := charLength(oldTokens, prev.EndInOld(), next.StartInOld)
	newDistance := charLength(newTokens, prev.EndInNew(), next.StartInNew)
	currLength := charLength(newTokens, curr.StartInNew, curr.EndInNew())

	return float64(currLength) > float64(max(oldDistance, newDistance))*threshold
}

// charLength returns the total number of characters in tokens[start:end].
func charLength(tokens []string, start, end int) int {
	n := 0
	for i := start; i < end; i++ {
		n += utf8.RuneCountInString(tokens[i])
	}
	return n
}
