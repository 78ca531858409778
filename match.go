package htmldiff

// Match is a run of Size tokens that are pairwise equal in both sequences,
// starting at StartInOld in the old sequence and StartInNew in the new one.
type Match struct {
	StartInOld int
	StartInNew int
	Size       int
}

// EndInOld returns the exclusive end of the match in the old sequence.
func (m Match) EndInOld() int { return m.StartInOld + m.Size }

// EndInNew returns the exclusive end of the match in the new sequence.
func (m Match) EndInNew() int { return m.StartInNew + m.Size }

// Range is a half-open token index range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of tokens in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// MatchOptions holds the parameters of a single FindMatch call.
type MatchOptions struct {
	// BlockSize is the minimum length of a match, and the gram size used to
	// index candidate positions.
	BlockSize int

	// RepeatingWordsAccuracy in (0, 1]. Below 1, candidates anchored on a
	// token that occurs more than Size/RepeatingWordsAccuracy times in the
	// searched new range are discarded.
	RepeatingWordsAccuracy float64

	// IgnoreWhitespaceDifferences treats any two whitespace tokens as equal.
	IgnoreWhitespaceDifferences bool

	// IgnoreTagAttributes compares tags by name only.
	IgnoreTagAttributes bool
}

// normalize maps a token to its comparison form under opts.
func (opts MatchOptions) normalize(token string) string {
	if opts.IgnoreWhitespaceDifferences && IsWhitespace(token) {
		return " "
	}
	if opts.IgnoreTagAttributes {
		return StripAnyAttributes(token)
	}
	return token
}
