package htmldiff

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// TokenPos represents a token's position in the original text.
type TokenPos struct {
	Start int // byte offset of token start
	End   int // byte offset of token end (exclusive)
}

// Tokenize splits html into tokens. Every token is exactly one of: a tag
// (<...>), an entity (&...;), a maximal run of whitespace, a maximal run of
// word characters, or a single other character. Substrings matched by one of
// blocks are kept as single tokens.
//
// Joining the tokens reproduces html exactly. An unterminated tag is not a
// tag: its "<" becomes a punctuation token and the rest is split as text.
func Tokenize(html string, blocks []*regexp.Regexp) []string {
	tokens, _ := TokenizeWithPositions(html, blocks)
	return tokens
}

// TokenizeWithPositions splits html into tokens like Tokenize and also
// returns each token's byte range in html.
func TokenizeWithPositions(html string, blocks []*regexp.Regexp) ([]string, []TokenPos) {
	var tokens []string
	var positions []TokenPos

	emit := func(start, end int) {
		tokens = append(tokens, html[start:end])
		positions = append(positions, TokenPos{Start: start, End: end})
	}

	spans := findBlocks(html, blocks)
	nextSpan := 0

	i := 0
	for i < len(html) {
		for nextSpan < len(spans) && spans[nextSpan].Start < i {
			nextSpan++
		}
		if nextSpan < len(spans) && spans[nextSpan].Start == i {
			emit(i, spans[nextSpan].End)
			i = spans[nextSpan].End
			nextSpan++
			continue
		}

		// Runs stop at the next block so it can be emitted whole.
		limit := len(html)
		if nextSpan < len(spans) {
			limit = spans[nextSpan].Start
		}

		end := scanToken(html, i, limit)
		emit(i, end)
		i = end
	}

	return tokens, positions
}

// scanToken returns the end of the token starting at html[start], without
// reading past limit.
func scanToken(html string, start, limit int) int {
	r, size := utf8.DecodeRuneInString(html[start:limit])

	switch {
	case r == '<':
		if end := tagEnd(html, start, limit); end > 0 {
			return end
		}
		return start + size

	case r == '&':
		if end := entityEnd(html, start, limit); end > 0 {
			return end
		}
		return start + size

	case r == utf8.RuneError && size <= 1:
		return start + 1

	case IsWhitespaceRune(r):
		return scanRun(html, start+size, limit, IsWhitespaceRune)

	case IsWordRune(r):
		return scanRun(html, start+size, limit, IsWordRune)

	default:
		return start + size
	}
}

// scanRun extends a run from i while runes satisfy pred.
func scanRun(html string, i, limit int, pred func(rune) bool) int {
	for i < limit {
		r, size := utf8.DecodeRuneInString(html[i:limit])
		if (r == utf8.RuneError && size <= 1) || !pred(r) {
			break
		}
		i += size
	}
	return i
}

// tagEnd returns the end of the tag opened at html[start], or 0 when another
// "<" or the limit comes before the closing ">".
func tagEnd(html string, start, limit int) int {
	rel := strings.IndexAny(html[start+1:limit], "<>")
	if rel < 0 || html[start+1+rel] == '<' {
		return 0
	}
	if rel == 0 {
		// "<>" is not a tag.
		return 0
	}
	return start + 1 + rel + 1
}

// entityEnd returns the end of the entity started at html[start], or 0 if
// the "&" does not begin a well-formed entity like &amp; or &#160;.
func entityEnd(html string, start, limit int) int {
	i := start + 1
	for i < limit {
		r, size := utf8.DecodeRuneInString(html[i:limit])
		if r == ';' {
			if i == start+1 {
				return 0
			}
			return i + 1
		}
		if r == '#' || (r != '_' && r != '@' && IsWordRune(r)) {
			i += size
			continue
		}
		return 0
	}
	return 0
}

// findBlocks returns the non-overlapping matches of all block expressions,
// ordered by position. Where matches overlap, the one starting first wins,
// then the one from the earlier expression.
func findBlocks(html string, blocks []*regexp.Regexp) []TokenPos {
	if len(blocks) == 0 {
		return nil
	}

	var all []TokenPos
	for _, re := range blocks {
		if re == nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(html, -1) {
			if loc[1] > loc[0] {
				all = append(all, TokenPos{Start: loc[0], End: loc[1]})
			}
		}
	}

	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Start < all[b].Start
	})

	var spans []TokenPos
	end := 0
	for _, s := range all {
		if s.Start < end {
			continue
		}
		spans = append(spans, s)
		end = s.End
	}
	return spans
}
