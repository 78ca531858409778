// Package htmldiff provides word-level diffing of HTML documents.
//
// Two renderings of a document are split into tokens (tags, entities,
// whitespace runs, word runs and single punctuation characters), the stable
// runs shared by both are found by recursive longest-run matching, and the
// new document is returned with every changed region wrapped in markers:
//
//	<p>The <del class="diffmod">quick</del><ins class="diffmod">slow</ins> fox</p>
//
// Markup is never wrapped. Only the text between tags is, so the output stays
// a well-formed fragment whenever both inputs were. Changes that only touch
// inline formatting (strong, em, b, ...) are flagged with a synthetic
// <ins class="mod"> marker around the formatted text.
package htmldiff

import (
	"math"
	"regexp"
	"strings"
)

// CSS classes applied to the wrappers emitted by Diff.
const (
	ClassInsert   = "diffins"
	ClassDelete   = "diffdel"
	ClassModified = "diffmod"
)

// matchGranularityMax is the largest block size tried when looking for
// matches. Smaller sizes are tried when no match of this size exists.
const matchGranularityMax = 4

// Action classifies an Operation.
type Action int

const (
	// ActionEqual is a run of tokens present in both documents.
	ActionEqual Action = iota
	// ActionInsert is a run of tokens present only in the new document.
	ActionInsert
	// ActionDelete is a run of tokens present only in the old document.
	ActionDelete
	// ActionReplace is a run of old tokens replaced by a run of new tokens.
	ActionReplace
	// ActionNone means no gap precedes a match. It never appears in a
	// Result's operation list.
	ActionNone
)

// String returns a human-readable representation of the action.
func (a Action) String() string {
	switch a {
	case ActionEqual:
		return "Equal"
	case ActionInsert:
		return "Insert"
	case ActionDelete:
		return "Delete"
	case ActionReplace:
		return "Replace"
	case ActionNone:
		return "None"
	default:
		return "Unknown"
	}
}

// Operation is a classified span over both token sequences. Old tokens
// [StartInOld, EndInOld) correspond to new tokens [StartInNew, EndInNew).
type Operation struct {
	Action     Action
	StartInOld int
	EndInOld   int
	StartInNew int
	EndInNew   int
}

// Options configures a single Diff or Compare call.
type Options struct {
	// RepeatingWordsAccuracy in (0, 1] controls how aggressively matches
	// anchored on very frequent tokens (like "the") are discarded. 1.0, the
	// default, disables the filter. Values outside (0, 1] are treated as 1.0.
	RepeatingWordsAccuracy float64

	// IgnoreWhitespaceDifferences, when true, treats any two whitespace
	// tokens as equal.
	IgnoreWhitespaceDifferences bool

	// OrphanMatchThreshold suppresses short matches isolated between large
	// edits. A match survives only if its length in characters exceeds the
	// surrounding edit length times this value. 0, the default, keeps every
	// match.
	OrphanMatchThreshold float64

	// BlockExpressions are patterns whose matches are kept as single
	// tokens, protecting embedded custom markup from being split.
	BlockExpressions []*regexp.Regexp

	// IgnoreTagAttributes, when true, compares tags by name only, so a tag
	// whose attributes changed still anchors a match. The new document's
	// attributes are the ones rendered.
	IgnoreTagAttributes bool
}

// DefaultOptions returns Options with default settings.
func DefaultOptions() Options {
	return Options{
		RepeatingWordsAccuracy:      1.0,
		IgnoreWhitespaceDifferences: false,
		OrphanMatchThreshold:        0.0,
	}
}

// normalized returns a copy of o with out-of-range values replaced by
// their defaults.
func (o Options) normalized() Options {
	if math.IsNaN(o.RepeatingWordsAccuracy) || o.RepeatingWordsAccuracy <= 0 || o.RepeatingWordsAccuracy > 1 {
		o.RepeatingWordsAccuracy = 1.0
	}
	if math.IsNaN(o.OrphanMatchThreshold) || o.OrphanMatchThreshold < 0 {
		o.OrphanMatchThreshold = 0
	}
	return o
}

// matchOptions builds the per-call MatchFinder parameters for blockSize.
func (o Options) matchOptions(blockSize int) MatchOptions {
	return MatchOptions{
		BlockSize:                   blockSize,
		RepeatingWordsAccuracy:      o.RepeatingWordsAccuracy,
		IgnoreWhitespaceDifferences: o.IgnoreWhitespaceDifferences,
		IgnoreTagAttributes:         o.IgnoreTagAttributes,
	}
}

// Result contains everything produced by a Compare call.
type Result struct {
	OldTokens  []string
	NewTokens  []string
	Operations []Operation
	HTML       string
}

// Diff compares oldHTML with newHTML and returns newHTML with inserted,
// deleted and replaced text wrapped in <ins>/<del> elements.
//
// Diff never fails: malformed markup is treated as text, and two completely
// different inputs produce a single replacement.
func Diff(oldHTML, newHTML string, opts Options) string {
	if oldHTML == newHTML {
		return newHTML
	}
	return Compare(oldHTML, newHTML, opts).HTML
}

// Compare is like Diff but also returns the token sequences and the
// operation list the output was rendered from.
func Compare(oldHTML, newHTML string, opts Options) Result {
	opts = opts.normalized()

	oldTokens := Tokenize(oldHTML, opts.BlockExpressions)
	newTokens := Tokenize(newHTML, opts.BlockExpressions)

	if oldHTML == newHTML {
		var ops []Operation
		if len(newTokens) > 0 {
			ops = []Operation{{
				Action:   ActionEqual,
				EndInOld: len(oldTokens),
				EndInNew: len(newTokens),
			}}
		}
		return Result{OldTokens: oldTokens, NewTokens: newTokens, Operations: ops, HTML: newHTML}
	}

	ops := operations(oldTokens, newTokens, opts)

	return Result{
		OldTokens:  oldTokens,
		NewTokens:  newTokens,
		Operations: ops,
		HTML:       render(oldTokens, newTokens, ops),
	}
}

// operations computes the ordered operation list for two token sequences.
func operations(oldTokens, newTokens []string, opts Options) []Operation {
	granularity := min(matchGranularityMax, len(oldTokens), len(newTokens))

	matches := matchingBlocks(oldTokens, newTokens, granularity, opts)
	matches = append(matches, Match{StartInOld: len(oldTokens), StartInNew: len(newTokens)})
	matches = removeOrphans(oldTokens, newTokens, matches, opts.OrphanMatchThreshold)

	return buildOperations(matches)
}

// buildOperations classifies the gaps between consecutive matches. The last
// match must end at the end of both sequences.
func buildOperations(matches []Match) []Operation {
	var ops []Operation
	posOld, posNew := 0, 0

	for _, m := range matches {
		atOld := posOld == m.StartInOld
		atNew := posNew == m.StartInNew

		var action Action
		switch {
		case !atOld && !atNew:
			action = ActionReplace
		case atOld && !atNew:
			action = ActionInsert
		case !atOld && atNew:
			action = ActionDelete
		default:
			action = ActionNone
		}

		if action != ActionNone {
			ops = append(ops, Operation{
				Action:     action,
				StartInOld: posOld,
				EndInOld:   m.StartInOld,
				StartInNew: posNew,
				EndInNew:   m.StartInNew,
			})
		}

		if m.Size > 0 {
			ops = append(ops, Operation{
				Action:     ActionEqual,
				StartInOld: m.StartInOld,
				EndInOld:   m.EndInOld(),
				StartInNew: m.StartInNew,
				EndInNew:   m.EndInNew(),
			})
		}

		posOld = m.EndInOld()
		posNew = m.EndInNew()
	}

	return ops
}

// HasChanges returns true if the result contains any non-Equal operations.
func HasChanges(r Result) bool {
	for _, op := range r.Operations {
		if op.Action != ActionEqual {
			return true
		}
	}
	return false
}

// joinTokens concatenates tokens[start:end].
func joinTokens(tokens []string, start, end int) string {
	return strings.Join(tokens[start:end], "")
}
