package htmldiff

// Statistics summarizes a Compare result.
type Statistics struct {
	OldTokens     int // total tokens in the old document
	NewTokens     int // total tokens in the new document
	OldWords      int // text tokens in the old document
	NewWords      int // text tokens in the new document
	CommonWords   int // text tokens inside Equal operations
	DeletedWords  int // old text tokens inside Delete and Replace operations
	InsertedWords int // new text tokens inside Insert and Replace operations

	Equal    int // number of Equal operations
	Inserts  int // number of Insert operations
	Deletes  int // number of Delete operations
	Replaces int // number of Replace operations
}

// ComputeStatistics calculates statistics for a Compare result. Text tokens
// are tokens that are neither tags nor whitespace.
func ComputeStatistics(r Result) Statistics {
	st := Statistics{
		OldTokens: len(r.OldTokens),
		NewTokens: len(r.NewTokens),
		OldWords:  countText(r.OldTokens, 0, len(r.OldTokens)),
		NewWords:  countText(r.NewTokens, 0, len(r.NewTokens)),
	}

	for _, op := range r.Operations {
		switch op.Action {
		case ActionEqual:
			st.Equal++
			st.CommonWords += countText(r.NewTokens, op.StartInNew, op.EndInNew)
		case ActionInsert:
			st.Inserts++
			st.InsertedWords += countText(r.NewTokens, op.StartInNew, op.EndInNew)
		case ActionDelete:
			st.Deletes++
			st.DeletedWords += countText(r.OldTokens, op.StartInOld, op.EndInOld)
		case ActionReplace:
			st.Replaces++
			st.DeletedWords += countText(r.OldTokens, op.StartInOld, op.EndInOld)
			st.InsertedWords += countText(r.NewTokens, op.StartInNew, op.EndInNew)
		case ActionNone:
		}
	}

	return st
}

func countText(tokens []string, start, end int) int {
	n := 0
	for _, t := range tokens[start:end] {
		if !IsTag(t) && !IsWhitespace(t) {
			n++
		}
	}
	return n
}
