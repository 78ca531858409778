package htmldiff

// window is a pair of token ranges still to be searched for matches, or,
// when emit is set, a match waiting to be appended to the output.
type window struct {
	old   Range
	new   Range
	emit  bool
	match Match
}

// matchingBlocks finds the stable runs shared by both sequences by
// divide-and-conquer: the best match of a window splits it into a left and a
// right window, which are searched in turn. The result is ordered and
// non-overlapping, with positions increasing in both sequences.
//
// An explicit stack replaces recursion so adversarial inputs with many small
// matches cannot exhaust the goroutine stack.
func matchingBlocks(oldTokens, newTokens []string, granularity int, opts Options) []Match {
	var matches []Match
	if granularity <= 0 {
		return matches
	}

	stack := []window{{
		old: Range{0, len(oldTokens)},
		new: Range{0, len(newTokens)},
	}}

	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if w.emit {
			matches = append(matches, w.match)
			continue
		}

		m, ok := findMatchDescending(oldTokens, newTokens, w.old, w.new, granularity, opts)
		if !ok {
			continue
		}

		// Pushed in reverse so the left window is processed first.
		if m.EndInOld() < w.old.End && m.EndInNew() < w.new.End {
			stack = append(stack, window{
				old: Range{m.EndInOld(), w.old.End},
				new: Range{m.EndInNew(), w.new.End},
			})
		}
		stack = append(stack, window{emit: true, match: m})
		if w.old.Start < m.StartInOld && w.new.Start < m.StartInNew {
			stack = append(stack, window{
				old: Range{w.old.Start, m.StartInOld},
				new: Range{w.new.Start, m.StartInNew},
			})
		}
	}

	return matches
}
