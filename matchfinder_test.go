package htmldiff

import "testing"

func fullRange(tokens []string) Range {
	return Range{Start: 0, End: len(tokens)}
}

func TestFindMatch(t *testing.T) {
	tests := []struct {
		name      string
		old       []string
		new       []string
		oldRange  *Range
		newRange  *Range
		opts      MatchOptions
		want      Match
		wantFound bool
	}{
		{
			name:      "longest run wins",
			old:       []string{"a", " ", "b", " ", "c"},
			new:       []string{"x", " ", "a", " ", "b"},
			opts:      MatchOptions{BlockSize: 1, RepeatingWordsAccuracy: 1},
			want:      Match{StartInOld: 0, StartInNew: 2, Size: 3},
			wantFound: true,
		},
		{
			name:      "no run as long as the block size",
			old:       []string{"a", " ", "b", " ", "c"},
			new:       []string{"x", " ", "a", " ", "b"},
			opts:      MatchOptions{BlockSize: 4, RepeatingWordsAccuracy: 1},
			wantFound: false,
		},
		{
			name:      "block size run found",
			old:       []string{"a", "b", "c", "d", "e"},
			new:       []string{"z", "b", "c", "d", "e"},
			opts:      MatchOptions{BlockSize: 4, RepeatingWordsAccuracy: 1},
			want:      Match{StartInOld: 1, StartInNew: 1, Size: 4},
			wantFound: true,
		},
		{
			name:      "ties prefer the earliest old position, then new",
			old:       []string{"a", "b", "a"},
			new:       []string{"a", "a"},
			opts:      MatchOptions{BlockSize: 1, RepeatingWordsAccuracy: 1},
			want:      Match{StartInOld: 0, StartInNew: 0, Size: 1},
			wantFound: true,
		},
		{
			name:      "ties prefer the earliest old position over an earlier new one",
			old:       []string{"x", "q", "p"},
			new:       []string{"p", "q"},
			opts:      MatchOptions{BlockSize: 1, RepeatingWordsAccuracy: 1},
			want:      Match{StartInOld: 1, StartInNew: 1, Size: 1},
			wantFound: true,
		},
		{
			name:      "whitespace differences matter by default",
			old:       []string{"a", " ", "b"},
			new:       []string{"a", "\n  ", "b"},
			opts:      MatchOptions{BlockSize: 1, RepeatingWordsAccuracy: 1},
			want:      Match{StartInOld: 0, StartInNew: 0, Size: 1},
			wantFound: true,
		},
		{
			name:      "whitespace differences ignored",
			old:       []string{"a", " ", "b"},
			new:       []string{"a", "\n  ", "b"},
			opts:      MatchOptions{BlockSize: 1, RepeatingWordsAccuracy: 1, IgnoreWhitespaceDifferences: true},
			want:      Match{StartInOld: 0, StartInNew: 0, Size: 3},
			wantFound: true,
		},
		{
			name:      "tag attributes ignored",
			old:       []string{`<p class="a">`, "x", "</p>"},
			new:       []string{`<p class="b">`, "x", "</p>"},
			opts:      MatchOptions{BlockSize: 2, RepeatingWordsAccuracy: 1, IgnoreTagAttributes: true},
			want:      Match{StartInOld: 0, StartInNew: 0, Size: 3},
			wantFound: true,
		},
		{
			name:      "search limited to ranges",
			old:       []string{"a", "b", "c", "d"},
			new:       []string{"a", "b", "c", "d"},
			oldRange:  &Range{Start: 2, End: 4},
			newRange:  &Range{Start: 2, End: 4},
			opts:      MatchOptions{BlockSize: 1, RepeatingWordsAccuracy: 1},
			want:      Match{StartInOld: 2, StartInNew: 2, Size: 2},
			wantFound: true,
		},
		{
			name:      "out of bounds ranges are clamped",
			old:       []string{"a", "b"},
			new:       []string{"a", "b"},
			oldRange:  &Range{Start: -3, End: 10},
			newRange:  &Range{Start: 0, End: 99},
			opts:      MatchOptions{BlockSize: 2, RepeatingWordsAccuracy: 1},
			want:      Match{StartInOld: 0, StartInNew: 0, Size: 2},
			wantFound: true,
		},
		{
			name:      "zero block size never matches",
			old:       []string{"a"},
			new:       []string{"a"},
			opts:      MatchOptions{BlockSize: 0, RepeatingWordsAccuracy: 1},
			wantFound: false,
		},
		{
			name:      "empty input",
			old:       nil,
			new:       []string{"a"},
			opts:      MatchOptions{BlockSize: 1, RepeatingWordsAccuracy: 1},
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldRange := fullRange(tt.old)
			if tt.oldRange != nil {
				oldRange = *tt.oldRange
			}
			newRange := fullRange(tt.new)
			if tt.newRange != nil {
				newRange = *tt.newRange
			}

			got, found := FindMatch(tt.old, tt.new, oldRange, newRange, tt.opts)
			if found != tt.wantFound {
				t.Fatalf("FindMatch found = %v, want %v (match %+v)", found, tt.wantFound, got)
			}
			if found && got != tt.want {
				t.Errorf("FindMatch = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFindMatchRepeatingWords(t *testing.T) {
	old := Tokenize("the cat", nil)
	new := Tokenize("the the the the the dog", nil)

	got, found := FindMatch(old, new, fullRange(old), fullRange(new), MatchOptions{BlockSize: 1, RepeatingWordsAccuracy: 1})
	if !found {
		t.Fatal("expected a match with the filter disabled")
	}
	if want := (Match{StartInOld: 0, StartInNew: 0, Size: 2}); got != want {
		t.Errorf("FindMatch = %+v, want %+v", got, want)
	}

	got, found = FindMatch(old, new, fullRange(old), fullRange(new), MatchOptions{BlockSize: 1, RepeatingWordsAccuracy: 0.5})
	if found {
		t.Errorf("expected the repeated anchor to be discarded, got %+v", got)
	}
}

func TestFindMatchRepeatingWordsKeepsDistinctiveRuns(t *testing.T) {
	old := Tokenize("the fox", nil)
	new := Tokenize("the the the the the fox", nil)

	got, found := FindMatch(old, new, fullRange(old), fullRange(new), MatchOptions{BlockSize: 1, RepeatingWordsAccuracy: 0.5})
	if !found {
		t.Fatal("expected the run anchored on fox to survive")
	}
	if want := (Match{StartInOld: 0, StartInNew: 8, Size: 3}); got != want {
		t.Errorf("FindMatch = %+v, want %+v", got, want)
	}
}

func TestFindMatchDescending(t *testing.T) {
	old := []string{"a", "x", "b", "c"}
	new := []string{"b", "c", "y", "a"}

	got, found := findMatchDescending(old, new, fullRange(old), fullRange(new), 4, DefaultOptions())
	if !found {
		t.Fatal("expected a match")
	}
	if want := (Match{StartInOld: 2, StartInNew: 0, Size: 2}); got != want {
		t.Errorf("findMatchDescending = %+v, want %+v", got, want)
	}
}
