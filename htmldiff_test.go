package htmldiff

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      string
		new      string
		opts     Options
		expected string
	}{
		{
			name:     "identical",
			old:      "<p>Same</p>",
			new:      "<p>Same</p>",
			opts:     DefaultOptions(),
			expected: "<p>Same</p>",
		},
		{
			name:     "pure insertion",
			old:      "<p>A</p>",
			new:      "<p>A B</p>",
			opts:     DefaultOptions(),
			expected: `<p>A<ins class="diffins"> B</ins></p>`,
		},
		{
			name:     "pure deletion",
			old:      "<p>A B</p>",
			new:      "<p>A</p>",
			opts:     DefaultOptions(),
			expected: `<p>A<del class="diffdel"> B</del></p>`,
		},
		{
			name:     "replacement",
			old:      "<p>cat</p>",
			new:      "<p>dog</p>",
			opts:     DefaultOptions(),
			expected: `<p><del class="diffmod">cat</del><ins class="diffmod">dog</ins></p>`,
		},
		{
			name:     "both empty",
			old:      "",
			new:      "",
			opts:     DefaultOptions(),
			expected: "",
		},
		{
			name:     "everything inserted",
			old:      "",
			new:      "X",
			opts:     DefaultOptions(),
			expected: `<ins class="diffins">X</ins>`,
		},
		{
			name:     "everything deleted",
			old:      "X",
			new:      "",
			opts:     DefaultOptions(),
			expected: `<del class="diffdel">X</del>`,
		},
		{
			name:     "disjoint text",
			old:      "abc",
			new:      "xyz",
			opts:     DefaultOptions(),
			expected: `<del class="diffmod">abc</del><ins class="diffmod">xyz</ins>`,
		},
		{
			name:     "inserted paragraph keeps its markup unwrapped",
			old:      "<p>a</p>",
			new:      "<p>a</p><p>b</p>",
			opts:     DefaultOptions(),
			expected: `<p>a</p><p><ins class="diffins">b</ins></p>`,
		},
		{
			name:     "image is wrapped like a word",
			old:      "<p>x</p>",
			new:      `<p>x<img src="a.png"></p>`,
			opts:     DefaultOptions(),
			expected: `<p>x<ins class="diffins"><img src="a.png"></ins></p>`,
		},
		{
			name:     "added bold formatting",
			old:      "<p>a bold</p>",
			new:      "<p>a <b>bold</b></p>",
			opts:     DefaultOptions(),
			expected: `<p>a <b><ins class="mod">bold</ins></b></p>`,
		},
		{
			name:     "removed bold formatting",
			old:      "<p>a <b>bold</b></p>",
			new:      "<p>a bold</p>",
			opts:     DefaultOptions(),
			expected: `<p>a <ins class="mod">bold</ins></p>`,
		},
		{
			name:     "deleted paragraph with bold text",
			old:      "<p>a</p><p>old <b>bold</b> text</p>",
			new:      "<p>a</p>",
			opts:     DefaultOptions(),
			expected: `<p>a</p><p><del class="diffdel">old </del><b><del class="diffdel">bold</del></b><del class="diffdel"> text</del></p>`,
		},
		{
			name:     "inserted paragraph with bold text",
			old:      "<p>a</p>",
			new:      "<p>a</p><p>new <b>bold</b> text</p>",
			opts:     DefaultOptions(),
			expected: `<p>a</p><p><ins class="diffins">new </ins><b><ins class="diffins">bold</ins></b><ins class="diffins"> text</ins></p>`,
		},
		{
			name:     "upper-case image is wrapped like a word",
			old:      "<p>x</p>",
			new:      `<p>x<IMG SRC="a.png"></p>`,
			opts:     DefaultOptions(),
			expected: `<p>x<ins class="diffins"><IMG SRC="a.png"></ins></p>`,
		},
		{
			name:     "zero options behave like defaults",
			old:      "<p>cat</p>",
			new:      "<p>dog</p>",
			opts:     Options{},
			expected: `<p><del class="diffmod">cat</del><ins class="diffmod">dog</ins></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Diff(tt.old, tt.new, tt.opts))
		})
	}
}

func TestDiffIgnoreWhitespaceDifferences(t *testing.T) {
	old := "<p>a b</p>"
	new := "<p>a\n b</p>"

	opts := DefaultOptions()
	assert.Contains(t, Diff(old, new, opts), "diffmod")

	opts.IgnoreWhitespaceDifferences = true
	assert.Equal(t, new, Diff(old, new, opts))
}

func TestDiffIgnoreTagAttributes(t *testing.T) {
	old := `<p class="a">same text</p>`
	new := `<p class="b">same text</p>`

	opts := DefaultOptions()
	opts.IgnoreTagAttributes = true
	assert.Equal(t, new, Diff(old, new, opts))
}

func TestDiffBlockExpressions(t *testing.T) {
	old := "<p>see [[a b]] here</p>"
	new := "<p>see [[a c]] here</p>"

	assert.Equal(t,
		`<p>see [[a <del class="diffmod">b</del><ins class="diffmod">c</ins>]] here</p>`,
		Diff(old, new, DefaultOptions()))

	opts := DefaultOptions()
	opts.BlockExpressions = []*regexp.Regexp{regexp.MustCompile(`\[\[[^\]]*\]\]`)}
	assert.Equal(t,
		`<p>see <del class="diffmod">[[a b]]</del><ins class="diffmod">[[a c]]</ins> here</p>`,
		Diff(old, new, opts))
}

func TestDiffOrphanMatchThreshold(t *testing.T) {
	old := "<p>one two three</p>"
	new := "<p>four two five</p>"

	opts := DefaultOptions()
	assert.Equal(t,
		`<p><del class="diffmod">one</del><ins class="diffmod">four</ins> two <del class="diffmod">three</del><ins class="diffmod">five</ins></p>`,
		Diff(old, new, opts))

	opts.OrphanMatchThreshold = 0.5
	assert.Equal(t,
		`<p><del class="diffmod">one two three</del><ins class="diffmod">four two five</ins></p>`,
		Diff(old, new, opts))
}

func TestCompare(t *testing.T) {
	r := Compare("<p>cat</p>", "<p>dog</p>", DefaultOptions())

	require.Equal(t, []string{"<p>", "cat", "</p>"}, r.OldTokens)
	require.Equal(t, []string{"<p>", "dog", "</p>"}, r.NewTokens)
	require.Equal(t, []Operation{
		{Action: ActionEqual, StartInOld: 0, EndInOld: 1, StartInNew: 0, EndInNew: 1},
		{Action: ActionReplace, StartInOld: 1, EndInOld: 2, StartInNew: 1, EndInNew: 2},
		{Action: ActionEqual, StartInOld: 2, EndInOld: 3, StartInNew: 2, EndInNew: 3},
	}, r.Operations)
	assert.True(t, HasChanges(r))
}

func TestCompareIdentical(t *testing.T) {
	r := Compare("<p>x y</p>", "<p>x y</p>", DefaultOptions())

	require.Len(t, r.Operations, 1)
	assert.Equal(t, Operation{Action: ActionEqual, EndInOld: 5, EndInNew: 5}, r.Operations[0])
	assert.Equal(t, "<p>x y</p>", r.HTML)
	assert.False(t, HasChanges(r))

	empty := Compare("", "", DefaultOptions())
	assert.Empty(t, empty.Operations)
	assert.Empty(t, empty.HTML)
}

func TestDiffDocument(t *testing.T) {
	old := readFixture(t, "revision_old.html")
	new := readFixture(t, "revision_new.html")

	out := Diff(old, new, DefaultOptions())

	assert.Contains(t, out, `<del class="diffmod">quick</del><ins class="diffmod">slow</ins>`)
	assert.Contains(t, out, `<del class="diffdel">This paragraph is removed.</del>`)
	assert.Contains(t, out, `<strong><ins class="mod">important</ins></strong>`)
	assert.Contains(t, out, `<ins class="diffins">Third item</ins>`)
	assert.True(t, strings.HasPrefix(out, "<h1>Release notes</h1>"), "unchanged heading should be copied verbatim")

	r := Compare(old, new, DefaultOptions())
	assertPartition(t, r)
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

// fataler is implemented by *testing.T and *rapid.T.
type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

// assertPartition checks that the operations cover both token sequences in
// order, without gaps or overlaps.
func assertPartition(t fataler, r Result) {
	t.Helper()
	posOld, posNew := 0, 0
	for i, op := range r.Operations {
		if op.StartInOld != posOld || op.StartInNew != posNew {
			t.Fatalf("operation %d %+v does not start at (%d, %d)", i, op, posOld, posNew)
		}
		if op.EndInOld < op.StartInOld || op.EndInNew < op.StartInNew {
			t.Fatalf("operation %d %+v has a negative span", i, op)
		}
		switch op.Action {
		case ActionEqual:
			if op.EndInOld-op.StartInOld != op.EndInNew-op.StartInNew {
				t.Fatalf("equal operation %d %+v has unequal sides", i, op)
			}
			for k := 0; k < op.EndInOld-op.StartInOld; k++ {
				if r.OldTokens[op.StartInOld+k] != r.NewTokens[op.StartInNew+k] {
					// Equal spans may differ only where normalization allowed it.
					if !IsWhitespace(r.OldTokens[op.StartInOld+k]) && StripAnyAttributes(r.OldTokens[op.StartInOld+k]) != StripAnyAttributes(r.NewTokens[op.StartInNew+k]) {
						t.Fatalf("equal operation %d %+v pairs %q with %q", i, op, r.OldTokens[op.StartInOld+k], r.NewTokens[op.StartInNew+k])
					}
				}
			}
		case ActionInsert:
			if op.EndInOld != op.StartInOld || op.EndInNew == op.StartInNew {
				t.Fatalf("insert operation %d %+v is malformed", i, op)
			}
		case ActionDelete:
			if op.EndInNew != op.StartInNew || op.EndInOld == op.StartInOld {
				t.Fatalf("delete operation %d %+v is malformed", i, op)
			}
		case ActionReplace:
			if op.EndInOld == op.StartInOld || op.EndInNew == op.StartInNew {
				t.Fatalf("replace operation %d %+v is malformed", i, op)
			}
		case ActionNone:
			t.Fatalf("operation %d has action None", i)
		}
		posOld, posNew = op.EndInOld, op.EndInNew
	}
	if posOld != len(r.OldTokens) || posNew != len(r.NewTokens) {
		t.Fatalf("operations end at (%d, %d), want (%d, %d)", posOld, posNew, len(r.OldTokens), len(r.NewTokens))
	}
}
