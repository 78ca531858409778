package htmldiff

import "strings"

// Markers injected around text whose inline formatting changed.
const (
	modMarkerOpen  = `<ins class="mod">`
	modMarkerClose = `</ins>`
)

// formattingTags are inline formatting elements. Their markup is passed
// through unwrapped, but the text they enclose is flagged with the mod
// marker so a formatting-only change is still visible.
var formattingTags = map[string]bool{
	"strong": true,
	"em":     true,
	"b":      true,
	"i":      true,
	"big":    true,
	"small":  true,
	"u":      true,
	"sub":    true,
	"sup":    true,
	"strike": true,
	"s":      true,
	"dfn":    true,
}

// wrapKind selects the element used to wrap changed text.
type wrapKind int

const (
	wrapInsert wrapKind = iota
	wrapDelete
)

func (k wrapKind) tagName() string {
	if k == wrapDelete {
		return "del"
	}
	return "ins"
}

// renderer accumulates the output of one rendering pass. The formatting tag
// stack is shared by all operations of the pass.
type renderer struct {
	oldTokens []string
	newTokens []string
	sb        strings.Builder
	tagStack  []string
}

// render writes every operation in order and returns the resulting HTML.
func render(oldTokens, newTokens []string, ops []Operation) string {
	r := &renderer{oldTokens: oldTokens, newTokens: newTokens}
	for _, op := range ops {
		r.operation(op)
	}
	return r.sb.String()
}

func (r *renderer) operation(op Operation) {
	switch op.Action {
	case ActionEqual:
		r.sb.WriteString(joinTokens(r.newTokens, op.StartInNew, op.EndInNew))
	case ActionDelete:
		r.wrap(wrapDelete, ClassDelete, r.oldTokens[op.StartInOld:op.EndInOld])
	case ActionInsert:
		r.wrap(wrapInsert, ClassInsert, r.newTokens[op.StartInNew:op.EndInNew])
	case ActionReplace:
		r.wrap(wrapDelete, ClassModified, r.oldTokens[op.StartInOld:op.EndInOld])
		r.wrap(wrapInsert, ClassModified, r.newTokens[op.StartInNew:op.EndInNew])
	case ActionNone:
	}
}

// wrap writes tokens with every run of text wrapped in kind's element and
// every tag passed through unwrapped.
//
// Formatting tags get special handling only when they lead an iteration. A
// tag run that directly follows text is written as is, unless it closes the
// open mod marker. Deleted formatting tags are dropped: the new document
// already carries the markup that is rendered. Inserted formatting tags are
// written.
func (r *renderer) wrap(kind wrapKind, cssClass string, tokens []string) {
	for len(tokens) > 0 {
		var injection string
		injectBefore := false

		if n := leadingRun(tokens, isContent); n > 0 {
			r.sb.WriteString(WrapText(strings.Join(tokens[:n], ""), kind.tagName(), cssClass))
			tokens = tokens[n:]

			if run := leadingRun(tokens, isFormattingClosing); run > 0 && r.closesTop(tokens[:run]) {
				r.tagStack = r.tagStack[:len(r.tagStack)-1]
				injection = modMarkerClose
				injectBefore = true
				if kind == wrapDelete {
					tokens = tokens[run:]
				}
			}
		} else {
			switch {
			case isFormattingOpening(tokens[0]):
				r.tagStack = append(r.tagStack, TagName(tokens[0]))
				injection = modMarkerOpen
				if kind == wrapDelete {
					tokens = tokens[leadingRun(tokens, isFormattingOpening):]
				}

			case isFormattingClosing(tokens[0]):
				run := leadingRun(tokens, isFormattingClosing)
				if r.closesTop(tokens[:run]) {
					r.tagStack = r.tagStack[:len(r.tagStack)-1]
					injection = modMarkerClose
					injectBefore = true
				}
				if kind == wrapDelete {
					tokens = tokens[run:]
				}
			}
		}

		if len(tokens) == 0 && injection == "" {
			break
		}

		n := leadingRun(tokens, IsTag)
		tags := strings.Join(tokens[:n], "")
		tokens = tokens[n:]

		if injectBefore {
			r.sb.WriteString(injection)
			r.sb.WriteString(tags)
		} else {
			r.sb.WriteString(tags)
			r.sb.WriteString(injection)
		}
	}
}

// closesTop reports whether a run of closing tags closes the innermost open
// formatting tag. Only the outermost tag of an opening run is pushed, so the
// whole closing run is searched.
func (r *renderer) closesTop(closing []string) bool {
	top := len(r.tagStack) - 1
	return top >= 0 && closesTag(closing, r.tagStack[top])
}

// leadingRun returns how many leading tokens satisfy pred.
func leadingRun(tokens []string, pred func(string) bool) int {
	for i, t := range tokens {
		if !pred(t) {
			return i
		}
	}
	return len(tokens)
}

// closesTag reports whether one of the closing tags is for element name.
func closesTag(closing []string, name string) bool {
	for _, t := range closing {
		if TagName(t) == name {
			return true
		}
	}
	return false
}

func isContent(token string) bool {
	return !IsTag(token)
}

func isFormattingOpening(token string) bool {
	return IsTag(token) && !IsClosingTag(token) && formattingTags[TagName(token)]
}

func isFormattingClosing(token string) bool {
	return IsClosingTag(token) && formattingTags[TagName(token)]
}
