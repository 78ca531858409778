package htmldiff

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	openingTagRegex = regexp.MustCompile(`^\s*<[^>]+>\s*$`)
	closingTagRegex = regexp.MustCompile(`^\s*</[^>]+>\s*$`)
	tagWordRegex    = regexp.MustCompile(`<[^\s>]+`)
	tagNameRegex    = regexp.MustCompile(`^\s*</?\s*([^\s/>]+)`)
)

// wordLikeTags lists tag prefixes that are compared and wrapped as content,
// so an image that changed is marked like a changed word.
var wordLikeTags = []string{"<img"}

// IsTag reports whether token is a single HTML tag, opening or closing.
// Tags on the word-like list, such as <img>, are content, not tags.
func IsTag(token string) bool {
	trimmed := strings.TrimLeftFunc(token, unicode.IsSpace)
	for _, prefix := range wordLikeTags {
		if len(trimmed) >= len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
			return false
		}
	}
	return IsOpeningTag(token) || IsClosingTag(token)
}

// IsOpeningTag reports whether token looks like <name ...>. Closing tags
// match too; check IsClosingTag first when the distinction matters.
func IsOpeningTag(token string) bool {
	return openingTagRegex.MatchString(token)
}

// IsClosingTag reports whether token looks like </name>.
func IsClosingTag(token string) bool {
	return closingTagRegex.MatchString(token)
}

// IsWhitespace reports whether token is non-empty and consists only of
// whitespace characters and &nbsp; entities.
func IsWhitespace(token string) bool {
	if token == "" {
		return false
	}
	for token != "" {
		if strings.HasPrefix(token, "&nbsp;") {
			token = token[len("&nbsp;"):]
			continue
		}
		r, size := utf8.DecodeRuneInString(token)
		if !IsWhitespaceRune(r) {
			return false
		}
		token = token[size:]
	}
	return true
}

// IsWord reports whether token is a non-empty run of word characters.
func IsWord(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !IsWordRune(r) {
			return false
		}
	}
	return true
}

// IsWhitespaceRune reports whether r separates words.
func IsWhitespaceRune(r rune) bool {
	return unicode.IsSpace(r)
}

// IsWordRune reports whether r belongs to a word run: letters, digits,
// underscore, '#' and '@'.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '#' || r == '@'
}

// TagName returns the lower-cased element name of a tag token, or "" if
// token is not a tag.
func TagName(token string) string {
	m := tagNameRegex.FindStringSubmatch(token)
	if m == nil || !(IsOpeningTag(token) || IsClosingTag(token)) {
		return ""
	}
	return strings.ToLower(m[1])
}

// StripTagAttributes reduces a tag to its name: <p class="x"> becomes <p>,
// <br class="x"/> becomes <br/>.
func StripTagAttributes(tag string) string {
	name := tagWordRegex.FindString(tag)
	if name == "" {
		return tag
	}
	if strings.HasSuffix(strings.TrimSpace(tag), "/>") {
		return strings.TrimSuffix(name, "/") + "/>"
	}
	return name + ">"
}

// StripAnyAttributes strips attributes from tag tokens and returns other
// tokens unchanged.
func StripAnyAttributes(token string) string {
	if IsTag(token) {
		return StripTagAttributes(token)
	}
	return token
}

// WrapText wraps text in an element with the given class.
func WrapText(text, tagName, cssClass string) string {
	var sb strings.Builder
	sb.Grow(len(text) + 2*len(tagName) + len(cssClass) + 14)
	sb.WriteString("<")
	sb.WriteString(tagName)
	sb.WriteString(` class="`)
	sb.WriteString(cssClass)
	sb.WriteString(`">`)
	sb.WriteString(text)
	sb.WriteString("</")
	sb.WriteString(tagName)
	sb.WriteString(">")
	return sb.String()
}
