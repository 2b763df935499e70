package descriptor

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota + 1
	tagCode
	quotedAttrCode
	callAttrCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	tagToken        = parsly.NewToken(tagCode, "Tag", newTagMatcher())
	quotedAttrToken = parsly.NewToken(quotedAttrCode, "QuotedAttr", newQuotedAttrMatcher())
	callAttrToken   = parsly.NewToken(callAttrCode, "CallAttr", newCallAttrMatcher())
)

func newTagMatcher() parsly.Matcher        { return &tagMatcher{} }
func newQuotedAttrMatcher() parsly.Matcher { return &quotedAttrMatcher{} }
func newCallAttrMatcher() parsly.Matcher   { return &callAttrMatcher{} }

// tagMatcher matches the leading command tag of a recipe line in one of its
// three forms: an opening angle-bracket keyword (<step), an all-caps
// keyword (NOTE) or a lowercase keyword with a colon (q:).
type tagMatcher struct{}

func (m *tagMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	// <keyword
	if input[pos] == '<' {
		matched := 1
		for i := pos + 1; i < size; i++ {
			if isLetter(input[i]) {
				matched++
				continue
			}
			break
		}
		if matched == 1 {
			return 0
		}
		return matched
	}

	if !isLetter(input[pos]) {
		return 0
	}

	word := 0
	upper := true
	lower := true
	for i := pos; i < size; i++ {
		if !isLetter(input[i]) {
			break
		}
		if input[i] >= 'a' && input[i] <= 'z' {
			upper = false
		} else {
			lower = false
		}
		word++
	}

	// UPPERWORD
	if upper && word > 0 {
		return word
	}
	// keyword:
	if lower && pos+word < size && input[pos+word] == ':' {
		return word + 1
	}
	return 0
}

// quotedAttrMatcher matches a key="value" attribute; the value may not
// contain a double quote.
type quotedAttrMatcher struct{}

func (m *quotedAttrMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	key := matchKey(input, pos, size)
	if key == 0 {
		return 0
	}
	i := pos + key
	if i+1 >= size || input[i] != '=' || input[i+1] != '"' {
		return 0
	}
	for j := i + 2; j < size; j++ {
		if input[j] == '"' {
			return j - pos + 1
		}
	}
	return 0
}

// callAttrMatcher matches a key(value) attribute; the value runs to the
// first closing parenthesis.
type callAttrMatcher struct{}

func (m *callAttrMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	key := matchKey(input, pos, size)
	if key == 0 {
		return 0
	}
	i := pos + key
	if i >= size || input[i] != '(' {
		return 0
	}
	for j := i + 1; j < size; j++ {
		if input[j] == ')' {
			return j - pos + 1
		}
	}
	return 0
}

// matchKey returns the width of an attribute key at pos, or 0.
func matchKey(input []byte, pos, size int) int {
	if pos >= size {
		return 0
	}
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' || input[i] == '-' {
			matched++
			continue
		}
		break
	}
	return matched
}

// Helper functions
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
