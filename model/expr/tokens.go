package expr

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota + 1
	numberCode
	quotedCode
	identifierCode
	operatorCode
	commaCode
	openParenCode
	closeParenCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	numberToken     = parsly.NewToken(numberCode, "Number", newNumberMatcher())
	quotedToken     = parsly.NewToken(quotedCode, "Quoted", newQuotedMatcher())
	identifierToken = parsly.NewToken(identifierCode, "Identifier", newIdentifierMatcher())
	operatorToken   = parsly.NewToken(operatorCode, "Operator", newOperatorMatcher())
	commaToken      = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
	openParenToken  = parsly.NewToken(openParenCode, "(", matcher.NewByte('('))
	closeParenToken = parsly.NewToken(closeParenCode, ")", matcher.NewByte(')'))
)

func newNumberMatcher() parsly.Matcher     { return &numberMatcher{} }
func newQuotedMatcher() parsly.Matcher     { return &quotedMatcher{} }
func newIdentifierMatcher() parsly.Matcher { return &identifierMatcher{} }
func newOperatorMatcher() parsly.Matcher   { return &operatorMatcher{} }

// numberMatcher matches integer and decimal literals, with an optional
// leading minus.
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	matched := 0
	if input[pos] == '-' {
		matched++
	}

	digits := 0
	seenDot := false
	for i := pos + matched; i < size; i++ {
		if isDigit(input[i]) {
			digits++
			matched++
			continue
		}
		if input[i] == '.' && !seenDot && digits > 0 {
			seenDot = true
			matched++
			continue
		}
		break
	}

	if digits == 0 {
		return 0
	}
	return matched
}

// quotedMatcher matches a single- or double-quoted literal; the quote
// character is part of the match.
type quotedMatcher struct{}

func (m *quotedMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	quote := input[pos]
	if quote != '\'' && quote != '"' {
		return 0
	}

	for i := pos + 1; i < size; i++ {
		if input[i] == quote {
			return i - pos + 1
		}
	}
	return 0
}

// identifierMatcher matches feature-id references.
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}

	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' || input[i] == '-' || input[i] == '.' {
			matched++
			continue
		}
		break
	}
	return matched
}

// operatorMatcher matches one of the six comparison operators, longest form
// first so that "<=" is not read as "<".
type operatorMatcher struct{}

func (m *operatorMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	if pos+1 < size && input[pos+1] == '=' {
		switch input[pos] {
		case '=', '!', '<', '>':
			return 2
		}
	}
	switch input[pos] {
	case '<', '>':
		return 1
	}
	return 0
}

// Helper functions
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
