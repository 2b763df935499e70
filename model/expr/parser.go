package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// ParseComparison parses a rule test expression in the form
// `left operator right`, where each operand is a numeric literal, a quoted
// string literal or a feature-id reference.
func ParseComparison(input string) (*Comparison, error) {
	cursor := parsly.NewCursor("", []byte(input), 0)

	left, err := matchOperand(cursor)
	if err != nil {
		return nil, err
	}

	matched := cursor.MatchAfterOptional(whitespaceToken, operatorToken)
	if matched.Code != operatorToken.Code {
		return nil, cursor.NewError(operatorToken)
	}
	op := Operator(matched.Text(cursor))

	right, err := matchOperand(cursor)
	if err != nil {
		return nil, err
	}

	if err := expectEnd(cursor); err != nil {
		return nil, err
	}
	return &Comparison{Left: left, Op: op, Right: right}, nil
}

// ParseCall parses a rule action expression in the form
// `name(arg, arg, ...)`; each argument is an operand. A call with no
// arguments is accepted.
func ParseCall(input string) (*Call, error) {
	cursor := parsly.NewCursor("", []byte(input), 0)

	matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierToken.Code {
		return nil, cursor.NewError(identifierToken)
	}
	call := &Call{Name: matched.Text(cursor)}

	matched = cursor.MatchAfterOptional(whitespaceToken, openParenToken)
	if matched.Code != openParenToken.Code {
		return nil, cursor.NewError(openParenToken)
	}

	matched = cursor.MatchAfterOptional(whitespaceToken, closeParenToken)
	if matched.Code == closeParenToken.Code {
		return call, expectEnd(cursor)
	}

	for {
		arg, err := matchOperand(cursor)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		matched = cursor.MatchAfterOptional(whitespaceToken, commaToken, closeParenToken)
		switch matched.Code {
		case commaToken.Code:
			continue
		case closeParenToken.Code:
			return call, expectEnd(cursor)
		default:
			return nil, cursor.NewError(closeParenToken)
		}
	}
}

// matchOperand consumes one operand off the cursor. Numeric literals are
// tried before identifiers so that `1` never parses as a reference.
func matchOperand(cursor *parsly.Cursor) (Operand, error) {
	matched := cursor.MatchAfterOptional(whitespaceToken, numberToken, quotedToken, identifierToken)
	switch matched.Code {
	case numberToken.Code:
		text := matched.Text(cursor)
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Operand{}, fmt.Errorf("invalid numeric literal %q: %w", text, err)
		}
		return Operand{Kind: KindNumber, Number: value}, nil
	case quotedToken.Code:
		text := matched.Text(cursor)
		return Operand{Kind: KindString, Text: text[1 : len(text)-1]}, nil
	case identifierToken.Code:
		return Operand{Kind: KindRef, Ref: matched.Text(cursor)}, nil
	}
	return Operand{}, cursor.NewError(identifierToken)
}

// expectEnd fails when anything but trailing whitespace remains.
func expectEnd(cursor *parsly.Cursor) error {
	rest := strings.TrimSpace(string(cursor.Input[cursor.Pos:]))
	if rest != "" {
		return fmt.Errorf("unexpected trailing input %q", rest)
	}
	return nil
}
