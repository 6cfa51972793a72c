// Package lexer turns nimi source text into a flat sequence of Words.
//
// Processing is single-pass over characters. The lexer never looks
// across line boundaries, and no construct spans lines at this level.
package lexer

import (
	"fmt"

	"github.com/skx/nimi-compiler/token"
)

// punctuation maps single characters to their Kind. Anything not found
// here, and not handled by one of the other lexing rules, is a fatal
// lexical error.
var punctuation = map[rune]token.Kind{
	';': token.SEMI,
	'(': token.LPAREN,
	')': token.RPAREN,
	',': token.COMMA,
	':': token.COLON,
	'=': token.ASSIGN,
	'<': token.LT,
	'>': token.GT,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'.': token.DOT,
	'/': token.SLASH,
}

// Lexer holds our object-state.
type Lexer struct {
	position     int    // current character position
	readPosition int    // next character position
	ch           rune   // current character
	characters   []rune // rune slice of the input

	line      int
	lineStart bool // true when ch is the first column of a logical line
}

// New creates a Lexer instance from string input.
func New(input string) *Lexer {
	l := &Lexer{characters: []rune(input), line: 1, lineStart: true}
	l.readChar()
	return l
}

// read one character forward.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.characters) {
		l.ch = rune(0)
	} else {
		l.ch = l.characters[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// NextWord returns the next Word in the source, skipping insignificant
// whitespace and tracking leading-tab indentation.
func (l *Lexer) NextWord() token.Word {

	// Swallow newlines, leading-tab runs, and ordinary whitespace
	// before dispatching on the first significant character.
	for {
		switch {
		case l.ch == rune(0):
			return token.Word{Kind: token.EOF}

		case l.ch == '\n':
			l.line++
			l.lineStart = true
			l.readChar()
			continue

		case l.lineStart && l.ch == '\t':
			count := 0
			for l.ch == '\t' {
				count++
				l.readChar()
			}
			l.lineStart = false
			return token.Word{Kind: token.INDENT, Count: count}

		case isWhitespace(l.ch):
			l.lineStart = false
			l.readChar()
			continue
		}
		break
	}

	// Any significant character ends the line's leading-tab region.
	l.lineStart = false

	switch {
	case isAlpha(l.ch):
		lit := l.readRun(isAlphaNumeric)
		return token.Word{Kind: token.LookupIdentifier(lit), Literal: lit}

	case isDigit(l.ch):
		// Deliberately permissive: the full alphanumeric run is
		// captured here, and validated later at parse time.
		lit := l.readRun(isAlphaNumeric)
		return token.Word{Kind: token.NUMBER, Literal: lit}

	case l.ch == '"':
		l.readChar() // step over the opening quote
		lit := l.readRun(func(r rune) bool { return r != '"' && r != rune(0) })
		l.readChar() // step over the closing quote
		return token.Word{Kind: token.STRING, Literal: lit}
	}

	if k, ok := punctuation[l.ch]; ok {
		ch := l.ch
		l.readChar()
		return token.Word{Kind: k, Literal: string(ch)}
	}

	bad := l.ch
	pos := l.position
	l.readChar()
	return token.Word{Kind: token.ERROR, Literal: fmt.Sprintf("unexpected character %q at character %d", bad, pos)}
}

// readRun consumes the maximal run of characters matching pred,
// returning the consumed text.
func (l *Lexer) readRun(pred func(rune) bool) string {
	start := l.position
	for pred(l.ch) {
		l.readChar()
	}
	return string(l.characters[start:l.position])
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}
