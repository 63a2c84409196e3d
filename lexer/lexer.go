// Package lexer implements a lexical scanner for the ZON header line.
package lexer

import (
	"unicode/utf8"

	"github.com/zonformat/zon/token"
)

// Lexer represents a lexical scanner for a ZON header.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int
	column       int
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
	} else {
		r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += size
	}
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	var tok token.Token
	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
	case '@':
		tok = l.newToken(token.AT, "@")
	case ':':
		tok = l.newToken(token.COLON, ":")
	case '#':
		tok = l.newToken(token.HASH, "#")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case '[':
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '"':
		tok.Type = token.STRING
		tok.Literal = l.readQuoted()
		return tok
	default:
		lit := l.readBareword()
		if lit == "" {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
			l.readChar()
			return tok
		}
		tok.Type = token.LookupIdent(lit)
		tok.Literal = lit
		return tok
	}
	l.readChar()
	return tok
}

func (l *Lexer) newToken(t token.Type, lit string) token.Token {
	return token.Token{Type: t, Literal: lit, Line: l.line, Column: l.column}
}

// isDelimiter reports whether r terminates a bareword run.
func isDelimiter(r rune) bool {
	switch r {
	case 0, '@', ':', '#', ',', '[', ']', '{', '}', '(', ')', '"', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// readBareword consumes a run of non-delimiter runes: column names,
// rule letters (S, L, R, P, M, E, V), the delta marker (U+0394), version
// strings, and numeric literals all share this token shape.
func (l *Lexer) readBareword() string {
	start := l.position
	for !isDelimiter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readQuoted consumes a JSON-style quoted literal, including the
// surrounding quotes, so callers can hand the raw token straight to
// pack.Unpack. Backslash escapes (including \") never end the literal
// early.
func (l *Lexer) readQuoted() string {
	start := l.position
	l.readChar() // consume opening quote
	for {
		if l.ch == 0 {
			break
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '"' {
			l.readChar() // consume closing quote
			break
		}
		l.readChar()
	}
	return l.input[start:l.position]
}
