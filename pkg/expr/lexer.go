package expr

import (
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes a compare expression.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current char under examination
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	l.pos = l.readPos
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.readPos += w
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}

	pos := l.pos + 1

	switch l.ch {
	case 0:
		return Token{Kind: EOF, Pos: pos}
	case '+':
		return l.single(PLUS, pos)
	case '-':
		return l.single(MINUS, pos)
	case '*':
		return l.single(STAR, pos)
	case '/':
		return l.single(SLASH, pos)
	case '%':
		return l.single(PERCENT, pos)
	case '(':
		return l.single(LPAREN, pos)
	case ')':
		return l.single(RPAREN, pos)
	case '=':
		if l.peekChar() == '=' {
			return l.double(EQ, pos)
		}
		return l.single(ILLEGAL, pos)
	case '!':
		if l.peekChar() == '=' {
			return l.double(NE, pos)
		}
		return l.single(NOT, pos)
	case '<':
		if l.peekChar() == '=' {
			return l.double(LE, pos)
		}
		return l.single(LT, pos)
	case '>':
		if l.peekChar() == '=' {
			return l.double(GE, pos)
		}
		return l.single(GT, pos)
	case '&':
		if l.peekChar() == '&' {
			return l.double(AND, pos)
		}
		return l.single(ILLEGAL, pos)
	case '|':
		if l.peekChar() == '|' {
			return l.double(OR, pos)
		}
		return l.single(ILLEGAL, pos)
	}

	if isIdentStart(l.ch) {
		lit := l.readIdent()
		return Token{Kind: lookupIdent(lit), Literal: lit, Pos: pos}
	}
	if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
		return Token{Kind: NUMBER, Literal: l.readNumber(), Pos: pos}
	}
	return l.single(ILLEGAL, pos)
}

func (l *Lexer) single(k Kind, pos int) Token {
	tok := Token{Kind: k, Literal: string(l.ch), Pos: pos}
	l.readChar()
	return tok
}

func (l *Lexer) double(k Kind, pos int) Token {
	start := l.pos
	l.readChar()
	l.readChar()
	return Token{Kind: k, Literal: l.input[start:l.pos], Pos: pos}
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber consumes digits, an optional fraction and an optional exponent.
// Validity of the literal is checked by the parser.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
