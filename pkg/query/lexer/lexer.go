package lexer

import (
	"github.com/jitmap/jitmap/internal/errs"
)

// Lexer is a pull-based scanner over a query string: each call to
// Next advances past one token and returns it.
type Lexer struct {
	input string
	pos   int
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

func isNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		return true
	default:
		return false
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.input) {
		return 0
	}
	return l.input[l.pos+off]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// Next scans and returns the next token, or a *errs.LexerError if the
// input at the current position cannot be tokenized.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: EndOfStream, Pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch ch {
	case '(':
		l.pos++
		return Token{Type: LeftParen, Lexeme: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Type: RightParen, Lexeme: ")", Pos: start}, nil
	case '!':
		l.pos++
		return Token{Type: Not, Lexeme: "!", Pos: start}, nil
	case '&':
		l.pos++
		return Token{Type: And, Lexeme: "&", Pos: start}, nil
	case '|':
		l.pos++
		return Token{Type: Or, Lexeme: "|", Pos: start}, nil
	case '^':
		l.pos++
		return Token{Type: Xor, Lexeme: "^", Pos: start}, nil
	case '$':
		switch l.peekAt(1) {
		case '0':
			l.pos += 2
			return Token{Type: Empty, Lexeme: "$0", Pos: start}, nil
		case '1':
			l.pos += 2
			return Token{Type: Full, Lexeme: "$1", Pos: start}, nil
		default:
			return Token{}, &errs.LexerError{Pos: start, Reason: "'$' must be followed by '0' or '1'"}
		}
	}

	if isNameByte(ch) {
		for l.pos < len(l.input) && isNameByte(l.input[l.pos]) {
			l.pos++
		}
		return Token{Type: Var, Lexeme: l.input[start:l.pos], Pos: start}, nil
	}

	return Token{}, &errs.LexerError{Pos: start, Reason: "unrecognised character '" + string(ch) + "'"}
}

// All tokenizes the entire input, stopping at the first error.
func All(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EndOfStream {
			return tokens, nil
		}
	}
}
