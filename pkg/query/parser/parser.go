// Package parser implements a Pratt (precedence-climbing) parser for
// the query DSL's boolean-expression grammar, built into an
// *expr.Builder arena. Its precedence ladder is a chain of parseX
// functions from loosest to tightest binding, each left-associative
// via a trailing for loop, narrowed down to the four-operator
// expression grammar this DSL actually has.
package parser

import (
	"fmt"

	"github.com/jitmap/jitmap/internal/errs"
	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/lexer"
)

// Parser consumes a fixed token slice (the whole input is lexed
// eagerly, since the grammar here has no statement boundaries to
// recover across) and builds nodes into an injected *expr.Builder.
type Parser struct {
	tokens []lexer.Token
	pos    int
	b      *expr.Builder
}

// New returns a Parser that will build nodes into b.
func New(tokens []lexer.Token, b *expr.Builder) *Parser {
	return &Parser{tokens: tokens, b: b}
}

// Parse parses src with a fresh lexer into b, consuming exactly one
// top-level expression plus end-of-stream.
func Parse(src string, b *expr.Builder) (expr.Ref, error) {
	tokens, err := lexer.All(src)
	if err != nil {
		return expr.NoRef, &errs.ParserError{Reason: "could not tokenize query", Cause: err}
	}
	p := New(tokens, b)
	return p.Parse()
}

// Parse runs the grammar over p's token slice.
func (p *Parser) Parse() (expr.Ref, error) {
	root, err := p.parseOr()
	if err != nil {
		return expr.NoRef, err
	}
	if !p.check(lexer.EndOfStream) {
		return expr.NoRef, p.errorf("unexpected trailing token %v after top-level expression", p.peek().Type)
	}
	return root, nil
}

// parseOr handles '|', precedence 1, the loosest.
func (p *Parser) parseOr() (expr.Ref, error) {
	left, err := p.parseXor()
	if err != nil {
		return expr.NoRef, err
	}
	for p.check(lexer.Or) {
		p.advance()
		right, err := p.parseXor()
		if err != nil {
			return expr.NoRef, err
		}
		left = p.b.Or(left, right)
	}
	return left, nil
}

// parseXor handles '^', precedence 2.
func (p *Parser) parseXor() (expr.Ref, error) {
	left, err := p.parseAnd()
	if err != nil {
		return expr.NoRef, err
	}
	for p.check(lexer.Xor) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return expr.NoRef, err
		}
		left = p.b.Xor(left, right)
	}
	return left, nil
}

// parseAnd handles '&', precedence 3.
func (p *Parser) parseAnd() (expr.Ref, error) {
	left, err := p.parseUnary()
	if err != nil {
		return expr.NoRef, err
	}
	for p.check(lexer.And) {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return expr.NoRef, err
		}
		left = p.b.And(left, right)
	}
	return left, nil
}

// parseUnary handles '!', precedence 4, right-associative (prefix).
func (p *Parser) parseUnary() (expr.Ref, error) {
	if p.check(lexer.Not) {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return expr.NoRef, err
		}
		return p.b.Not(operand), nil
	}
	return p.parsePrimary()
}

// parsePrimary handles '(' expr ')', '$0', '$1', and VARIABLE.
func (p *Parser) parsePrimary() (expr.Ref, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.Empty:
		p.advance()
		return p.b.Empty(), nil
	case lexer.Full:
		p.advance()
		return p.b.Full(), nil
	case lexer.Var:
		p.advance()
		ref, err := p.b.Variable(tok.Lexeme)
		if err != nil {
			return expr.NoRef, &errs.ParserError{Pos: tok.Pos, Reason: err.Error()}
		}
		return ref, nil
	case lexer.LeftParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return expr.NoRef, err
		}
		if !p.check(lexer.RightParen) {
			return expr.NoRef, p.errorf("unmatched '('")
		}
		p.advance()
		return inner, nil
	default:
		return expr.NoRef, p.errorf("unexpected token %v, expected an expression", tok.Type)
	}
}

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EndOfStream}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(t lexer.Type) bool {
	return p.peek().Type == t
}

func (p *Parser) errorf(format string, args ...any) error {
	return &errs.ParserError{Pos: p.peek().Pos, Reason: fmt.Sprintf(format, args...)}
}
