// Package errs implements the query pipeline's error taxonomy: four
// kinds, each a distinct struct type so callers can distinguish them
// with errors.As while still getting a single human-readable message
// from Error(). Lower layers wrap into higher ones with %w so the
// original cause survives errors.Is/errors.As across the boundary,
// following the mapping style of the embedding facade this package
// serves.
package errs

import "fmt"

// Kind identifies which stage of the pipeline raised an error.
type Kind uint8

const (
	// KindLexer marks a malformed token or unrecognised character.
	KindLexer Kind = iota
	// KindParser marks a grammar violation.
	KindParser
	// KindCompiler marks a codegen, LLVM, or name-validation failure.
	KindCompiler
	// KindRuntime marks a failure during Eval.
	KindRuntime
)

// String renders the kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindLexer:
		return "lexer"
	case KindParser:
		return "parser"
	case KindCompiler:
		return "compiler"
	case KindRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// LexerError reports a malformed token or unrecognised character.
// Pos is the byte offset into the source string where the error was
// detected, or -1 if unknown.
type LexerError struct {
	Pos    int
	Reason string
}

func (e *LexerError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("lexer: %s (at byte %d)", e.Reason, e.Pos)
	}
	return fmt.Sprintf("lexer: %s", e.Reason)
}

// Kind implements the kinded-error interface used by Is.
func (e *LexerError) Kind() Kind { return KindLexer }

// ParserError reports a grammar violation. It may wrap a *LexerError
// via Unwrap.
type ParserError struct {
	Pos    int
	Reason string
	Cause  error
}

func (e *ParserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parser: %s: %v", e.Reason, e.Cause)
	}
	if e.Pos >= 0 {
		return fmt.Sprintf("parser: %s (at byte %d)", e.Reason, e.Pos)
	}
	return fmt.Sprintf("parser: %s", e.Reason)
}

// Kind implements the kinded-error interface used by Is.
func (e *ParserError) Kind() Kind { return KindParser }

// Unwrap exposes the wrapped lexer cause, if any, to errors.Is/As.
func (e *ParserError) Unwrap() error { return e.Cause }

// CompilerError reports a codegen failure, an LLVM-level error, a
// duplicate symbol registration, or an invalid query name.
type CompilerError struct {
	Reason string
	Cause  error
}

func (e *CompilerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("compiler: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("compiler: %s", e.Reason)
}

// Kind implements the kinded-error interface used by Is.
func (e *CompilerError) Kind() Kind { return KindCompiler }

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *CompilerError) Unwrap() error { return e.Cause }

// RuntimeError reports a failure during Eval: a missing required
// input, a size mismatch, or a null output buffer.
type RuntimeError struct {
	Variable string
	Reason   string
}

func (e *RuntimeError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("runtime: %s: variable %q", e.Reason, e.Variable)
	}
	return fmt.Sprintf("runtime: %s", e.Reason)
}

// Kind implements the kinded-error interface used by Is.
func (e *RuntimeError) Kind() Kind { return KindRuntime }

// kinded is satisfied by every error type in this package.
type kinded interface {
	Kind() Kind
}

// Is reports whether err is one of this package's error types
// carrying the given Kind, looking through any wrapping.
func Is(err error, k Kind) bool {
	for err != nil {
		if ke, ok := err.(kinded); ok && ke.Kind() == k {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
