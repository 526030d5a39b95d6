package errs

import (
	"errors"
	"testing"
)

func TestParserErrorWrapsLexerError(t *testing.T) {
	lexErr := &LexerError{Pos: 3, Reason: "unrecognised character"}
	parseErr := &ParserError{Reason: "could not lex input", Cause: lexErr}

	var got *LexerError
	if !errors.As(parseErr, &got) {
		t.Fatal("errors.As should unwrap ParserError to the underlying LexerError")
	}
	if got.Pos != 3 {
		t.Errorf("Pos = %d, want 3", got.Pos)
	}
}

func TestIsKind(t *testing.T) {
	lexErr := &LexerError{Pos: -1, Reason: "bad input"}
	parseErr := &ParserError{Reason: "wrap", Cause: lexErr}

	if !Is(parseErr, KindParser) {
		t.Error("Is(parseErr, KindParser) should be true")
	}
	if !Is(parseErr, KindLexer) {
		t.Error("Is(parseErr, KindLexer) should see through the wrap")
	}
	if Is(parseErr, KindRuntime) {
		t.Error("Is(parseErr, KindRuntime) should be false")
	}
}

func TestRuntimeErrorMessage(t *testing.T) {
	err := &RuntimeError{Variable: "a", Reason: "missing required input"}
	want := `runtime: missing required input: variable "a"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCompilerErrorUnwrap(t *testing.T) {
	cause := errors.New("duplicate symbol foo")
	err := &CompilerError{Reason: "publish failed", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through CompilerError to its cause")
	}
}
