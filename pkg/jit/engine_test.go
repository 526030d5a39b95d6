package jit

import (
	"testing"

	"github.com/jitmap/jitmap/pkg/query/codegen"
	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/parser"
)

func compileIR(t *testing.T, name, src string, variables []string) string {
	t.Helper()
	b := expr.NewBuilder()
	r, err := parser.Parse(src, b)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	g := codegen.New(name+"_module", codegen.Config{})
	defer g.Dispose()
	if err := g.Generate(name, b, r, variables); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return g.CompileIR()
}

func TestNewClampsOutOfRangeOptLevel(t *testing.T) {
	e := New(OptLevel(99))
	if e.optLevel != OptAggressive {
		t.Errorf("New(99).optLevel = %v, want %v", e.optLevel, OptAggressive)
	}
}

func TestAddModuleRejectsDuplicateSymbol(t *testing.T) {
	e := New(OptDefault)
	defer e.Dispose()

	ir1 := compileIR(t, "dup", "a & b", []string{"a", "b"})
	if err := e.AddModule(ir1); err != nil {
		t.Fatalf("first AddModule failed: %v", err)
	}

	ir2 := compileIR(t, "dup", "a | b", []string{"a", "b"})
	if err := e.AddModule(ir2); err == nil {
		t.Fatal("AddModule with a duplicate function name should have failed")
	}
}

func TestLookupUnknownFunctionFails(t *testing.T) {
	e := New(OptDefault)
	defer e.Dispose()

	if _, err := e.Lookup("does_not_exist"); err == nil {
		t.Fatal("Lookup of an unpublished function should have failed")
	}
}

func TestAddModuleThenLookupSucceeds(t *testing.T) {
	e := New(OptDefault)
	defer e.Dispose()

	ir := compileIR(t, "lookup_me", "a ^ b", []string{"a", "b"})
	if err := e.AddModule(ir); err != nil {
		t.Fatalf("AddModule failed: %v", err)
	}

	funcs, err := e.Lookup("lookup_me")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if funcs.Void == nil || funcs.Popcount == nil {
		t.Error("Lookup returned a nil function pointer")
	}
}

func TestTargetTripleIsNonEmpty(t *testing.T) {
	if TargetTriple() == "" {
		t.Error("TargetTriple() returned an empty string")
	}
}
