package codegen

import (
	"strings"
	"testing"

	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/parser"
)

func parse(t *testing.T, src string) (*expr.Builder, expr.Ref) {
	t.Helper()
	b := expr.NewBuilder()
	r, err := parser.Parse(src, b)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return b, r
}

func TestGenerateEmitsBothVariants(t *testing.T) {
	b, r := parse(t, "a & b")
	g := New("test_module", Config{})
	defer g.Dispose()

	if err := g.Generate("q1", b, r, []string{"a", "b"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	ir := g.CompileIR()
	for _, want := range []string{"define", "@q1(", "@q1_popcount("} {
		if !strings.Contains(ir, want) {
			t.Errorf("generated IR missing %q:\n%s", want, ir)
		}
	}
}

func TestGenerateRejectsUnboundVariable(t *testing.T) {
	b, r := parse(t, "a & b")
	g := New("test_module", Config{})
	defer g.Dispose()

	err := g.Generate("q1", b, r, []string{"a"})
	if err == nil {
		t.Fatal("Generate with unbound variable b should have failed")
	}
}

func TestConfigWordCount(t *testing.T) {
	tests := []struct {
		cfg  Config
		want int
	}{
		{Config{}, 1024},
		{Config{ScalarWidth: 64, VectorWidth: 1}, 1024},
		{Config{ScalarWidth: 64, VectorWidth: 4}, 256},
		{Config{ScalarWidth: 8, VectorWidth: 1}, 8192},
	}
	for _, tt := range tests {
		if got := tt.cfg.WordCount(); got != tt.want {
			t.Errorf("WordCount(%+v) = %d, want %d", tt.cfg, got, tt.want)
		}
	}
}

func TestGenerateLiteralsAndVectorWidth(t *testing.T) {
	b, r := parse(t, "$0 | (!a ^ $1)")
	g := New("test_module", Config{ScalarWidth: 64, VectorWidth: 4})
	defer g.Dispose()

	if err := g.Generate("q2", b, r, []string{"a"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	ir := g.CompileIR()
	if !strings.Contains(ir, "<4 x i64>") {
		t.Errorf("expected vectorized element type in IR:\n%s", ir)
	}
}
