package expr

import "testing"

func TestBuilderSingletons(t *testing.T) {
	b := NewBuilder()
	if b.Node(b.Empty()).Tag != Empty {
		t.Errorf("Empty() should reference an Empty node")
	}
	if b.Node(b.Full()).Tag != Full {
		t.Errorf("Full() should reference a Full node")
	}
	if b.Empty() == b.Full() {
		t.Error("Empty and Full must be distinct singletons")
	}
}

func TestVariableValidation(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"a", false},
		{"a1_b", false},
		{"_leading", false},
		{"", true},
		{"a b", true},
		{"a^", true},
	}
	b := NewBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Variable(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("Variable(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestClassificationPredicates(t *testing.T) {
	b := NewBuilder()
	a, _ := b.Variable("a")
	notA := b.Not(a)
	andAB := b.And(a, a)

	if !b.Node(b.Empty()).IsLiteral() {
		t.Error("Empty should be a literal")
	}
	if !b.Node(a).IsVariable() {
		t.Error("a should be a variable")
	}
	if !b.Node(notA).IsUnaryOperator() || !b.Node(notA).IsOperator() {
		t.Error("Not(a) should be a unary operator")
	}
	if !b.Node(andAB).IsBinaryOperator() || !b.Node(andAB).IsOperator() {
		t.Error("And(a,a) should be a binary operator")
	}
}

func TestEqualIsOrdered(t *testing.T) {
	b := NewBuilder()
	a, _ := b.Variable("a")
	c, _ := b.Variable("b")
	ab := b.And(a, c)
	ba := b.And(c, a)

	if Equal(b, ab, b, ab) == false {
		t.Error("a node should equal itself")
	}
	if Equal(b, ab, b, ba) {
		t.Error("And(a,b) must not equal And(b,a)")
	}
}

func TestString(t *testing.T) {
	b := NewBuilder()
	a, _ := b.Variable("a")
	c, _ := b.Variable("b")

	tests := []struct {
		name string
		r    Ref
		want string
	}{
		{"empty", b.Empty(), "$0"},
		{"full", b.Full(), "$1"},
		{"variable", a, "a"},
		{"not", b.Not(a), "!a"},
		{"and", b.And(a, c), "(a & b)"},
		{"or", b.Or(a, c), "(a | b)"},
		{"xor", b.Xor(a, c), "(a ^ b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(b, tt.r); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariablesOrderedDeduplicated(t *testing.T) {
	b := NewBuilder()
	a, _ := b.Variable("a")
	c, _ := b.Variable("b")
	// (a & b) | a -- post-order visits a, b, then a again.
	expr := b.Or(b.And(a, c), a)

	got := Variables(b, expr)
	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("Variables() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Variables()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCopyAcrossBuilders(t *testing.T) {
	src := NewBuilder()
	a, _ := src.Variable("a")
	c, _ := src.Variable("b")
	root := src.And(a, src.Not(c))

	dst := NewBuilder()
	copied := Copy(src, root, dst)

	if !Equal(src, root, dst, copied) {
		t.Error("Copy should produce a structurally equal subtree in dst")
	}
	if String(src, root) != String(dst, copied) {
		t.Error("Copy should preserve the rendered form")
	}
}
