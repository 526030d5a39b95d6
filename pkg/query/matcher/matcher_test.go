package matcher

import (
	"testing"

	"github.com/jitmap/jitmap/pkg/query/expr"
)

func TestTypeMatcher(t *testing.T) {
	b := expr.NewBuilder()
	a, _ := b.Variable("a")

	m := TypeMatcher(expr.Variable, expr.Empty)
	if !m(b, b.Node(a)) {
		t.Error("TypeMatcher(Variable, Empty) should match a Variable node")
	}
	if m(b, b.Node(b.Not(a))) {
		t.Error("TypeMatcher(Variable, Empty) should not match a Not node")
	}
}

func TestChainMatcherEmptyLaws(t *testing.T) {
	b := expr.NewBuilder()
	n := b.Node(b.Empty())

	if !ChainMatcher(ALL)(b, n) {
		t.Error("ChainMatcher(ALL) with no matchers must be true")
	}
	if ChainMatcher(ANY)(b, n) {
		t.Error("ChainMatcher(ANY) with no matchers must be false")
	}
}

func TestOperandMatcherOnLeafIsFalse(t *testing.T) {
	b := expr.NewBuilder()
	always := func(*expr.Builder, expr.Node) bool { return true }

	if OperandMatcher(always, ANY)(b, b.Node(b.Empty())) {
		t.Error("OperandMatcher on a leaf must be false")
	}
}

func TestOperandMatcherUnary(t *testing.T) {
	b := expr.NewBuilder()
	a, _ := b.Variable("a")
	isLiteral := func(_ *expr.Builder, n expr.Node) bool { return n.IsLiteral() }

	notLiteral := b.Not(b.Empty())
	if !OperandMatcher(isLiteral, ANY)(b, b.Node(notLiteral)) {
		t.Error("Not($0)'s operand is a literal")
	}

	notVar := b.Not(a)
	if OperandMatcher(isLiteral, ANY)(b, b.Node(notVar)) {
		t.Error("Not(a)'s operand is not a literal")
	}
}

func TestOperandMatcherBinaryModes(t *testing.T) {
	b := expr.NewBuilder()
	a, _ := b.Variable("a")
	isLiteral := func(_ *expr.Builder, n expr.Node) bool { return n.IsLiteral() }

	mixed := b.And(b.Empty(), a)
	if !OperandMatcher(isLiteral, ANY)(b, b.Node(mixed)) {
		t.Error("ANY mode should match when one operand is a literal")
	}
	if OperandMatcher(isLiteral, ALL)(b, b.Node(mixed)) {
		t.Error("ALL mode should not match when only one operand is a literal")
	}

	bothLiteral := b.And(b.Empty(), b.Full())
	if !OperandMatcher(isLiteral, ALL)(b, b.Node(bothLiteral)) {
		t.Error("ALL mode should match when both operands are literals")
	}
}
