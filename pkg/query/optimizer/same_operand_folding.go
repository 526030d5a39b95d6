package optimizer

import (
	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/matcher"
)

var sameOperandMatcher matcher.Matcher = func(b *expr.Builder, n expr.Node) bool {
	if !n.IsBinaryOperator() {
		return false
	}
	return expr.Equal(b, n.Children[0], b, n.Children[1])
}

// sameOperandRewrite implements:
//
//	e & e -> e, e | e -> e, e ^ e -> $0
func sameOperandRewrite(b *expr.Builder, n expr.Node) (expr.Ref, bool) {
	switch n.Tag {
	case expr.And, expr.Or:
		return n.Children[0], true
	case expr.Xor:
		return b.Empty(), true
	default:
		return expr.NoRef, false
	}
}
