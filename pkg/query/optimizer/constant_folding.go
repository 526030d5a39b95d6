package optimizer

import (
	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/matcher"
)

var constantFoldingMatcher = matcher.ChainMatcher(matcher.ANY,
	matcher.ChainMatcher(matcher.ALL,
		matcher.TypeMatcher(expr.And, expr.Or, expr.Xor),
		matcher.OperandMatcher(matcher.TypeMatcher(expr.Empty, expr.Full), matcher.ANY),
	),
	matcher.ChainMatcher(matcher.ALL,
		matcher.TypeMatcher(expr.Not),
		matcher.OperandMatcher(matcher.TypeMatcher(expr.Empty, expr.Full), matcher.ANY),
	),
)

func isLiteral(b *expr.Builder, r expr.Ref) (tag expr.Tag, ok bool) {
	n := b.Node(r)
	if n.IsLiteral() {
		return n.Tag, true
	}
	return 0, false
}

// constantFoldingRewrite implements:
//
//	!$0 -> $1, !$1 -> $0
//	$0 & e -> $0, $1 & e -> e   (symmetric)
//	$0 | e -> e, $1 | e -> $1   (symmetric)
//	$0 ^ e -> e, $1 ^ e -> !e   (symmetric)
func constantFoldingRewrite(b *expr.Builder, n expr.Node) (expr.Ref, bool) {
	switch n.Tag {
	case expr.Not:
		tag, ok := isLiteral(b, n.Children[0])
		if !ok {
			return expr.NoRef, false
		}
		if tag == expr.Empty {
			return b.Full(), true
		}
		return b.Empty(), true

	case expr.And:
		return foldAnd(b, n.Children[0], n.Children[1])

	case expr.Or:
		return foldOr(b, n.Children[0], n.Children[1])

	case expr.Xor:
		return foldXor(b, n.Children[0], n.Children[1])

	default:
		return expr.NoRef, false
	}
}

func foldAnd(b *expr.Builder, l, r expr.Ref) (expr.Ref, bool) {
	if tag, ok := isLiteral(b, l); ok {
		if tag == expr.Empty {
			return b.Empty(), true
		}
		return r, true
	}
	if tag, ok := isLiteral(b, r); ok {
		if tag == expr.Empty {
			return b.Empty(), true
		}
		return l, true
	}
	return expr.NoRef, false
}

func foldOr(b *expr.Builder, l, r expr.Ref) (expr.Ref, bool) {
	if tag, ok := isLiteral(b, l); ok {
		if tag == expr.Empty {
			return r, true
		}
		return b.Full(), true
	}
	if tag, ok := isLiteral(b, r); ok {
		if tag == expr.Empty {
			return l, true
		}
		return b.Full(), true
	}
	return expr.NoRef, false
}

func foldXor(b *expr.Builder, l, r expr.Ref) (expr.Ref, bool) {
	if tag, ok := isLiteral(b, l); ok {
		if tag == expr.Empty {
			return r, true
		}
		return b.Not(r), true
	}
	if tag, ok := isLiteral(b, r); ok {
		if tag == expr.Empty {
			return l, true
		}
		return b.Not(l), true
	}
	return expr.NoRef, false
}
