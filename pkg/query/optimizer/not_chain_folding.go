package optimizer

import (
	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/matcher"
)

var notChainMatcher = matcher.ChainMatcher(matcher.ALL,
	matcher.TypeMatcher(expr.Not),
	matcher.OperandMatcher(matcher.TypeMatcher(expr.Not), matcher.ANY),
)

// notChainRewrite collapses Not(Not(x)) to x. Because this runs
// during a bottom-up sweep, any contiguous chain of Not nodes above x
// has already been collapsed pairwise by the time its outermost pair
// is visited, so this single pairwise rule is sufficient to fold a
// chain of any length down to x (even length) or !x (odd length)
// without needing to walk and count the chain explicitly.
func notChainRewrite(b *expr.Builder, n expr.Node) (expr.Ref, bool) {
	if n.Tag != expr.Not {
		return expr.NoRef, false
	}
	inner := b.Node(n.Children[0])
	if inner.Tag != expr.Not {
		return expr.NoRef, false
	}
	return inner.Children[0], true
}
