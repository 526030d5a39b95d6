// Package matcher implements composable predicates over expression
// nodes: the substrate the optimiser's rewrite passes match against
// before attempting a rewrite. Matchers are plain function values
// rather than a polymorphic interface hierarchy, the same
// functional-value style optimizer.Option uses for its own
// configuration, generalized here to predicate composition.
package matcher

import "github.com/jitmap/jitmap/pkg/query/expr"

// Matcher is a pure, stateless predicate over one expression node.
type Matcher func(b *expr.Builder, n expr.Node) bool

// Mode selects how ChainMatcher and OperandMatcher combine their
// sub-results.
type Mode uint8

const (
	// ANY is satisfied when at least one operand/matcher matches.
	ANY Mode = iota
	// ALL is satisfied only when every operand/matcher matches.
	ALL
)

// tagMask is an 8-bit mask indexed by expr.Tag, giving TypeMatcher its
// O(1) membership test.
type tagMask uint8

func maskOf(tags []expr.Tag) tagMask {
	var m tagMask
	for _, t := range tags {
		m |= 1 << uint(t)
	}
	return m
}

func (m tagMask) has(t expr.Tag) bool {
	return m&(1<<uint(t)) != 0
}

// TypeMatcher returns a Matcher that is true iff the node's tag is one
// of tags.
func TypeMatcher(tags ...expr.Tag) Matcher {
	mask := maskOf(tags)
	return func(_ *expr.Builder, n expr.Node) bool {
		return mask.has(n.Tag)
	}
}

// OperandMatcher lifts inner to apply to a node's operands. For Not it
// applies inner to the single operand. For And/Or/Xor it applies
// inner to both operands and combines per mode, short-circuiting. For
// literals and variables (no operands) it is always false.
func OperandMatcher(inner Matcher, mode Mode) Matcher {
	return func(b *expr.Builder, n expr.Node) bool {
		switch {
		case n.IsUnaryOperator():
			return inner(b, b.Node(n.Children[0]))
		case n.IsBinaryOperator():
			left := inner(b, b.Node(n.Children[0]))
			if mode == ANY && left {
				return true
			}
			if mode == ALL && !left {
				return false
			}
			right := inner(b, b.Node(n.Children[1]))
			if mode == ANY {
				return left || right
			}
			return left && right
		default:
			return false
		}
	}
}

// ChainMatcher applies every matcher in matchers to n and combines the
// results per mode, short-circuiting. ChainMatcher(ALL, nil) is always
// true (the empty conjunction); ChainMatcher(ANY, nil) is always
// false (the empty disjunction).
func ChainMatcher(mode Mode, matchers ...Matcher) Matcher {
	return func(b *expr.Builder, n expr.Node) bool {
		if mode == ALL {
			for _, m := range matchers {
				if !m(b, n) {
					return false
				}
			}
			return true
		}
		for _, m := range matchers {
			if m(b, n) {
				return true
			}
		}
		return false
	}
}
