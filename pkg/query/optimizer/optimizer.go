// Package optimizer implements the algebraic rewrite pipeline:
// constant folding, same-operand folding, and Not-chain folding,
// driven by the matcher package and applied in a single bottom-up
// sweep over a copy of the input tree. A bit-flag Config drives one
// recursive visitor rather than running each pass as its own
// whole-program sweep, since a single-tree IR makes every pass's
// effect purely local to a node and its already-rewritten children.
package optimizer

import (
	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/matcher"
)

// Config is a bit-set of which passes an Optimizer runs.
type Config uint8

const (
	// ConstantFolding collapses binary ops with a literal operand and
	// Not of a literal.
	ConstantFolding Config = 1 << iota
	// SameOperandFolding collapses a binary op whose two operands are
	// structurally equal.
	SameOperandFolding
	// NotChainFolding collapses Not(Not(x)).
	NotChainFolding

	// AllPasses is the default configuration: every pass enabled.
	AllPasses = ConstantFolding | SameOperandFolding | NotChainFolding
)

// Option configures an Optimizer at construction time.
type Option func(*Optimizer)

// WithPasses overrides the default AllPasses configuration with an
// explicit mask.
func WithPasses(c Config) Option {
	return func(o *Optimizer) {
		o.config = c
	}
}

// rewriteFunc attempts to rewrite a node whose children have already
// been rewritten. It returns ok=false when the pattern does not apply,
// leaving the node unchanged.
type rewriteFunc func(b *expr.Builder, n expr.Node) (expr.Ref, bool)

type pass struct {
	flag    Config
	match   matcher.Matcher
	rewrite rewriteFunc
}

// Optimizer owns up to three enabled passes and applies them bottom-up.
type Optimizer struct {
	config Config
}

// New returns an Optimizer with all three passes enabled by default;
// pass WithPasses to run a subset.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{config: AllPasses}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Optimizer) passes() []pass {
	all := []pass{
		{ConstantFolding, constantFoldingMatcher, constantFoldingRewrite},
		{SameOperandFolding, sameOperandMatcher, sameOperandRewrite},
		{NotChainFolding, notChainMatcher, notChainRewrite},
	}
	var enabled []pass
	for _, p := range all {
		if o.config&p.flag != 0 {
			enabled = append(enabled, p)
		}
	}
	return enabled
}

// Optimize deep-copies the subtree rooted at r in src into a fresh
// Builder, then runs one bottom-up sweep applying every enabled pass,
// in fixed order, at each node. Children are rewritten before their
// parent, so a single sweep suffices for these idempotent passes. It
// returns the new Builder (the Optimizer's own arena) and the
// optimised root's Ref within it.
func (o *Optimizer) Optimize(src *expr.Builder, r expr.Ref) (*expr.Builder, expr.Ref) {
	dst := expr.NewBuilder()
	copied := expr.Copy(src, r, dst)
	passes := o.passes()
	return dst, rewrite(dst, copied, passes)
}

func rewrite(b *expr.Builder, r expr.Ref, passes []pass) expr.Ref {
	n := b.Node(r)
	var rebuilt expr.Ref
	switch n.Tag {
	case expr.Empty, expr.Full, expr.Variable:
		return r
	case expr.Not:
		operand := rewrite(b, n.Children[0], passes)
		rebuilt = b.Not(operand)
	case expr.And:
		left := rewrite(b, n.Children[0], passes)
		right := rewrite(b, n.Children[1], passes)
		rebuilt = b.And(left, right)
	case expr.Or:
		left := rewrite(b, n.Children[0], passes)
		right := rewrite(b, n.Children[1], passes)
		rebuilt = b.Or(left, right)
	case expr.Xor:
		left := rewrite(b, n.Children[0], passes)
		right := rewrite(b, n.Children[1], passes)
		rebuilt = b.Xor(left, right)
	default:
		return r
	}
	return applyPasses(b, rebuilt, passes)
}

func applyPasses(b *expr.Builder, r expr.Ref, passes []pass) expr.Ref {
	n := b.Node(r)
	for _, p := range passes {
		if !p.match(b, n) {
			continue
		}
		if result, ok := p.rewrite(b, n); ok {
			// A rewrite may build a new node (e.g. $1 ^ e -> !e), which
			// can itself be foldable; every rewrite shrinks the tree,
			// so re-applying the passes terminates.
			return applyPasses(b, result, passes)
		}
	}
	return r
}
