package expr

// Visitor dispatches on a Node's Tag and is invoked with the concrete
// variant's data. Implementations must handle all seven cases; Match
// below performs the exhaustive dispatch so call sites never need a
// default/panic branch of their own.
type Visitor[T any] interface {
	VisitEmpty() T
	VisitFull() T
	VisitVariable(name string) T
	VisitNot(operand T) T
	VisitAnd(left, right T) T
	VisitOr(left, right T) T
	VisitXor(left, right T) T
}

// Match walks the subtree rooted at r, invoking v bottom-up: children
// are visited before their parent's corresponding Visit method is
// called, giving v's result type T a natural role as an
// accumulator (an LLVM value, a rendered string, a boolean, ...).
func Match[T any](b *Builder, r Ref, v Visitor[T]) T {
	n := b.Node(r)
	switch n.Tag {
	case Empty:
		return v.VisitEmpty()
	case Full:
		return v.VisitFull()
	case Variable:
		return v.VisitVariable(n.Name)
	case Not:
		return v.VisitNot(Match(b, n.Children[0], v))
	case And:
		return v.VisitAnd(Match(b, n.Children[0], v), Match(b, n.Children[1], v))
	case Or:
		return v.VisitOr(Match(b, n.Children[0], v), Match(b, n.Children[1], v))
	case Xor:
		return v.VisitXor(Match(b, n.Children[0], v), Match(b, n.Children[1], v))
	default:
		panic("expr: unreachable tag in Match")
	}
}
