package expr

// Equal reports structural, ordered equality between the subtree
// rooted at ra in a and the subtree rooted at rb in b. Equality is
// not commutative: And(x,y) != And(y,x) unless x == y.
func Equal(a *Builder, ra Ref, b *Builder, rb Ref) bool {
	na, nb := a.Node(ra), b.Node(rb)
	if na.Tag != nb.Tag {
		return false
	}
	switch na.Tag {
	case Empty, Full:
		return true
	case Variable:
		return na.Name == nb.Name
	case Not:
		return Equal(a, na.Children[0], b, nb.Children[0])
	case And, Or, Xor:
		return Equal(a, na.Children[0], b, nb.Children[0]) &&
			Equal(a, na.Children[1], b, nb.Children[1])
	default:
		return false
	}
}
