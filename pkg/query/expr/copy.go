package expr

// Copy deep-copies the subtree rooted at r in src into dst, returning
// the new root's Ref in dst. The two literal singletons copy onto
// dst's own singletons rather than allocating duplicates, preserving
// the "canonical singleton" invariant across builders.
func Copy(src *Builder, r Ref, dst *Builder) Ref {
	n := src.Node(r)
	switch n.Tag {
	case Empty:
		return dst.Empty()
	case Full:
		return dst.Full()
	case Variable:
		ref, err := dst.Variable(n.Name)
		if err != nil {
			// n.Name was already validated when it was first
			// allocated in src; it cannot fail to validate again.
			panic(err)
		}
		return ref
	case Not:
		return dst.Not(Copy(src, n.Children[0], dst))
	case And:
		return dst.And(Copy(src, n.Children[0], dst), Copy(src, n.Children[1], dst))
	case Or:
		return dst.Or(Copy(src, n.Children[0], dst), Copy(src, n.Children[1], dst))
	case Xor:
		return dst.Xor(Copy(src, n.Children[0], dst), Copy(src, n.Children[1], dst))
	default:
		panic("expr: unreachable tag in Copy")
	}
}
