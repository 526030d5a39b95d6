package expr

// Variables returns the ordered, deduplicated list of variable names
// encountered in a strict left-to-right post-order traversal of the
// subtree rooted at r. Post-order (rather than pre-order) is mandated
// so that two independent Builders parsing the same source string
// produce identical orderings regardless of traversal strategy
// differences elsewhere in the pipeline.
func Variables(b *Builder, r Ref) []string {
	seen := make(map[string]struct{})
	var order []string
	var walk func(r Ref)
	walk = func(r Ref) {
		n := b.Node(r)
		switch n.Tag {
		case Empty, Full:
			return
		case Variable:
			if _, ok := seen[n.Name]; !ok {
				seen[n.Name] = struct{}{}
				order = append(order, n.Name)
			}
		case Not:
			walk(n.Children[0])
		case And, Or, Xor:
			walk(n.Children[0])
			walk(n.Children[1])
		}
	}
	walk(r)
	return order
}
