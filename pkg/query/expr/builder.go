package expr

import "fmt"

// Builder is the exclusive owner of every Node it produces. Nodes
// remain valid for the Builder's lifetime; no Ref outlives the
// Builder that minted it. Builders do not deduplicate structurally
// equal subtrees, except for the two literal singletons.
type Builder struct {
	nodes    []Node
	emptyRef Ref
	fullRef  Ref
}

// NewBuilder returns an empty arena with its Empty/Full singletons
// already allocated.
func NewBuilder() *Builder {
	b := &Builder{}
	b.emptyRef = b.push(Node{Tag: Empty, Children: [2]Ref{NoRef, NoRef}})
	b.fullRef = b.push(Node{Tag: Full, Children: [2]Ref{NoRef, NoRef}})
	return b
}

func (b *Builder) push(n Node) Ref {
	b.nodes = append(b.nodes, n)
	return Ref(len(b.nodes) - 1)
}

// Node returns the node at r. It panics on an out-of-range ref, since
// a valid Ref from this Builder is always in range; callers that
// received a Ref from user input must validate it before indexing.
func (b *Builder) Node(r Ref) Node {
	return b.nodes[r]
}

// Len reports how many nodes the arena currently holds.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Empty returns the canonical $0 literal for this Builder.
func (b *Builder) Empty() Ref { return b.emptyRef }

// Full returns the canonical $1 literal for this Builder.
func (b *Builder) Full() Ref { return b.fullRef }

// isNameByte reports whether c is a legal variable-name byte:
// [A-Za-z0-9_].
func isNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		return true
	default:
		return false
	}
}

// ValidVariableName reports whether name is a non-empty run of
// [A-Za-z0-9_].
func ValidVariableName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return false
		}
	}
	return true
}

// Variable allocates a new Variable node. It returns an error if name
// is not a non-empty run of [A-Za-z0-9_].
func (b *Builder) Variable(name string) (Ref, error) {
	if !ValidVariableName(name) {
		return NoRef, fmt.Errorf("invalid variable name %q", name)
	}
	return b.push(Node{Tag: Variable, Name: name, Children: [2]Ref{NoRef, NoRef}}), nil
}

// Not allocates a Not node over operand.
func (b *Builder) Not(operand Ref) Ref {
	return b.push(Node{Tag: Not, Children: [2]Ref{operand, NoRef}})
}

// And allocates an And node over (left, right), in that order.
func (b *Builder) And(left, right Ref) Ref {
	return b.push(Node{Tag: And, Children: [2]Ref{left, right}})
}

// Or allocates an Or node over (left, right), in that order.
func (b *Builder) Or(left, right Ref) Ref {
	return b.push(Node{Tag: Or, Children: [2]Ref{left, right}})
}

// Xor allocates an Xor node over (left, right), in that order.
func (b *Builder) Xor(left, right Ref) Ref {
	return b.push(Node{Tag: Xor, Children: [2]Ref{left, right}})
}
