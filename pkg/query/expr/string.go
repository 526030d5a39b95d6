package expr

import "strings"

type stringVisitor struct{}

func (stringVisitor) VisitEmpty() string         { return "$0" }
func (stringVisitor) VisitFull() string          { return "$1" }
func (stringVisitor) VisitVariable(n string) string { return n }
func (stringVisitor) VisitNot(x string) string   { return "!" + x }
func (stringVisitor) VisitAnd(l, r string) string { return "(" + l + " & " + r + ")" }
func (stringVisitor) VisitOr(l, r string) string  { return "(" + l + " | " + r + ")" }
func (stringVisitor) VisitXor(l, r string) string { return "(" + l + " ^ " + r + ")" }

// String renders the subtree rooted at r in the query DSL's own
// grammar: literals print bare ($0/$1), variables print bare, Not
// prefixes its operand, and binaries parenthesize with their
// operator token between operands.
func String(b *Builder, r Ref) string {
	return Match(b, r, stringVisitor{})
}

// Join is a small helper used by callers that print a Query's
// variable list; it is not part of the expression grammar.
func Join(names []string, sep string) string {
	return strings.Join(names, sep)
}
