package ast

// Walk calls f for every node of the tree rooted at n in pre-order (node,
// left, right).
func Walk(n *Node, f func(*Node)) {
	Inspect(n, func(n *Node) bool {
		f(n)
		return true
	})
}

// Inspect traverses the tree rooted at n in pre-order (node, left, right),
// calling f for every node. If f returns false the children of that node are
// skipped.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	Inspect(n.Left, f)
	Inspect(n.Right, f)
}

// Leaves returns the values of the value-carrying leaves (identifiers and
// numbers) under n in source order, plus the names introduced by
// declarations and assignments.
func Leaves(n *Node) []string {
	var out []string
	var visit func(*Node)
	visit = func(n *Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case Declaration, Identifier, Number:
			out = append(out, n.Value)
		case Assignment:
			out = append(out, n.Value)
			visit(n.Right)
		default:
			visit(n.Left)
			visit(n.Right)
		}
	}
	visit(n)
	return out
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	c := 0
	Walk(n, func(*Node) { c++ })
	return c
}
