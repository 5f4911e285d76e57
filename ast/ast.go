// Package ast also defines the syntax tree built by the parser.
//
// minic has a single node type, [Node], tagged by a [NodeKind]. The shape of
// each kind is fixed:
//
//	Declaration   int x;                     Value="x"
//	Assignment    x = <expr>;                Value="x",  Right=<expr>
//	Add/Subtract  <expr> + <factor>          Value="+",  Left, Right
//	Identifier    x                          Value="x"
//	Number        42                         Value="42"
//	Comparison    <expr> == <expr>           Value="==", Left, Right
//	Conditional   if { <cmp> } { <assign> }  Value="if", Left=<cmp>, Right=<assign>
//
// Positional information (line + column) is stored on the Token field of
// every node.
package ast

import (
	"fmt"
	"strings"
)

// NodeKind identifies the grammar construct a [Node] represents.
type NodeKind int

const (
	// Declaration is `int name;`. It has no children.
	Declaration NodeKind = iota + 1
	// Assignment is `name = expr;`. Right holds the expression.
	Assignment
	// Add is `left + right`.
	Add
	// Subtract is `left - right`.
	Subtract
	// Identifier is a variable reference leaf.
	Identifier
	// Number is an integer literal leaf.
	Number
	// Comparison is the `left == right` condition of a conditional.
	Comparison
	// Conditional is `if { cmp } { assign }`. Left holds the Comparison,
	// Right holds the body Assignment.
	Conditional
)

var kindNames = map[NodeKind]string{
	Declaration: "Declaration",
	Assignment:  "Assignment",
	Add:         "Add",
	Subtract:    "Subtract",
	Identifier:  "Identifier",
	Number:      "Number",
	Comparison:  "Comparison",
	Conditional: "Conditional",
}

func (k NodeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// MarshalText lets encoders (JSON, YAML) render the kind by name.
func (k NodeKind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown node kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// Node is one element of the syntax tree. Children are owned exclusively by
// their parent; a Node is never shared between subtrees.
type Node struct {
	Kind  NodeKind `json:"kind" yaml:"kind"`
	Value string   `json:"value" yaml:"value"`
	Left  *Node    `json:"left,omitempty" yaml:"left,omitempty"`
	Right *Node    `json:"right,omitempty" yaml:"right,omitempty"`
	Token Token    `json:"-" yaml:"-"` // the token this node was built from
}

// IsLeaf reports whether n is one of the childless kinds.
func (n *Node) IsLeaf() bool {
	switch n.Kind {
	case Identifier, Number, Declaration:
		return true
	}
	return false
}

// Pos returns the 1-based line and column of the token that began n.
func (n *Node) Pos() (line, col int) {
	return n.Token.Line, n.Token.Col
}

// TokenLiteral returns the literal string of the token that began this node.
func (n *Node) TokenLiteral() string { return n.Token.Literal }

// String renders n back as canonical minic source. Lexing the result yields
// the same token sequence the node was parsed from.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case Declaration:
		return "int " + n.Value + ";"
	case Assignment:
		return n.Value + " = " + n.Right.String() + ";"
	case Add, Subtract, Comparison:
		return n.Left.String() + " " + n.Value + " " + n.Right.String()
	case Conditional:
		return "if { " + n.Left.String() + " } { " + n.Right.String() + " }"
	default:
		return n.Value
	}
}

// Program is the root produced by the parser: the top-level statements in
// source order.
type Program struct {
	Statements []*Node `json:"statements" yaml:"statements"`
}

// TokenLiteral returns the literal of the first statement's starting token,
// or "" for an empty program.
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// String returns all statements, one per line.
func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
