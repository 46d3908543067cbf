// SPDX-License-Identifier: GPL-3.0
// Copyright 2022 Pete Heist

package circuit

import "context"

// Kind identifies the kind of a Node.
type Kind int

const (
	// LeafKind is a leaf, evaluated by reading its boolean value.
	LeafKind Kind = iota

	// NotKind negates the value of its one child.
	NotKind

	// AndKind is true iff all of its children are true.
	AndKind

	// OrKind is true iff any of its children are true.
	OrKind

	// IfKind selects a branch using a three child condition/then/else
	// layout: Children()[0] is the condition, [1] is the then branch and
	// [2] is the else branch.
	IfKind

	// GTKind is true iff more than K of its children are true.
	GTKind

	// LTKind is true iff fewer than K of its children are true.
	LTKind
)

// String returns the name of the Kind.
func (k Kind) String() string {
	switch k {
	case LeafKind:
		return "LEAF"
	case NotKind:
		return "NOT"
	case AndKind:
		return "AND"
	case OrKind:
		return "OR"
	case IfKind:
		return "IF"
	case GTKind:
		return "GT"
	case LTKind:
		return "LT"
	default:
		return "UNKNOWN"
	}
}

// Node is a node in a boolean circuit. Nodes are immutable and safe to share
// read-only across any number of Solve calls.
type Node interface {
	// Kind returns the Node's Kind.
	Kind() Kind

	// Children returns the Node's children, in argument order. Children
	// returns nil for LeafKind nodes.
	Children() []Node

	// Threshold returns the K argument for GTKind and LTKind nodes. It is
	// unused for all other Kinds.
	Threshold() int
}

// Leaf is a Node that yields its boolean value by a (possibly blocking) read,
// rather than by evaluating children.
type Leaf interface {
	Node

	// Read returns the leaf's boolean value, blocking if necessary. Read
	// must return ErrCancelled (or an error satisfying errors.Is against it)
	// if ctx is done before a value is available.
	Read(ctx context.Context) (bool, error)
}

// opNode is the Node implementation for non-leaf Kinds.
type opNode struct {
	kind     Kind
	children []Node
	k        int
}

func (n *opNode) Kind() Kind       { return n.kind }
func (n *opNode) Children() []Node { return n.children }
func (n *opNode) Threshold() int   { return n.k }

// Not returns a NotKind Node negating n.
func Not(n Node) Node {
	return &opNode{kind: NotKind, children: []Node{n}}
}

// And returns an AndKind Node over nodes.
func And(nodes ...Node) Node {
	return &opNode{kind: AndKind, children: nodes}
}

// Or returns an OrKind Node over nodes.
func Or(nodes ...Node) Node {
	return &opNode{kind: OrKind, children: nodes}
}

// If returns an IfKind Node with the given condition, then and else
// branches.
func If(cond, then, els Node) Node {
	return &opNode{kind: IfKind, children: []Node{cond, then, els}}
}

// GT returns a GTKind Node that's true iff more than k of nodes are true.
func GT(k int, nodes ...Node) Node {
	return &opNode{kind: GTKind, children: nodes, k: k}
}

// LT returns an LTKind Node that's true iff fewer than k of nodes are true.
func LT(k int, nodes ...Node) Node {
	return &opNode{kind: LTKind, children: nodes, k: k}
}

// funcLeaf is a Leaf implemented by a plain function.
type funcLeaf struct {
	read func(context.Context) (bool, error)
}

func (l *funcLeaf) Kind() Kind       { return LeafKind }
func (l *funcLeaf) Children() []Node { return nil }
func (l *funcLeaf) Threshold() int   { return 0 }

func (l *funcLeaf) Read(ctx context.Context) (bool, error) {
	return l.read(ctx)
}

// Func returns a Leaf whose value is produced by calling f. f must respect
// ctx cancellation if it can block.
func Func(f func(context.Context) (bool, error)) Node {
	return &funcLeaf{read: f}
}

// Const returns a Leaf that immediately yields v.
func Const(v bool) Node {
	return Func(func(context.Context) (bool, error) { return v, nil })
}
