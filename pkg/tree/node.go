// Package tree holds the display-agnostic parse tree produced by every decoder.
package tree

import (
	"fmt"
	"strings"
)

// Node is one labeled entry of a parse tree. Children keep insertion order,
// which mirrors the order of fields on the wire.
type Node struct {
	Name     string  `json:"name" yaml:"name" cbor:"name"`
	Value    string  `json:"value,omitempty" yaml:"value,omitempty" cbor:"value,omitempty"`
	Hint     string  `json:"hint,omitempty" yaml:"hint,omitempty" cbor:"hint,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty" cbor:"children,omitempty"`
}

// New creates a node without children.
func New(name, value string) *Node {
	return &Node{Name: name, Value: value}
}

// Add appends a new child and returns it.
func (n *Node) Add(name, value string) *Node {
	child := New(name, value)
	n.Children = append(n.Children, child)
	return child
}

// AddHint appends a new child carrying a hint and returns it.
func (n *Node) AddHint(name, value, hint string) *Node {
	child := n.Add(name, value)
	child.Hint = hint
	return child
}

// Append attaches existing nodes as children. Nil nodes are skipped.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// WithHint sets the hint and returns the node for chaining.
func (n *Node) WithHint(hint string) *Node {
	n.Hint = hint
	return n
}

// Child returns the first direct child with the given name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find walks the tree depth-first and returns the first node with the given name.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Len returns the number of nodes in the tree, n included.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Len()
	}
	return total
}

// String renders the node line without children.
func (n *Node) String() string {
	var sb strings.Builder
	sb.WriteString(n.Name)
	if n.Value != "" {
		sb.WriteString(": ")
		sb.WriteString(n.Value)
	}
	if n.Hint != "" {
		fmt.Fprintf(&sb, " [%s]", n.Hint)
	}
	return sb.String()
}
