package tree

import (
	"strings"
)

// DefaultIndent is the number of spaces per depth level used by Describe.
const DefaultIndent = 2

// Describe generates an indented, human-readable report of the tree.
// It joins lines with newlines but does not add a trailing newline.
func (n *Node) Describe() string {
	return n.DescribeIndent(DefaultIndent)
}

// DescribeIndent is Describe with a custom indentation width.
func (n *Node) DescribeIndent(width int) string {
	if n == nil {
		return ""
	}
	if width <= 0 {
		width = DefaultIndent
	}

	var lines []string
	n.writeLines(&lines, 0, width)
	return strings.Join(lines, "\n")
}

func (n *Node) writeLines(lines *[]string, depth, width int) {
	prefix := strings.Repeat(" ", depth*width)
	if depth > 0 {
		prefix += "- "
	}
	*lines = append(*lines, prefix+n.String())

	for _, c := range n.Children {
		c.writeLines(lines, depth+1, width)
	}
}
