package document

import "strings"

// Node is the tagged-variant view of a parsed document tree the
// structurer walks. It deliberately knows nothing about the parser that
// produced it: a node has a type discriminator, may contain ordered
// children, and may carry a text value and named attributes. Text leaves
// have an empty Type.
type Node struct {
	Type     string            // Element name, lowercased; "" for text leaves
	Text     string            // Text payload for leaves
	Attrs    map[string]string // Named attributes, nil when absent
	Children []*Node           // Ordered child nodes
}

// Attr returns the named attribute value or "" when absent
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// IsText returns true for text leaves
func (n *Node) IsText() bool {
	return n.Type == ""
}

// InnerText collects all leaf text beneath the node in document order,
// collapsing runs of whitespace between leaves to single spaces.
func (n *Node) InnerText() string {
	var parts []string
	n.collectText(&parts)
	return strings.Join(parts, " ")
}

func (n *Node) collectText(parts *[]string) {
	if n.IsText() {
		if trimmed := strings.TrimSpace(n.Text); trimmed != "" {
			*parts = append(*parts, trimmed)
		}
		return
	}
	for _, child := range n.Children {
		child.collectText(parts)
	}
}
