package document

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParseHTML parses raw HTML/XML markup and returns the Node tree rooted
// at the first match of rootSelector. The parse itself is delegated to
// goquery; everything downstream of this adapter works on the Node
// variant only.
//
// A document whose root container cannot be found is fatal for that
// document and reported as ErrMissingRoot.
func ParseHTML(markup string, rootSelector string) (*Node, error) {
	if rootSelector == "" {
		rootSelector = "body"
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	sel := doc.Find(rootSelector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: selector %q", ErrMissingRoot, rootSelector)
	}

	return fromHTMLNode(sel.Get(0)), nil
}

// fromHTMLNode converts an html.Node subtree into the Node variant,
// preserving document order and dropping comments and non-content nodes.
func fromHTMLNode(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return &Node{Text: n.Data}
	case html.ElementNode, html.DocumentNode:
		node := &Node{Type: strings.ToLower(n.Data)}
		if len(n.Attr) > 0 {
			node.Attrs = make(map[string]string, len(n.Attr))
			for _, attr := range n.Attr {
				node.Attrs[strings.ToLower(attr.Key)] = attr.Val
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if converted := fromHTMLNode(child); converted != nil {
				node.Children = append(node.Children, converted)
			}
		}
		return node
	default:
		// Comments, doctypes and script data carry no transcript content
		return nil
	}
}
