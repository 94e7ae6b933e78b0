// Package ast defines the syntax tree produced by parsing a Liquid template.
package ast

import "strings"

// Kind discriminates the node types of a parsed template.
type Kind uint8

const (
	KindDocument Kind = iota
	KindRaw
	KindVariable
	KindTag
	KindBlock
	KindComment
)

var kindNames = [...]string{
	KindDocument: "document",
	KindRaw:      "raw",
	KindVariable: "variable",
	KindTag:      "tag",
	KindBlock:    "block",
	KindComment:  "comment",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is a single element of the tree. Start and End are byte offsets into
// the template source; End is exclusive.
type Node struct {
	Kind Kind
	// Name is the tag name for tags and blocks ("assign", "if", ...).
	Name string
	// Markup is the trimmed text after the tag name, or the expression of a
	// variable output.
	Markup string
	// Value holds the literal text of raw and comment nodes.
	Value string
	Start int
	End   int
	// OpenEnd is the end of the opening tag of a block. For every other
	// kind it equals End.
	OpenEnd  int
	Children []*Node
	Parent   *Node
}

// Document is the root of a parsed template together with its source.
type Document struct {
	Root   *Node
	Source string
}

// Text returns the exact source text covered by n.
func (d *Document) Text(n *Node) string {
	if n == nil || n.Start < 0 || n.End > len(d.Source) || n.Start > n.End {
		return ""
	}
	return d.Source[n.Start:n.End]
}

// Walk visits n and its descendants depth-first. If fn returns false the
// children of that node are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// FirstArgument returns the first quoted string argument of a tag markup,
// e.g. "product-card" for `'product-card', product: p`.
func FirstArgument(markup string) (string, bool) {
	markup = strings.TrimSpace(markup)
	if markup == "" {
		return "", false
	}
	q := markup[0]
	if q != '\'' && q != '"' {
		return "", false
	}
	end := strings.IndexByte(markup[1:], q)
	if end < 0 {
		return "", false
	}
	return markup[1 : end+1], true
}
