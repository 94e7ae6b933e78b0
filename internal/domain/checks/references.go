package checks

import (
	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
)

// reference is a render, include or section tag naming another template.
type reference struct {
	from *domain.Template
	node *ast.Node
	// target is the referenced template name, e.g. "snippets/icon". Empty
	// when the tag names its template through a variable.
	target string
}

var referenceDirs = map[string]string{
	"render":  "snippets/",
	"include": "snippets/",
	"section": "sections/",
}

// references collects the template references of every parsed template.
func references(theme *domain.Theme) []reference {
	var refs []reference
	for _, tpl := range theme.Templates {
		doc := tpl.Document()
		if doc == nil {
			continue
		}
		ast.Walk(doc.Root, func(n *ast.Node) bool {
			dir, ok := referenceDirs[n.Name]
			if !ok || n.Kind != ast.KindTag {
				return true
			}
			ref := reference{from: tpl, node: n}
			if name, ok := ast.FirstArgument(n.Markup); ok {
				ref.target = dir + name
			}
			refs = append(refs, ref)
			return true
		})
	}
	return refs
}
