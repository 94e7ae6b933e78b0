package checks

import (
	"fmt"

	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
)

// branchParents lists the blocks each branch tag may appear in.
var branchParents = map[string][]string{
	"else":  {"if", "unless", "case", "for"},
	"elsif": {"if", "unless"},
	"when":  {"case"},
}

// SyntaxError reports branch tags used outside a block that accepts them.
// Templates that fail to parse are reported under the same name by the
// analyzer.
type SyntaxError struct {
	domain.CheckBase
	visitor *domain.Visitor
}

func NewSyntaxError(opts domain.Options) (domain.Check, error) {
	if err := noOptions(opts); err != nil {
		return nil, err
	}
	c := &SyntaxError{CheckBase: domain.NewCheckBase(domain.SyntaxErrorCheck, domain.CategoryLiquid)}
	c.visitor = domain.NewVisitor().OnEnter(ast.KindTag, c.onTag)
	return c, nil
}

func (c *SyntaxError) Visitor() *domain.Visitor { return c.visitor }

func (c *SyntaxError) onTag(ctx *domain.Context, n *ast.Node) {
	parents, ok := branchParents[n.Name]
	if !ok {
		return
	}
	if n.Parent == nil || n.Parent.Kind != ast.KindBlock {
		ctx.Report(n, fmt.Sprintf("Unexpected '%s' outside of a block", n.Name))
		return
	}
	for _, p := range parents {
		if n.Parent.Name == p {
			return
		}
	}
	ctx.Report(n, fmt.Sprintf("Unexpected '%s' inside '%s'", n.Name, n.Parent.Name))
}
