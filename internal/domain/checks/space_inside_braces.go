package checks

import (
	"strings"

	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
)

// SpaceInsideBraces enforces exactly one space between Liquid delimiters
// and their content.
type SpaceInsideBraces struct {
	domain.CheckBase
	visitor *domain.Visitor
}

func NewSpaceInsideBraces(opts domain.Options) (domain.Check, error) {
	if err := noOptions(opts); err != nil {
		return nil, err
	}
	c := &SpaceInsideBraces{CheckBase: domain.NewCheckBase("SpaceInsideBraces", domain.CategoryLiquid)}
	c.visitor = domain.NewVisitor().
		OnEnter(ast.KindVariable, c.onDelimited).
		OnEnter(ast.KindTag, c.onDelimited).
		OnEnter(ast.KindBlock, c.onDelimited)
	return c, nil
}

func (c *SpaceInsideBraces) Visitor() *domain.Visitor { return c.visitor }

func (c *SpaceInsideBraces) onDelimited(ctx *domain.Context, n *ast.Node) {
	open, closing := "{%", "%}"
	if n.Kind == ast.KindVariable {
		open, closing = "{{", "}}"
	}

	// Only the opening tag of a block is inspected.
	text := ctx.Document.Source[n.Start:n.OpenEnd]
	left := len(open)
	if strings.HasPrefix(text[left:], "-") {
		left++
	}
	right := len(text) - len(closing)
	if right > left && text[right-1] == '-' {
		right--
	}
	if right <= left {
		return
	}
	inner := text[left:right]
	if strings.TrimSpace(inner) == "" || strings.ContainsAny(inner, "\n") {
		return
	}

	lead := len(inner) - len(strings.TrimLeft(inner, " "))
	switch {
	case lead == 0:
		at := n.Start + left
		ctx.ReportRange(at, at, "Space missing after '"+open+"'", domain.Edit{Start: at, End: at, NewText: " "})
	case lead > 1:
		at := n.Start + left
		ctx.ReportRange(at, at+lead, "Too many spaces after '"+open+"'", domain.Edit{Start: at + 1, End: at + lead})
	}

	trail := len(inner) - len(strings.TrimRight(inner, " "))
	switch {
	case trail == 0:
		at := n.Start + right
		ctx.ReportRange(at, at, "Space missing before '"+closing+"'", domain.Edit{Start: at, End: at, NewText: " "})
	case trail > 1:
		at := n.Start + right - trail
		ctx.ReportRange(at, at+trail, "Too many spaces before '"+closing+"'", domain.Edit{Start: at + 1, End: at + trail})
	}
}
