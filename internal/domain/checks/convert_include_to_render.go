package checks

import (
	"strings"

	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
)

// ConvertIncludeToRender flags the deprecated include tag.
type ConvertIncludeToRender struct {
	domain.CheckBase
	visitor *domain.Visitor
}

func NewConvertIncludeToRender(opts domain.Options) (domain.Check, error) {
	if err := noOptions(opts); err != nil {
		return nil, err
	}
	c := &ConvertIncludeToRender{CheckBase: domain.NewCheckBase("ConvertIncludeToRender", domain.CategoryLiquid)}
	c.visitor = domain.NewVisitor().OnEnter(ast.KindTag, c.onTag)
	return c, nil
}

func (c *ConvertIncludeToRender) Visitor() *domain.Visitor { return c.visitor }

func (c *ConvertIncludeToRender) onTag(ctx *domain.Context, n *ast.Node) {
	if n.Name != "include" {
		return
	}
	at := n.Start + strings.Index(ctx.Document.Text(n), "include")
	ctx.Report(n, "`include` is deprecated - convert it to `render`",
		domain.Edit{Start: at, End: at + len("include"), NewText: "render"})
}
