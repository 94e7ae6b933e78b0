package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
)

var (
	quotedString = regexp.MustCompile(`'[^']*'|"[^"]*"`)
	identifier   = regexp.MustCompile(`[A-Za-z_][\w-]*`)
)

// UnusedAssign reports variables that are assigned but never read in the
// same template. The correction removes the assign tag.
type UnusedAssign struct {
	domain.CheckBase
	visitor *domain.Visitor
}

type assignState struct {
	assigns []*ast.Node
	targets map[*ast.Node]string
	used    map[string]bool
}

func NewUnusedAssign(opts domain.Options) (domain.Check, error) {
	if err := noOptions(opts); err != nil {
		return nil, err
	}
	c := &UnusedAssign{CheckBase: domain.NewCheckBase("UnusedAssign", domain.CategoryLiquid)}
	c.visitor = domain.NewVisitor().
		WithState(func() any {
			return &assignState{targets: map[*ast.Node]string{}, used: map[string]bool{}}
		}).
		OnEnter(ast.KindTag, c.onTag).
		OnEnter(ast.KindBlock, c.onMarkup).
		OnEnter(ast.KindVariable, c.onMarkup).
		OnExit(ast.KindDocument, c.onDocumentExit)
	return c, nil
}

func (c *UnusedAssign) Visitor() *domain.Visitor { return c.visitor }

func (c *UnusedAssign) onTag(ctx *domain.Context, n *ast.Node) {
	if n.Name != "assign" {
		c.onMarkup(ctx, n)
		return
	}
	st := ctx.State.(*assignState)
	target, value, ok := strings.Cut(n.Markup, "=")
	if !ok {
		return
	}
	st.assigns = append(st.assigns, n)
	st.targets[n] = strings.TrimSpace(target)
	markUsed(st, value)
}

func (c *UnusedAssign) onMarkup(ctx *domain.Context, n *ast.Node) {
	markUsed(ctx.State.(*assignState), n.Markup)
}

func markUsed(st *assignState, markup string) {
	markup = quotedString.ReplaceAllString(markup, "")
	for _, id := range identifier.FindAllString(markup, -1) {
		st.used[id] = true
	}
}

func (c *UnusedAssign) onDocumentExit(ctx *domain.Context, _ *ast.Node) {
	st := ctx.State.(*assignState)
	for _, n := range st.assigns {
		name := st.targets[n]
		if st.used[name] || strings.HasPrefix(name, "_") {
			continue
		}
		ctx.Report(n, fmt.Sprintf("`%s` is never used", name), domain.Edit{Start: n.Start, End: n.End})
	}
}
