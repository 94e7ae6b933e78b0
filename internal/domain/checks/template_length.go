package checks

import (
	"fmt"

	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
)

const defaultMaxLength = 200

// TemplateLength reports templates longer than max_length lines.
type TemplateLength struct {
	domain.CheckBase
	MaxLength int
	visitor   *domain.Visitor
}

type templateLengthOptions struct {
	MaxLength *int `yaml:"max_length"`
}

func NewTemplateLength(opts domain.Options) (domain.Check, error) {
	var o templateLengthOptions
	if err := opts.Decode(&o); err != nil {
		return nil, err
	}
	c := &TemplateLength{
		CheckBase: domain.NewCheckBase("TemplateLength", domain.CategoryLiquid),
		MaxLength: defaultMaxLength,
	}
	if o.MaxLength != nil {
		if *o.MaxLength <= 0 {
			return nil, fmt.Errorf("max_length must be positive, got %d", *o.MaxLength)
		}
		c.MaxLength = *o.MaxLength
	}
	c.visitor = domain.NewVisitor().OnExit(ast.KindDocument, c.onDocumentExit)
	return c, nil
}

func (c *TemplateLength) Visitor() *domain.Visitor { return c.visitor }

func (c *TemplateLength) onDocumentExit(ctx *domain.Context, _ *ast.Node) {
	lines := ctx.Template.Lines()
	if lines > c.MaxLength {
		ctx.ReportRange(0, 0, fmt.Sprintf("Template has too many lines [%d/%d]", lines, c.MaxLength))
	}
}
