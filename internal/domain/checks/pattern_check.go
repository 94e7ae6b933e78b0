package checks

import (
	"fmt"
	"regexp"

	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
)

// PatternSpec declares a check that reports every match of a regular
// expression in template source. Plugin manifests are made of these.
type PatternSpec struct {
	Name     string          `yaml:"name"`
	Category domain.Category `yaml:"category"`
	Pattern  string          `yaml:"pattern"`
	Message  string          `yaml:"message"`
	// Replacement, when set, makes offenses correctable. It may refer to
	// capture groups ($1, ${name}).
	Replacement *string `yaml:"replacement"`
}

// PatternCheck is a TemplateCheck built from a PatternSpec.
type PatternCheck struct {
	domain.CheckBase
	spec    PatternSpec
	re      *regexp.Regexp
	visitor *domain.Visitor
}

// Registration validates spec and returns a registration constructing
// PatternChecks from it.
func (spec PatternSpec) Registration() (domain.Registration, error) {
	if spec.Pattern == "" {
		return domain.Registration{}, fmt.Errorf("check %s: pattern is required", spec.Name)
	}
	re, err := regexp.Compile(spec.Pattern)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("check %s: %w", spec.Name, err)
	}
	if spec.Category == "" {
		spec.Category = domain.CategoryLiquid
	}
	if spec.Message == "" {
		spec.Message = fmt.Sprintf("Source matches %s", spec.Pattern)
	}
	return domain.Registration{
		Name:     spec.Name,
		Category: spec.Category,
		New: func(opts domain.Options) (domain.Check, error) {
			if err := noOptions(opts); err != nil {
				return nil, err
			}
			c := &PatternCheck{
				CheckBase: domain.NewCheckBase(spec.Name, spec.Category),
				spec:      spec,
				re:        re,
			}
			c.visitor = domain.NewVisitor().OnEnter(ast.KindDocument, c.onDocument)
			return c, nil
		},
	}, nil
}

func (c *PatternCheck) Visitor() *domain.Visitor { return c.visitor }

func (c *PatternCheck) onDocument(ctx *domain.Context, _ *ast.Node) {
	src := ctx.Document.Source
	for _, m := range c.re.FindAllStringSubmatchIndex(src, -1) {
		start, end := m[0], m[1]
		if c.spec.Replacement == nil {
			ctx.ReportRange(start, end, c.spec.Message)
			continue
		}
		var text []byte
		text = c.re.ExpandString(text, *c.spec.Replacement, src, m)
		ctx.ReportRange(start, end, c.spec.Message, domain.Edit{Start: start, End: end, NewText: string(text)})
	}
}
