package checks

import (
	"fmt"

	"github.com/abdidvp/themecheck/internal/domain"
)

// MissingTemplate reports render, include and section tags naming a
// template that does not exist in the theme.
type MissingTemplate struct {
	domain.CheckBase
}

func NewMissingTemplate(opts domain.Options) (domain.Check, error) {
	if err := noOptions(opts); err != nil {
		return nil, err
	}
	return &MissingTemplate{CheckBase: domain.NewCheckBase("MissingTemplate", domain.CategoryLiquid)}, nil
}

func (c *MissingTemplate) CheckTheme(theme *domain.Theme, _ []domain.Offense, r *domain.ThemeReporter) {
	for _, ref := range references(theme) {
		if ref.target == "" || theme.Template(ref.target) != nil {
			continue
		}
		r.Report(&ref.from.SourceFile, ref.node.Start, ref.node.End, fmt.Sprintf("'%s.liquid' is not found", ref.target))
	}
}
