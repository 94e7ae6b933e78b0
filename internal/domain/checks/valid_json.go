package checks

import (
	"errors"

	"github.com/goccy/go-json"

	"github.com/abdidvp/themecheck/internal/domain"
)

// ValidJSON reports JSON files that fail to decode.
type ValidJSON struct {
	domain.CheckBase
}

func NewValidJSON(opts domain.Options) (domain.Check, error) {
	if err := noOptions(opts); err != nil {
		return nil, err
	}
	return &ValidJSON{CheckBase: domain.NewCheckBase("ValidJSON", domain.CategoryJSON)}, nil
}

func (c *ValidJSON) CheckTheme(theme *domain.Theme, _ []domain.Offense, r *domain.ThemeReporter) {
	for _, f := range theme.JSONFiles {
		_, err := f.Content()
		if err == nil {
			continue
		}
		offset := 0
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			offset = int(syntaxErr.Offset)
		}
		r.Report(&f.SourceFile, offset, offset, err.Error())
	}
}
