// Package checks holds the built-in theme checks.
package checks

import "github.com/abdidvp/themecheck/internal/domain"

// Builtins returns the registrations of every built-in check, in the order
// they appear in the default configuration.
func Builtins() []domain.Registration {
	return []domain.Registration{
		{Name: domain.SyntaxErrorCheck, Category: domain.CategoryLiquid, New: NewSyntaxError},
		{Name: "TemplateLength", Category: domain.CategoryLiquid, New: NewTemplateLength},
		{Name: "SpaceInsideBraces", Category: domain.CategoryLiquid, New: NewSpaceInsideBraces},
		{Name: "UnusedAssign", Category: domain.CategoryLiquid, New: NewUnusedAssign},
		{Name: "ConvertIncludeToRender", Category: domain.CategoryLiquid, New: NewConvertIncludeToRender},
		{Name: "MissingTemplate", Category: domain.CategoryLiquid, New: NewMissingTemplate},
		{Name: "UnusedSnippet", Category: domain.CategoryLiquid, New: NewUnusedSnippet},
		{Name: "ValidJSON", Category: domain.CategoryJSON, New: NewValidJSON},
		{Name: "MatchingTranslations", Category: domain.CategoryTranslation, New: NewMatchingTranslations},
	}
}

// NewRegistry returns a registry preloaded with the built-in checks. Each run
// gets its own so plugin registrations never leak between runs.
func NewRegistry() *domain.Registry {
	reg := domain.NewRegistry()
	for _, r := range Builtins() {
		if err := reg.Register(r); err != nil {
			panic(err)
		}
	}
	return reg
}

// noOptions rejects any option for checks that take none.
func noOptions(opts domain.Options) error {
	var none struct{}
	return opts.Decode(&none)
}
