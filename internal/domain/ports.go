package domain

import "github.com/abdidvp/themecheck/internal/domain/ast"

// ThemeScanner enumerates the files of a theme, skipping ignored paths.
type ThemeScanner interface {
	Scan(root string, ignore []string) (*Theme, error)
}

// TemplateParser turns Liquid source into a document. Malformed source
// yields a *ParseError.
type TemplateParser interface {
	Parse(source string) (*ast.Document, error)
}

// ConfigLoader resolves the effective configuration for a path.
type ConfigLoader interface {
	Load(path string) (*Config, error)
}

// PluginLoader loads a `require` entry and registers the checks it declares.
type PluginLoader interface {
	Load(path string, reg *Registry) error
}
