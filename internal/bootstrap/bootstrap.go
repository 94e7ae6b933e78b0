// Package bootstrap assembles the application services from the outbound
// adapters. Inbound adapters share it so every entry point runs with the
// same configuration, scanner and parser.
package bootstrap

import (
	"go.uber.org/zap"

	"github.com/abdidvp/themecheck/internal/adapters/outbound/config"
	"github.com/abdidvp/themecheck/internal/adapters/outbound/parser"
	"github.com/abdidvp/themecheck/internal/adapters/outbound/plugin"
	"github.com/abdidvp/themecheck/internal/adapters/outbound/scanner"
	"github.com/abdidvp/themecheck/internal/application"
)

// NewThemeCheckService wires the YAML config loader with plugin support, the
// filesystem scanner and the Liquid parser.
func NewThemeCheckService(logger *zap.Logger) (*application.ThemeCheckService, error) {
	defaults, err := config.Default()
	if err != nil {
		return nil, err
	}
	return application.NewThemeCheckService(
		config.New(defaults, plugin.New(), logger),
		scanner.New(),
		parser.New(),
		logger,
	), nil
}
