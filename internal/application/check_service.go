package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abdidvp/themecheck/internal/domain"
)

// ErrNoTemplates is returned when the theme root holds no template.
var ErrNoTemplates = errors.New("no templates found")

// RunOptions are the per-invocation overrides of the configuration.
type RunOptions struct {
	OnlyCategories    []domain.Category
	ExcludeCategories []domain.Category
	AutoCorrect       bool
}

// Report is the outcome of one run.
type Report struct {
	Root string
	// Files is the number of theme files inspected.
	Files         int
	Checks        []domain.Check
	Offenses      []domain.Offense
	Uncorrectable []domain.Offense
	Corrected     []domain.Offense
}

// ThemeCheckService orchestrates a run:
// load config -> build checks -> scan theme -> analyze -> correct.
type ThemeCheckService struct {
	configs domain.ConfigLoader
	scanner domain.ThemeScanner
	parser  domain.TemplateParser
	logger  *zap.Logger
}

func NewThemeCheckService(
	configs domain.ConfigLoader,
	scanner domain.ThemeScanner,
	parser domain.TemplateParser,
	logger *zap.Logger,
) *ThemeCheckService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThemeCheckService{
		configs: configs,
		scanner: scanner,
		parser:  parser,
		logger:  logger,
	}
}

// Prepare resolves the configuration for path and instantiates the enabled
// checks. A check that cannot be constructed aborts the run.
func (s *ThemeCheckService) Prepare(path string, opts RunOptions) (*domain.Config, []domain.Check, error) {
	cfg, err := s.configs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.OnlyCategories = opts.OnlyCategories
	cfg.ExcludeCategories = opts.ExcludeCategories
	cfg.AutoCorrect = opts.AutoCorrect

	checks, err := cfg.EnabledChecks(cfg.Registry)
	if err != nil {
		return nil, nil, fmt.Errorf("building checks: %w", err)
	}
	return cfg, checks, nil
}

// Analyze scans the theme of cfg, runs checks over it and, when
// auto-correction is on, corrects what it can.
func (s *ThemeCheckService) Analyze(ctx context.Context, cfg *domain.Config, checks []domain.Check) (*Report, error) {
	theme, err := s.scanner.Scan(cfg.Root(), cfg.IgnoredPatterns())
	if err != nil {
		return nil, fmt.Errorf("scanning theme: %w", err)
	}
	if len(theme.Templates) == 0 {
		return nil, ErrNoTemplates
	}
	s.logger.Debug("theme scanned",
		zap.String("root", theme.Root),
		zap.Int("templates", len(theme.Templates)),
		zap.Int("json_files", len(theme.JSONFiles)),
		zap.Int("checks", len(checks)),
	)

	analyzer := NewAnalyzer(theme, checks, s.parser, cfg.AutoCorrect, s.logger)
	if err := analyzer.AnalyzeTheme(ctx); err != nil {
		return nil, err
	}
	if err := analyzer.CorrectOffenses(ctx); err != nil {
		return nil, fmt.Errorf("correcting offenses: %w", err)
	}

	return &Report{
		Root:          theme.Root,
		Files:         len(theme.Templates) + len(theme.JSONFiles),
		Checks:        checks,
		Offenses:      analyzer.Offenses(),
		Uncorrectable: analyzer.UncorrectableOffenses(),
		Corrected:     analyzer.CorrectedOffenses(),
	}, nil
}

// Run is Prepare followed by Analyze.
func (s *ThemeCheckService) Run(ctx context.Context, path string, opts RunOptions) (*Report, error) {
	cfg, checks, err := s.Prepare(path, opts)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, cfg, checks)
}
