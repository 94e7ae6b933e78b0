package application

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
)

// Analyzer runs a set of checks over a theme and keeps the offenses found.
// Templates are analyzed in parallel; theme-scoped checks run once every
// template is done.
type Analyzer struct {
	theme       *domain.Theme
	parser      domain.TemplateParser
	autoCorrect bool
	logger      *zap.Logger

	templateChecks []domain.TemplateCheck
	visitors       []*domain.Visitor
	themeChecks    []domain.ThemeCheck
	syntaxOwner    domain.Check

	mu               sync.Mutex
	templateOffenses [][]domain.Offense
	themeOffenses    []domain.Offense
	offenses         []domain.Offense
}

func NewAnalyzer(
	theme *domain.Theme,
	checks []domain.Check,
	parser domain.TemplateParser,
	autoCorrect bool,
	logger *zap.Logger,
) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Analyzer{
		theme:       theme,
		parser:      parser,
		autoCorrect: autoCorrect,
		logger:      logger,
	}
	for _, c := range checks {
		if tc, ok := c.(domain.TemplateCheck); ok {
			a.templateChecks = append(a.templateChecks, tc)
			a.visitors = append(a.visitors, tc.Visitor())
		}
		if thc, ok := c.(domain.ThemeCheck); ok {
			a.themeChecks = append(a.themeChecks, thc)
		}
		if c.Name() == domain.SyntaxErrorCheck {
			a.syntaxOwner = c
		}
	}
	return a
}

// AnalyzeTheme parses and traverses every template, then runs the
// theme-scoped checks. Earlier results are discarded.
func (a *Analyzer) AnalyzeTheme(ctx context.Context) error {
	results := make([][]domain.Offense, len(a.theme.Templates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, tpl := range a.theme.Templates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], _ = a.analyzeTemplate(tpl)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("analyzing templates: %w", err)
	}

	a.mu.Lock()
	a.templateOffenses = results
	a.mu.Unlock()

	a.runThemeChecks()
	return nil
}

// analyzeTemplate parses tpl and runs every template check over it. A parse
// failure yields the parse error and, when the SyntaxError check is part of
// the run, a single offense owned by it.
func (a *Analyzer) analyzeTemplate(tpl *domain.Template) ([]domain.Offense, error) {
	doc, err := tpl.Parse(a.parser)
	if err != nil {
		if a.syntaxOwner == nil {
			a.logger.Warn("template failed to parse", zap.String("template", tpl.RelativePath), zap.Error(err))
			return nil, err
		}
		a.logger.Debug("template failed to parse", zap.String("template", tpl.RelativePath), zap.Error(err))
		return []domain.Offense{a.syntaxErrorOffense(tpl, err)}, err
	}

	contexts := make([]*domain.Context, len(a.templateChecks))
	for i, c := range a.templateChecks {
		contexts[i] = domain.NewContext(c, tpl, doc)
	}
	a.visit(doc.Root, contexts)

	var offenses []domain.Offense
	for _, c := range contexts {
		offenses = append(offenses, c.Offenses()...)
	}
	domain.SortOffenses(offenses)
	return offenses, nil
}

// visit dispatches enter hooks before the children of n and exit hooks
// after them.
func (a *Analyzer) visit(n *ast.Node, contexts []*domain.Context) {
	for i, v := range a.visitors {
		if h := v.Handler(domain.PhaseEnter, n.Kind); h != nil {
			h(contexts[i], n)
		}
	}
	for _, child := range n.Children {
		a.visit(child, contexts)
	}
	for i, v := range a.visitors {
		if h := v.Handler(domain.PhaseExit, n.Kind); h != nil {
			h(contexts[i], n)
		}
	}
}

func (a *Analyzer) syntaxErrorOffense(tpl *domain.Template, err error) domain.Offense {
	offset := 0
	msg := err.Error()
	var perr *domain.ParseError
	if errors.As(err, &perr) {
		offset = perr.Offset
		msg = "Liquid syntax error: " + perr.Message
	}
	return domain.NewOffense(a.syntaxOwner, &tpl.SourceFile, offset, offset, msg, nil)
}

// runThemeChecks replaces the theme-scoped offenses with a fresh run of
// every theme check against the current template offenses.
func (a *Analyzer) runThemeChecks() {
	a.mu.Lock()
	var gathered []domain.Offense
	for _, offenses := range a.templateOffenses {
		gathered = append(gathered, offenses...)
	}
	a.mu.Unlock()

	var themeOffenses []domain.Offense
	for _, c := range a.themeChecks {
		r := domain.NewThemeReporter(c)
		c.CheckTheme(a.theme, gathered, r)
		themeOffenses = append(themeOffenses, r.Offenses()...)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.themeOffenses = themeOffenses
	a.offenses = append(gathered, themeOffenses...)
	domain.SortOffenses(a.offenses)
}

// Offenses returns every offense in deterministic order, including those
// fixed by CorrectOffenses.
func (a *Analyzer) Offenses() []domain.Offense {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Offense(nil), a.offenses...)
}

// UncorrectableOffenses returns the offenses still present: everything when
// correction did not run, otherwise what could not be corrected.
func (a *Analyzer) UncorrectableOffenses() []domain.Offense {
	var out []domain.Offense
	for _, o := range a.Offenses() {
		if o.Status != domain.StatusCorrected {
			out = append(out, o)
		}
	}
	return out
}

// CorrectedOffenses returns the offenses fixed by CorrectOffenses.
func (a *Analyzer) CorrectedOffenses() []domain.Offense {
	var out []domain.Offense
	for _, o := range a.Offenses() {
		if o.Status == domain.StatusCorrected {
			out = append(out, o)
		}
	}
	return out
}
