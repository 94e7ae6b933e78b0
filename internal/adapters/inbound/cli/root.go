package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdidvp/themecheck/internal/adapters/outbound/logger"
	"github.com/abdidvp/themecheck/internal/adapters/outbound/tui"
	"github.com/abdidvp/themecheck/internal/application"
	"github.com/abdidvp/themecheck/internal/bootstrap"
	"github.com/abdidvp/themecheck/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// AbortError stops the process with a nonzero status. Message, when not
// empty, is printed to stderr.
type AbortError struct {
	Message string
}

func (e *AbortError) Error() string { return e.Message }

type rootOptions struct {
	categories        []string
	excludeCategories []string
	list              bool
	autoCorrect       bool
	jsonOutput        bool
	verbose           bool
	helpRequested     bool
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "themecheck [path]",
		Short:         "Lint Liquid themes",
		Long:          "themecheck runs a configurable set of checks over the Liquid templates and JSON files of a theme, and can correct some offenses automatically.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runCheck(cmd, opts, path)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.categories, "category", "c", nil, "Only run checks of this category (repeatable)")
	flags.StringArrayVarP(&opts.excludeCategories, "exclude-category", "x", nil, "Exclude checks of this category (repeatable)")
	flags.BoolVarP(&opts.list, "list", "l", false, "List enabled checks and exit")
	flags.BoolVarP(&opts.autoCorrect, "auto-correct", "a", false, "Automatically fix offenses")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log debug output to stderr")

	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		opts.helpRequested = true
		defaultHelp(c, args)
	})

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMCPCmd(opts))
	return cmd, opts
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

// Execute runs the command line and reports failures on stderr.
func Execute() error {
	return ExecuteArgs(os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteArgs runs the command line with explicit arguments and streams.
// Asking for help is reported as an abort so the process exits nonzero.
func ExecuteArgs(args []string, stdout, stderr io.Writer) error {
	cmd, opts := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil && opts.helpRequested {
		err = &AbortError{}
	}
	if err != nil && err.Error() != "" {
		fmt.Fprintln(stderr, err.Error())
	}
	return err
}

func toCategories(names []string) []domain.Category {
	out := make([]domain.Category, len(names))
	for i, n := range names {
		out[i] = domain.Category(n)
	}
	return out
}

func runCheck(cmd *cobra.Command, opts *rootOptions, path string) error {
	log := logger.New(cmd.ErrOrStderr(), opts.verbose)
	defer func() { _ = log.Sync() }()

	svc, err := bootstrap.NewThemeCheckService(log)
	if err != nil {
		return err
	}

	cfg, checks, err := svc.Prepare(path, application.RunOptions{
		OnlyCategories:    toCategories(opts.categories),
		ExcludeCategories: toCategories(opts.excludeCategories),
		AutoCorrect:       opts.autoCorrect,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.list {
		fmt.Fprint(out, tui.RenderCheckList(checks))
		return nil
	}

	if !opts.jsonOutput {
		fmt.Fprint(out, tui.RenderBanner(cfg.Root()))
	}

	report, err := svc.Analyze(context.Background(), cfg, checks)
	if errors.Is(err, application.ErrNoTemplates) {
		return &AbortError{Message: "No templates found.\n" + cmd.UsageString()}
	}
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		data, err := tui.RenderJSON(report)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprint(out, tui.RenderReport(report))
	}

	if len(report.Uncorrectable) > 0 {
		return &AbortError{}
	}
	return nil
}
