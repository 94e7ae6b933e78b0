package domain

import (
	"fmt"
	"sort"

	"github.com/abdidvp/themecheck/internal/domain/ast"
)

// SyntaxErrorCheck owns the offenses raised for templates that fail to parse.
const SyntaxErrorCheck = "SyntaxError"

// Reasons recorded on offenses whose correction was rolled back.
const (
	ReasonSyntaxError = "correction introduced a syntax error"
	ReasonUnresolved  = "correction did not resolve the offense"
)

// Status tracks what correction did to an offense.
type Status uint8

const (
	StatusOpen Status = iota
	StatusCorrected
	StatusUncorrectable
)

func (s Status) String() string {
	switch s {
	case StatusCorrected:
		return "corrected"
	case StatusUncorrectable:
		return "uncorrectable"
	default:
		return "open"
	}
}

// Edit replaces source[Start:End] with NewText.
type Edit struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"new_text"`
}

// Correction is a check-supplied rewrite that resolves an offense.
type Correction struct {
	Edits []Edit `json:"edits"`
}

// Span returns the smallest range covering every edit.
func (c *Correction) Span() (start, end int) {
	for i, e := range c.Edits {
		if i == 0 || e.Start < start {
			start = e.Start
		}
		if i == 0 || e.End > end {
			end = e.End
		}
	}
	return start, end
}

// Offense is a single finding. Values are never mutated once reported;
// correction produces copies carrying a new Status.
type Offense struct {
	Check      string      `json:"check"`
	Category   Category    `json:"category"`
	File       string      `json:"file"`
	Path       string      `json:"-"`
	Message    string      `json:"message"`
	Start      int         `json:"start"`
	End        int         `json:"end"`
	Line       int         `json:"line"`
	Column     int         `json:"column"`
	Correction *Correction `json:"correction,omitempty"`
	Status     Status      `json:"-"`
	Reason     string      `json:"reason,omitempty"`
}

// NewOffense records a finding of check in file covering [start, end).
func NewOffense(check Check, file *SourceFile, start, end int, message string, corr *Correction) Offense {
	line, col := file.Position(start)
	o := Offense{
		Check:    check.Name(),
		Category: check.Category(),
		File:     file.RelativePath,
		Path:     file.Path,
		Message:  message,
		Start:    start,
		End:      end,
		Line:     line,
		Column:   col,
	}
	if corr != nil && len(corr.Edits) > 0 {
		o.Correction = corr
	}
	return o
}

// Correctable reports whether the offense carries a correction.
func (o Offense) Correctable() bool {
	return o.Correction != nil && len(o.Correction.Edits) > 0
}

// WithStatus returns a copy of o with the given status and reason.
func (o Offense) WithStatus(s Status, reason string) Offense {
	o.Status = s
	o.Reason = reason
	return o
}

// Key identifies an offense across rewrites of its template, where offsets
// shift but check and message stay the same.
func (o Offense) Key() string {
	return o.Check + "\x00" + o.Message
}

func (o Offense) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", o.File, o.Line, o.Check, o.Message)
}

// OffenseLess orders by file, start offset, check name, then message.
func OffenseLess(a, b Offense) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.Check != b.Check {
		return a.Check < b.Check
	}
	return a.Message < b.Message
}

// SortOffenses sorts in place using OffenseLess.
func SortOffenses(offenses []Offense) {
	sort.SliceStable(offenses, func(i, j int) bool {
		return OffenseLess(offenses[i], offenses[j])
	})
}

// Context is handed to visitor hooks while one check traverses one template.
type Context struct {
	Template *Template
	Document *ast.Document
	// State is the value produced by the visitor's NewState for this template.
	State    any
	check    Check
	offenses []Offense
}

// NewContext prepares a traversal of tpl by check.
func NewContext(check Check, tpl *Template, doc *ast.Document) *Context {
	c := &Context{Template: tpl, Document: doc, check: check}
	if tc, ok := check.(TemplateCheck); ok {
		if v := tc.Visitor(); v != nil && v.NewState != nil {
			c.State = v.NewState()
		}
	}
	return c
}

// Report records an offense covering node n. Edits, if any, make it correctable.
func (c *Context) Report(n *ast.Node, message string, edits ...Edit) {
	c.ReportRange(n.Start, n.End, message, edits...)
}

// ReportRange records an offense covering [start, end).
func (c *Context) ReportRange(start, end int, message string, edits ...Edit) {
	var corr *Correction
	if len(edits) > 0 {
		corr = &Correction{Edits: edits}
	}
	c.offenses = append(c.offenses, NewOffense(c.check, &c.Template.SourceFile, start, end, message, corr))
}

// Offenses returns what was reported so far.
func (c *Context) Offenses() []Offense {
	return c.offenses
}

// ThemeReporter collects offenses raised by theme-scoped checks.
type ThemeReporter struct {
	check    Check
	offenses []Offense
}

// NewThemeReporter returns a reporter attributing offenses to check.
func NewThemeReporter(check Check) *ThemeReporter {
	return &ThemeReporter{check: check}
}

// Report records an offense in file covering [start, end).
func (r *ThemeReporter) Report(file *SourceFile, start, end int, message string) {
	r.offenses = append(r.offenses, NewOffense(r.check, file, start, end, message, nil))
}

// Offenses returns what was reported so far.
func (r *ThemeReporter) Offenses() []Offense {
	return r.offenses
}
