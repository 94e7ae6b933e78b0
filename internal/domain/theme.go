package domain

import (
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/abdidvp/themecheck/internal/domain/ast"
)

// SourceFile is one file of the theme with its current source text.
type SourceFile struct {
	Path         string
	RelativePath string

	mu     sync.RWMutex
	source string
	lines  *ast.LineIndex
}

func (f *SourceFile) init(absPath, relPath, source string) {
	f.Path = absPath
	f.RelativePath = relPath
	f.source = source
}

// Source returns the current source text.
func (f *SourceFile) Source() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.source
}

func (f *SourceFile) index() *ast.LineIndex {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lines == nil {
		f.lines = ast.NewLineIndex(f.source)
	}
	return f.lines
}

// Position returns the 1-based line and column of a byte offset.
func (f *SourceFile) Position(offset int) (line, col int) {
	return f.index().Position(offset)
}

// Lines returns the number of lines in the source.
func (f *SourceFile) Lines() int {
	return f.index().Lines()
}

// write persists src to disk, keeping the file mode, and replaces the
// in-memory source.
func (f *SourceFile) write(src string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(f.Path, []byte(src), mode); err != nil {
		return fmt.Errorf("write %s: %w", f.RelativePath, err)
	}
	f.source = src
	f.lines = nil
	return nil
}

// ParseError is returned by a TemplateParser for malformed source.
type ParseError struct {
	Message string
	Offset  int
	Line    int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Liquid syntax error (line %d): %s", e.Line, e.Message)
}

// Template is a Liquid file of the theme. Its document is parsed lazily and
// cached until the source is rewritten.
type Template struct {
	SourceFile

	parseMu  sync.Mutex
	parsed   bool
	doc      *ast.Document
	parseErr error
}

// NewTemplate returns a template with the given source.
func NewTemplate(absPath, relPath, source string) *Template {
	t := &Template{}
	t.init(absPath, relPath, source)
	return t
}

// Name is the relative path without extension, e.g. "snippets/icon".
func (t *Template) Name() string {
	return strings.TrimSuffix(t.RelativePath, path.Ext(t.RelativePath))
}

// Parse returns the parsed document, parsing on first use.
func (t *Template) Parse(p TemplateParser) (*ast.Document, error) {
	t.parseMu.Lock()
	defer t.parseMu.Unlock()
	if !t.parsed {
		t.doc, t.parseErr = p.Parse(t.Source())
		t.parsed = true
	}
	return t.doc, t.parseErr
}

// Document returns the cached document, or nil if the template has not been
// parsed or failed to parse.
func (t *Template) Document() *ast.Document {
	t.parseMu.Lock()
	defer t.parseMu.Unlock()
	if t.parseErr != nil {
		return nil
	}
	return t.doc
}

// Write persists new source and drops the cached document.
func (t *Template) Write(src string) error {
	if err := t.write(src); err != nil {
		return err
	}
	t.parseMu.Lock()
	t.parsed, t.doc, t.parseErr = false, nil, nil
	t.parseMu.Unlock()
	return nil
}

// JSONFile is a structured data file of the theme (locales, JSON templates).
type JSONFile struct {
	SourceFile

	once    sync.Once
	content any
	err     error
}

// NewJSONFile returns a JSON file with the given source.
func NewJSONFile(absPath, relPath, source string) *JSONFile {
	f := &JSONFile{}
	f.init(absPath, relPath, source)
	return f
}

// Content returns the decoded document, decoding on first use.
func (f *JSONFile) Content() (any, error) {
	f.once.Do(func() {
		f.err = json.Unmarshal([]byte(f.Source()), &f.content)
	})
	return f.content, f.err
}

// Theme is the set of files under analysis, in enumeration order.
type Theme struct {
	Root      string
	Templates []*Template
	JSONFiles []*JSONFile
}

// Empty reports whether the theme has no files at all.
func (t *Theme) Empty() bool {
	return len(t.Templates) == 0 && len(t.JSONFiles) == 0
}

// Template returns the template with the given name ("snippets/icon").
func (t *Theme) Template(name string) *Template {
	for _, tpl := range t.Templates {
		if tpl.Name() == name {
			return tpl
		}
	}
	return nil
}

// Snippets returns the templates under snippets/.
func (t *Theme) Snippets() []*Template {
	var out []*Template
	for _, tpl := range t.Templates {
		if strings.HasPrefix(tpl.RelativePath, "snippets/") {
			out = append(out, tpl)
		}
	}
	return out
}
