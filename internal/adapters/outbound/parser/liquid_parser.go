package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
)

// blockTags open a block that is closed by a matching end tag.
var blockTags = map[string]bool{
	"if":       true,
	"unless":   true,
	"for":      true,
	"case":     true,
	"capture":  true,
	"form":     true,
	"paginate": true,
	"tablerow": true,
}

// rawTags have a body that is not parsed as Liquid.
var rawTags = map[string]bool{
	"comment":    true,
	"raw":        true,
	"schema":     true,
	"style":      true,
	"javascript": true,
	"stylesheet": true,
}

// LiquidParser implements domain.TemplateParser for Liquid templates.
type LiquidParser struct{}

func New() *LiquidParser {
	return &LiquidParser{}
}

// Parse builds the syntax tree of source. Malformed input returns a
// *domain.ParseError pointing at the offending delimiter.
func (p *LiquidParser) Parse(source string) (*ast.Document, error) {
	s := &state{src: source, lines: ast.NewLineIndex(source)}
	root := &ast.Node{Kind: ast.KindDocument, Start: 0, End: len(source), OpenEnd: len(source)}
	s.stack = []*ast.Node{root}

	if err := s.run(); err != nil {
		return nil, err
	}
	if len(s.stack) > 1 {
		open := s.stack[len(s.stack)-1]
		return nil, s.errorf(open.Start, "'%s' tag was never closed", open.Name)
	}
	return &ast.Document{Root: root, Source: source}, nil
}

type state struct {
	src   string
	pos   int
	lines *ast.LineIndex
	stack []*ast.Node
}

func (s *state) errorf(offset int, format string, args ...any) *domain.ParseError {
	line, _ := s.lines.Position(offset)
	return &domain.ParseError{Message: fmt.Sprintf(format, args...), Offset: offset, Line: line}
}

func (s *state) top() *ast.Node {
	return s.stack[len(s.stack)-1]
}

func (s *state) add(n *ast.Node) {
	parent := s.top()
	n.Parent = parent
	parent.Children = append(parent.Children, n)
}

func (s *state) run() error {
	for s.pos < len(s.src) {
		next := nextDelimiter(s.src, s.pos)
		if next < 0 {
			s.addRaw(s.pos, len(s.src))
			return nil
		}
		if next > s.pos {
			s.addRaw(s.pos, next)
		}
		var err error
		if s.src[next+1] == '{' {
			err = s.variable(next)
		} else {
			err = s.tag(next)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func nextDelimiter(src string, from int) int {
	for i := from; i < len(src)-1; i++ {
		if src[i] == '{' && (src[i+1] == '{' || src[i+1] == '%') {
			return i
		}
	}
	return -1
}

func (s *state) addRaw(start, end int) {
	s.add(&ast.Node{Kind: ast.KindRaw, Value: s.src[start:end], Start: start, End: end, OpenEnd: end})
}

func (s *state) variable(start int) error {
	closeAt := strings.Index(s.src[start+2:], "}}")
	if closeAt < 0 {
		return s.errorf(start, "variable was not properly terminated with '}}'")
	}
	end := start + 2 + closeAt + 2
	inner := trimMarkers(s.src[start+2 : end-2])
	s.add(&ast.Node{Kind: ast.KindVariable, Markup: inner, Start: start, End: end, OpenEnd: end})
	s.pos = end
	return nil
}

func (s *state) tag(start int) error {
	closeAt := strings.Index(s.src[start+2:], "%}")
	if closeAt < 0 {
		return s.errorf(start, "tag was not properly terminated with '%%}'")
	}
	end := start + 2 + closeAt + 2
	s.pos = end

	inner := trimMarkers(s.src[start+2 : end-2])
	if inner == "" {
		return s.errorf(start, "tag was empty")
	}
	if strings.HasPrefix(inner, "#") {
		s.add(&ast.Node{Kind: ast.KindComment, Value: strings.TrimSpace(inner[1:]), Start: start, End: end, OpenEnd: end})
		return nil
	}

	name, markup := splitTag(inner)
	switch {
	case rawTags[name]:
		return s.rawBlock(name, markup, start, end)
	case blockTags[name]:
		n := &ast.Node{Kind: ast.KindBlock, Name: name, Markup: markup, Start: start, OpenEnd: end}
		s.add(n)
		s.stack = append(s.stack, n)
	case strings.HasPrefix(name, "end"):
		return s.closeBlock(name, start, end)
	default:
		s.add(&ast.Node{Kind: ast.KindTag, Name: name, Markup: markup, Start: start, End: end, OpenEnd: end})
	}
	return nil
}

func (s *state) closeBlock(name string, start, end int) error {
	open := s.top()
	if open.Kind != ast.KindBlock {
		return s.errorf(start, "unknown tag '%s'", name)
	}
	if want := "end" + open.Name; name != want {
		return s.errorf(start, "'%s' is not a valid delimiter for %s tags, use %s", name, open.Name, want)
	}
	open.End = end
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

func (s *state) rawBlock(name, markup string, start, openEnd int) error {
	closer := regexp.MustCompile(`\{%-?\s*end` + name + `\s*-?%\}`)
	loc := closer.FindStringIndex(s.src[openEnd:])
	if loc == nil {
		return s.errorf(start, "'%s' tag was never closed", name)
	}
	bodyEnd := openEnd + loc[0]
	end := openEnd + loc[1]
	body := s.src[openEnd:bodyEnd]
	s.pos = end

	if name == "comment" {
		s.add(&ast.Node{Kind: ast.KindComment, Name: name, Value: body, Start: start, End: end, OpenEnd: openEnd})
		return nil
	}
	n := &ast.Node{Kind: ast.KindBlock, Name: name, Markup: markup, Start: start, End: end, OpenEnd: openEnd}
	s.add(n)
	raw := &ast.Node{Kind: ast.KindRaw, Value: body, Start: openEnd, End: bodyEnd, OpenEnd: bodyEnd, Parent: n}
	n.Children = []*ast.Node{raw}
	return nil
}

// trimMarkers drops whitespace control dashes and surrounding space.
func trimMarkers(inner string) string {
	inner = strings.TrimPrefix(inner, "-")
	inner = strings.TrimSuffix(inner, "-")
	return strings.TrimSpace(inner)
}

func splitTag(inner string) (name, markup string) {
	i := strings.IndexAny(inner, " \t\r\n")
	if i < 0 {
		return inner, ""
	}
	return inner[:i], strings.TrimSpace(inner[i+1:])
}
