package domain

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/camelcase"
	"gopkg.in/yaml.v3"

	"github.com/abdidvp/themecheck/internal/domain/ast"
)

// Category is a coarse grouping label used to include or exclude checks.
type Category string

const (
	CategoryLiquid      Category = "liquid"
	CategoryJSON        Category = "json"
	CategoryTranslation Category = "translation"
)

// Options are the configured settings of a check, minus "enabled".
type Options map[string]any

// Decode copies the options into target, a pointer to a struct with yaml
// tags. Options that target does not declare are rejected.
func (o Options) Decode(target any) error {
	if len(o) == 0 {
		return nil
	}
	data, err := yaml.Marshal(map[string]any(o))
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// Check is a pluggable analysis unit. Concrete checks additionally implement
// TemplateCheck, ThemeCheck, or both.
type Check interface {
	Name() string
	Category() Category
	Options() Options
	SetOptions(Options)
}

// TemplateCheck is run against every parsed template.
type TemplateCheck interface {
	Check
	Visitor() *Visitor
}

// ThemeCheck needs the whole theme at once. It runs after every template
// has been traversed and may add offenses of its own.
type ThemeCheck interface {
	Check
	CheckTheme(theme *Theme, offenses []Offense, r *ThemeReporter)
}

// CheckBase carries the identity and resolved options of a check. Embed it.
type CheckBase struct {
	name     string
	category Category
	options  Options
}

// NewCheckBase returns a base with the given identity.
func NewCheckBase(name string, category Category) CheckBase {
	return CheckBase{name: name, category: category}
}

func (b *CheckBase) Name() string            { return b.name }
func (b *CheckBase) Category() Category      { return b.category }
func (b *CheckBase) Options() Options        { return b.options }
func (b *CheckBase) SetOptions(opts Options) { b.options = opts }

// CheckCode turns a check name into a kebab-case rule code,
// e.g. "TemplateLength" becomes "template-length".
func CheckCode(name string) string {
	words := camelcase.Split(name)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}

// Phase selects whether a hook runs before or after a node's children.
type Phase uint8

const (
	PhaseEnter Phase = iota
	PhaseExit
)

func (p Phase) String() string {
	if p == PhaseExit {
		return "exit"
	}
	return "enter"
}

// Handler is invoked for one node of one template.
type Handler func(c *Context, n *ast.Node)

// Visitor declares the hooks a check supports. It is built once when the
// check is constructed; kinds without a handler are no-ops.
type Visitor struct {
	// NewState, when set, produces fresh per-template state exposed as
	// Context.State. It is called once per template before any hook.
	NewState func() any
	Enter    map[ast.Kind]Handler
	Exit     map[ast.Kind]Handler
}

// NewVisitor returns an empty visitor.
func NewVisitor() *Visitor {
	return &Visitor{Enter: map[ast.Kind]Handler{}, Exit: map[ast.Kind]Handler{}}
}

// OnEnter registers h to run before the children of nodes of kind k.
func (v *Visitor) OnEnter(k ast.Kind, h Handler) *Visitor {
	v.Enter[k] = h
	return v
}

// OnExit registers h to run after the children of nodes of kind k.
func (v *Visitor) OnExit(k ast.Kind, h Handler) *Visitor {
	v.Exit[k] = h
	return v
}

// WithState sets the per-template state factory.
func (v *Visitor) WithState(fn func() any) *Visitor {
	v.NewState = fn
	return v
}

// Handler returns the hook for (phase, kind), or nil.
func (v *Visitor) Handler(phase Phase, k ast.Kind) Handler {
	if v == nil {
		return nil
	}
	if phase == PhaseExit {
		return v.Exit[k]
	}
	return v.Enter[k]
}

// Hooks lists the supported hooks as "phase:kind", sorted.
func (v *Visitor) Hooks() []string {
	if v == nil {
		return nil
	}
	var hooks []string
	for k := range v.Enter {
		hooks = append(hooks, PhaseEnter.String()+":"+k.String())
	}
	for k := range v.Exit {
		hooks = append(hooks, PhaseExit.String()+":"+k.String())
	}
	sort.Strings(hooks)
	return hooks
}

// Constructor builds a check from its options. It must reject options it
// does not understand.
type Constructor func(opts Options) (Check, error)

// Registration binds a check identifier to its category and constructor.
type Registration struct {
	Name     string
	Category Category
	New      Constructor
}

// Build constructs the check. With no options the constructor receives nil
// and must apply its own defaults.
func (r Registration) Build(opts Options) (Check, error) {
	if len(opts) == 0 {
		opts = nil
	}
	c, err := r.New(opts)
	if err != nil {
		return nil, fmt.Errorf("constructing %s: %w", r.Name, err)
	}
	c.SetOptions(opts)
	return c, nil
}

// Registry holds the check types known to one run.
type Registry struct {
	mu    sync.RWMutex
	order []string
	regs  map[string]Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{regs: make(map[string]Registration)}
}

// Register adds a check type. Names must be unique and start with an
// uppercase letter.
func (r *Registry) Register(reg Registration) error {
	if !IsCheckName(reg.Name) {
		return fmt.Errorf("invalid check name %q: must start with an uppercase letter", reg.Name)
	}
	if reg.New == nil {
		return fmt.Errorf("check %s has no constructor", reg.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.regs[reg.Name]; ok {
		return fmt.Errorf("check %s is already registered", reg.Name)
	}
	r.regs[reg.Name] = reg
	r.order = append(r.order, reg.Name)
	return nil
}

// Lookup returns the registration for name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.regs[name]
	return reg, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
