package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"
)

// Reserved top-level configuration keys.
const (
	KeyRoot    = "root"
	KeyIgnore  = "ignore"
	KeyRequire = "require"
	KeyEnabled = "enabled"
)

// ErrUnknownCheck is returned when an enabled check identifier has no
// registered constructor.
var ErrUnknownCheck = errors.New("unknown check")

// IsCheckName reports whether a configuration key names a check.
func IsCheckName(key string) bool {
	for _, r := range key {
		return unicode.IsUpper(r)
	}
	return false
}

// ValidateSettings compares loaded against defaults and returns the valid
// subset together with a warning for every key that was dropped. It never
// fails: deviations are omitted and later filled in by MergeSettings.
func ValidateSettings(loaded, defaults *Settings) (*Settings, []string) {
	var warnings []string
	valid := validateSettings(loaded, defaults, nil, &warnings)
	return valid, warnings
}

func validateSettings(cfg, defaults *Settings, parents []string, warnings *[]string) *Settings {
	out := NewSettings()
	for _, key := range cfg.Keys() {
		value, _ := cfg.Get(key)

		// Without a default there is nothing to compare to, e.g. custom checks.
		if defaults == nil {
			out.Set(key, value)
			continue
		}

		def, _ := defaults.Get(key)
		keys := append(append([]string(nil), parents...), key)
		name := strings.Join(keys, ".")

		switch {
		case IsCheckName(key):
			sub, ok := value.(*Settings)
			switch {
			case !ok && def == nil:
				*warnings = append(*warnings, fmt.Sprintf("unknown configuration: %s", name))
				continue
			case !ok:
				*warnings = append(*warnings, fmt.Sprintf("bad configuration type for %s: expected a mapping, got %s", name, inspect(value)))
				continue
			}
			defSub, _ := def.(*Settings)
			out.Set(key, validateSettings(sub, defSub, keys, warnings))
		case def == nil:
			*warnings = append(*warnings, fmt.Sprintf("unknown configuration: %s", name))
		case isBool(def) && !isBool(value):
			*warnings = append(*warnings, fmt.Sprintf("bad configuration type for %s: expected true or false, got %s", name, inspect(value)))
		case !isBool(def) && reflect.TypeOf(def) != reflect.TypeOf(value):
			*warnings = append(*warnings, fmt.Sprintf("bad configuration type for %s: expected %s, got %s", name, withArticle(typeName(def)), inspect(value)))
		default:
			out.Set(key, value)
		}
	}
	return out
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// MergeSettings returns cfg with every key of defaults that is absent or
// null in cfg filled in. Nested mappings merge recursively; other values
// present in cfg win. Merging is idempotent and cfg is not modified.
func MergeSettings(cfg, defaults *Settings) *Settings {
	out := cfg.Clone()
	if out == nil {
		out = NewSettings()
	}
	mergeInto(out, defaults)
	return out
}

func mergeInto(cfg, defaults *Settings) {
	for _, key := range defaults.Keys() {
		def, _ := defaults.Get(key)
		value, _ := cfg.Get(key)
		switch v := value.(type) {
		case *Settings:
			if defSub, ok := def.(*Settings); ok {
				mergeInto(v, defSub)
			}
		case nil:
			cfg.Set(key, cloneValue(def))
		}
	}
}

// Config is the effective configuration of one run.
type Config struct {
	root     string
	settings *Settings

	// Warnings lists the configuration problems found during validation.
	Warnings []string
	// Registry holds the check types available to this run, built-in and
	// loaded through `require`.
	Registry *Registry

	OnlyCategories    []Category
	ExcludeCategories []Category
	AutoCorrect       bool
}

// NewConfig validates loaded against defaults and merges the two. A nil
// loaded configuration means no configuration file was found. The `root`
// setting, when present, is resolved against root.
func NewConfig(root string, loaded, defaults *Settings) *Config {
	c := &Config{root: root}
	valid := NewSettings()
	if loaded != nil {
		valid, c.Warnings = ValidateSettings(loaded, defaults)
	}
	c.settings = MergeSettings(valid, defaults)

	if r, ok := c.Get(KeyRoot).(string); ok && r != "" {
		if filepath.IsAbs(r) {
			c.root = r
		} else {
			c.root = filepath.Join(c.root, r)
		}
	}
	return c
}

// Root is the effective theme root.
func (c *Config) Root() string { return c.root }

// Settings returns the merged configuration.
func (c *Config) Settings() *Settings { return c.settings }

// Get returns the value of a top-level key, or nil.
func (c *Config) Get(key string) any {
	v, _ := c.settings.Get(key)
	return v
}

// IgnoredPatterns returns the `ignore` globs.
func (c *Config) IgnoredPatterns() []string {
	return c.stringList(KeyIgnore)
}

// Requires returns the `require` paths as written in the configuration.
func (c *Config) Requires() []string {
	return c.stringList(KeyRequire)
}

func (c *Config) stringList(key string) []string {
	list, _ := c.Get(key).([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// CheckNames returns the check identifiers in configuration order.
func (c *Config) CheckNames() []string {
	var names []string
	for _, key := range c.settings.Keys() {
		if IsCheckName(key) {
			names = append(names, key)
		}
	}
	return names
}

// ResolveRequires loads every `require` entry, relative to the root, into
// reg. It must run before EnabledChecks so that plugin checks can be found.
func (c *Config) ResolveRequires(loader PluginLoader, reg *Registry) error {
	for _, p := range c.Requires() {
		full := p
		if !filepath.IsAbs(p) {
			full = filepath.Join(c.root, p)
		}
		if err := loader.Load(full, reg); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// EnabledChecks instantiates every enabled check that passes the category
// filters. Any construction failure aborts: a partial check set would make
// the run meaningless.
func (c *Config) EnabledChecks(reg *Registry) ([]Check, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	var checks []Check
	for _, name := range c.CheckNames() {
		sub := c.settings.Sub(name)
		value, _ := sub.Get(KeyEnabled)
		if enabled, _ := value.(bool); !enabled {
			continue
		}

		registration, ok := reg.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, name)
		}
		if containsCategory(c.ExcludeCategories, registration.Category) {
			continue
		}
		if len(c.OnlyCategories) > 0 && !containsCategory(c.OnlyCategories, registration.Category) {
			continue
		}

		opts := Options(sub.ToMap())
		delete(opts, KeyEnabled)

		check, err := registration.Build(opts)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, nil
}

func containsCategory(list []Category, cat Category) bool {
	for _, c := range list {
		if c == cat {
			return true
		}
	}
	return false
}
