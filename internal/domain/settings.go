package domain

import (
	"fmt"
	"strings"
)

// Settings is an ordered mapping from configuration key to value. Values are
// scalars (string, int, float64, bool, nil), sequences ([]any) or nested
// *Settings. Key order follows the configuration file.
type Settings struct {
	keys   []string
	values map[string]any
}

// NewSettings returns an empty mapping.
func NewSettings() *Settings {
	return &Settings{values: make(map[string]any)}
}

// Get returns the value stored under key.
func (s *Settings) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key, appending the key if it is new.
func (s *Settings) Set(key string, value any) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Delete removes key.
func (s *Settings) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (s *Settings) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Settings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Sub returns the nested mapping stored under key, or nil.
func (s *Settings) Sub(key string) *Settings {
	v, _ := s.Get(key)
	sub, _ := v.(*Settings)
	return sub
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	out := NewSettings()
	for _, k := range s.keys {
		out.Set(k, cloneValue(s.values[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Settings:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// ToMap converts the mapping, recursively, to plain Go maps.
func (s *Settings) ToMap() map[string]any {
	if s == nil {
		return nil
	}
	out := make(map[string]any, len(s.keys))
	for _, k := range s.keys {
		out[k] = toPlain(s.values[k])
	}
	return out
}

func toPlain(v any) any {
	switch val := v.(type) {
	case *Settings:
		return val.ToMap()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toPlain(item)
		}
		return out
	default:
		return v
	}
}

// String renders the mapping in flow style, mostly for warnings and debugging.
func (s *Settings) String() string {
	parts := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		parts = append(parts, k+": "+inspect(s.values[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// inspect renders a configuration value the way it would appear in YAML flow style.
func inspect(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", val)
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = inspect(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case *Settings:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// typeName names the type of a configuration value in warnings.
func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int:
		return "integer"
	case float64:
		return "float"
	case []any:
		return "list"
	case *Settings:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// withArticle prefixes name with "a" or "an".
func withArticle(name string) string {
	if name != "" && strings.ContainsRune("aeiou", rune(name[0])) {
		return "an " + name
	}
	return "a " + name
}
