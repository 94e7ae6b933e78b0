package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/checks"
)

// FileName is the configuration dotfile looked up from the theme path.
const FileName = ".theme-check.yml"

//go:embed default.yml
var defaultConfig []byte

// Default parses the built-in default configuration. Call it once and pass
// the result to every loader.
func Default() (*domain.Settings, error) {
	s, err := parseSettings(defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("parsing default config: %w", err)
	}
	return s, nil
}

// Find returns the nearest configuration file at or above path.
func Find(path string) (string, bool) {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadFile reads a configuration file, keeping key order. An empty file
// yields an empty mapping.
func LoadFile(path string) (*domain.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := parseSettings(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

func parseSettings(data []byte) (*domain.Settings, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.NewSettings(), nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return domain.NewSettings(), nil
	}
	v, err := nodeValue(doc.Content[0])
	if err != nil {
		return nil, err
	}
	switch s := v.(type) {
	case *domain.Settings:
		return s, nil
	case nil:
		return domain.NewSettings(), nil
	default:
		return nil, errors.New("configuration must be a mapping")
	}
}

// nodeValue converts a YAML node into a configuration value. Mappings
// become *domain.Settings so file order survives.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		s := domain.NewSettings()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			s.Set(n.Content[i].Value, v)
		}
		return s, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
}

// YAMLLoader implements domain.ConfigLoader by reading .theme-check.yml.
type YAMLLoader struct {
	defaults *domain.Settings
	plugins  domain.PluginLoader
	logger   *zap.Logger
}

// New creates a YAMLLoader validating against defaults. plugins resolves
// `require` entries; nil leaves them unsupported.
func New(defaults *domain.Settings, plugins domain.PluginLoader, logger *zap.Logger) *YAMLLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YAMLLoader{defaults: defaults, plugins: plugins, logger: logger}
}

// Load resolves the effective configuration for path. Without a
// configuration file the defaults apply and path is the theme root.
func (l *YAMLLoader) Load(path string) (*domain.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	root := abs
	var loaded *domain.Settings
	file, found := Find(abs)
	if found {
		loaded, err = LoadFile(file)
		if err != nil {
			return nil, err
		}
		root = filepath.Dir(file)
		l.logger.Debug("using config", zap.String("file", file))
	}

	cfg := domain.NewConfig(root, loaded, l.defaults)
	for _, w := range cfg.Warnings {
		l.logger.Warn(w, zap.String("file", file))
	}

	reg := checks.NewRegistry()
	if len(cfg.Requires()) > 0 {
		if l.plugins == nil {
			return nil, fmt.Errorf("%s: require is not supported", FileName)
		}
		if err := cfg.ResolveRequires(l.plugins, reg); err != nil {
			return nil, err
		}
	}
	cfg.Registry = reg
	return cfg, nil
}
