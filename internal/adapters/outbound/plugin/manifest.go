// Package plugin loads the check manifests listed under `require`.
package plugin

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/checks"
)

// Manifest is a YAML file declaring pattern checks:
//
//	checks:
//	  - name: NoInlineStyles
//	    category: liquid
//	    pattern: 'style="[^"]*"'
//	    message: Avoid inline styles
type Manifest struct {
	Checks []checks.PatternSpec `yaml:"checks"`
}

// ManifestLoader implements domain.PluginLoader.
type ManifestLoader struct{}

func New() *ManifestLoader {
	return &ManifestLoader{}
}

// Load registers every check declared in the manifest at path.
func (l *ManifestLoader) Load(path string, reg *domain.Registry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	if len(m.Checks) == 0 {
		return fmt.Errorf("manifest declares no checks")
	}

	for _, spec := range m.Checks {
		r, err := spec.Registration()
		if err != nil {
			return err
		}
		if err := reg.Register(r); err != nil {
			return err
		}
	}
	return nil
}
