package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/abdidvp/themecheck/internal/domain"
)

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// FileScanner implements domain.ThemeScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan reads every .liquid and .json file under root in lexical order.
// Ignore patterns use gitignore syntax relative to root.
func (s *FileScanner) Scan(root string, ignore []string) (*domain.Theme, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	patterns := make([]gitignore.Pattern, 0, len(ignore))
	for _, p := range ignore {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}
	matcher := gitignore.NewMatcher(patterns)

	theme := &domain.Theme{Root: absPath}

	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == absPath {
			return nil
		}

		relPath, _ := filepath.Rel(absPath, path)
		relPath = filepath.ToSlash(relPath)
		if matcher.Match(strings.Split(relPath, "/"), d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(d.Name())
		if ext != ".liquid" && ext != ".json" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", relPath, err)
		}
		if ext == ".liquid" {
			theme.Templates = append(theme.Templates, domain.NewTemplate(path, relPath, string(data)))
		} else {
			theme.JSONFiles = append(theme.JSONFiles, domain.NewJSONFile(path, relPath, string(data)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return theme, nil
}
