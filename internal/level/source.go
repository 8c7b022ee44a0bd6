package level

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source produces level geometry from an identifier. Load is called once at
// session creation and again on every hot reload; each call returns fresh
// geometry. A non-nil error means no usable level could be produced, and
// the caller decides what happens to the session.
type Source interface {
	Load(id string) (*Level, error)
}

// FileSource loads levels from files, resolving ids as paths relative to
// Root (or as given when Root is empty). The file is re-read on every Load,
// which is what makes editing a level and reloading it mid-session work.
type FileSource struct {
	Root string
}

// Load reads, parses and validates the level file identified by id.
func (s FileSource) Load(id string) (*Level, error) {
	path := id
	if s.Root != "" {
		path = filepath.Join(s.Root, id)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: cannot read %s: %w", path, err)
	}

	ext := filepath.Ext(path)
	parse, ok := parserFor(ext)
	if !ok {
		return nil, fmt.Errorf("level: unsupported level format %q (supported: %s)",
			ext, strings.Join(Formats(), ", "))
	}

	lvl, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("level: cannot parse %s: %w", path, err)
	}

	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("level: invalid level %s: %w", path, err)
	}

	return lvl, nil
}

// List returns the ids of all level files under Root with a registered
// extension, sorted for deterministic ordering. Used by the level picker.
func (s FileSource) List() ([]string, error) {
	root := s.Root
	if root == "" {
		root = "."
	}

	var ids []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		if _, ok := parserFor(filepath.Ext(path)); !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		ids = append(ids, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("level: cannot scan %s: %w", root, err)
	}

	sort.Strings(ids)
	return ids, nil
}
