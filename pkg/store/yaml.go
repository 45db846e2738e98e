package store

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-blueprint/pkg/schema"
)

// document is the on-disk shape of a blueprint file. A file may hold either a
// single blueprint or a list under the blueprints key.
type document struct {
	Blueprints       []*schema.Blueprint `yaml:"blueprints"`
	schema.Blueprint `yaml:",inline"`
}

// LoadFS parses every .yaml/.yml file in fsys into blueprints. Files are
// visited in sorted path order so load results are deterministic.
func LoadFS(fsys fs.FS) ([]*schema.Blueprint, error) {
	if fsys == nil {
		return nil, fmt.Errorf("store: fs is nil")
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch path.Ext(p) {
		case ".yaml", ".yml":
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: walk schema fs: %w", err)
	}
	sort.Strings(paths)

	var out []*schema.Blueprint
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", p, err)
		}
		parsed, err := parseDocument(data)
		if err != nil {
			return nil, fmt.Errorf("store: parse %s: %w", p, err)
		}
		out = append(out, parsed...)
	}
	return out, nil
}

// NewMemoryFromFS loads and validates every blueprint document in fsys into
// a Memory store.
func NewMemoryFromFS(fsys fs.FS) (*Memory, error) {
	blueprints, err := LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	return NewMemory(blueprints...)
}

func parseDocument(data []byte) ([]*schema.Blueprint, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Blueprints) > 0 {
		return doc.Blueprints, nil
	}
	if doc.Key == "" {
		return nil, fmt.Errorf("document has neither a blueprints list nor a top-level key")
	}
	single := doc.Blueprint
	return []*schema.Blueprint{&single}, nil
}
