package typedoc

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-candidform/pkg/idl"
)

// Store indexes documents by service name.
type Store struct {
	documents map[string]*Document
}

// Parse decodes a JSON or YAML document. source names the input in error
// messages; when the document has no service name the base name of source
// is used.
func Parse(data []byte, source string) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("typedoc: file %s is empty", source)
	}

	root, err := decodeJSON(data)
	if err != nil {
		var yerr error
		root, yerr = decodeYAML(data)
		if yerr != nil {
			return nil, fmt.Errorf("typedoc: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}

	b := &builder{source: source, reg: idl.NewRegistry(), declared: map[string]struct{}{}}
	doc, err := b.document(root)
	if err != nil {
		return nil, err
	}
	if doc.Service == "" {
		base := filepath.Base(source)
		doc.Service = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return doc, nil
}

// LoadFile reads and parses a single document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("typedoc: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS walks fsys and parses every JSON/YAML file. A nil fsys yields an
// empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{documents: make(map[string]*Document)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDocumentFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("typedoc: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return err
		}
		if prev, exists := store.documents[doc.Service]; exists {
			return fmt.Errorf("typedoc: duplicate service %q (files %s and %s)", doc.Service, prev.Source, path)
		}
		store.documents[doc.Service] = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Document returns the document for service.
func (s *Store) Document(service string) (*Document, bool) {
	if s == nil {
		return nil, false
	}
	doc, ok := s.documents[service]
	return doc, ok
}

// Services lists the loaded service names in sorted order.
func (s *Store) Services() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.documents))
	for name := range s.documents {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether the store holds any documents.
func (s *Store) Empty() bool {
	return s == nil || len(s.documents) == 0
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
