// Package state is the key-path addressable form-state container. Paths are
// dotted; a segment of the form [n] addresses a list index, any other
// segment a map key, as in "greet.[0].items.[2].name".
package state

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Store tracks collected values and field errors keyed by path. It is not
// safe for concurrent use; each editing session owns its store.
type Store struct {
	values map[string]any
	errors map[string][]string
}

// NewStore seeds the store with prefilled values.
func NewStore(prefill map[string]any) *Store {
	return &Store{
		values: cloneValues(prefill),
		errors: make(map[string][]string),
	}
}

// Values returns a deep copy of the stored tree.
func (s *Store) Values() map[string]any {
	if s == nil {
		return nil
	}
	return cloneValues(s.values)
}

// Get resolves a path.
func (s *Store) Get(path string) (any, bool) {
	if s == nil {
		return nil, false
	}
	segs, err := parsePath(path)
	if err != nil {
		return nil, false
	}
	var current any = s.values
	for _, seg := range segs {
		switch node := current.(type) {
		case map[string]any:
			if seg.isIndex() {
				return nil, false
			}
			next, ok := node[seg.key]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			if !seg.isIndex() || seg.index >= len(node) {
				return nil, false
			}
			current = node[seg.index]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes value at path, creating intermediate maps and lists. Lists are
// padded with nil up to the addressed index.
func (s *Store) Set(path string, value any) error {
	if s == nil {
		return fmt.Errorf("state: store is nil")
	}
	segs, err := parsePath(path)
	if err != nil {
		return err
	}
	if segs[0].isIndex() {
		return fmt.Errorf("state: path %q must start with a key", path)
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	_, err = setIn(s.values, segs, value, path)
	return err
}

// Unset removes path. A list element is spliced out so later elements move
// down by one. Errors recorded at or below path are cleared.
func (s *Store) Unset(path string) {
	if s == nil {
		return
	}
	segs, err := parsePath(path)
	if err != nil {
		return
	}
	unsetIn(s.values, segs)
	s.ClearErrors(path)
}

// SetError records a message for path.
func (s *Store) SetError(path, message string) {
	if s == nil || strings.TrimSpace(message) == "" {
		return
	}
	if s.errors == nil {
		s.errors = make(map[string][]string)
	}
	s.errors[path] = append(s.errors[path], message)
}

// ErrorsFor returns the messages attached to path.
func (s *Store) ErrorsFor(path string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[path]
}

// Errors returns a copy of all recorded messages.
func (s *Store) Errors() map[string][]string {
	if s == nil {
		return nil
	}
	out := make(map[string][]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// ErrorPaths lists the paths carrying errors, sorted.
func (s *Store) ErrorPaths() []string {
	if s == nil {
		return nil
	}
	paths := make([]string, 0, len(s.errors))
	for path := range s.errors {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ClearErrors drops the messages of path and of every path below it.
func (s *Store) ClearErrors(path string) {
	if s == nil {
		return
	}
	for key := range s.errors {
		if key == path || strings.HasPrefix(key, path+".") {
			delete(s.errors, key)
		}
	}
}

type segment struct {
	key   string
	index int
}

func (s segment) isIndex() bool { return s.index >= 0 }

func (s segment) String() string {
	if s.isIndex() {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.key
}

func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, fmt.Errorf("state: empty path")
	}
	parts := strings.Split(path, ".")
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("state: empty segment in path %q", path)
		}
		if strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]") {
			idx, err := strconv.Atoi(part[1 : len(part)-1])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("state: invalid index %q in path %q", part, path)
			}
			segs = append(segs, segment{index: idx})
			continue
		}
		segs = append(segs, segment{key: part, index: -1})
	}
	return segs, nil
}

func setIn(node any, segs []segment, value any, path string) (any, error) {
	if len(segs) == 0 {
		return value, nil
	}
	seg := segs[0]

	if seg.isIndex() {
		list, ok := node.([]any)
		if !ok && node != nil {
			return nil, fmt.Errorf("state: expected list at %s in path %q, found %T", seg, path, node)
		}
		if len(list) <= seg.index {
			list = append(list, make([]any, seg.index+1-len(list))...)
		}
		child, err := setIn(list[seg.index], segs[1:], value, path)
		if err != nil {
			return nil, err
		}
		list[seg.index] = child
		return list, nil
	}

	m, ok := node.(map[string]any)
	if !ok {
		if node != nil {
			return nil, fmt.Errorf("state: expected map at %s in path %q, found %T", seg, path, node)
		}
		m = make(map[string]any)
	}
	child, err := setIn(m[seg.key], segs[1:], value, path)
	if err != nil {
		return nil, err
	}
	m[seg.key] = child
	return m, nil
}

func unsetIn(node any, segs []segment) any {
	seg := segs[0]
	last := len(segs) == 1

	switch typed := node.(type) {
	case map[string]any:
		if seg.isIndex() {
			return node
		}
		if last {
			delete(typed, seg.key)
			return typed
		}
		if child, ok := typed[seg.key]; ok {
			typed[seg.key] = unsetIn(child, segs[1:])
		}
		return typed
	case []any:
		if !seg.isIndex() || seg.index >= len(typed) {
			return node
		}
		if last {
			return append(typed[:seg.index:seg.index], typed[seg.index+1:]...)
		}
		typed[seg.index] = unsetIn(typed[seg.index], segs[1:])
		return typed
	default:
		return node
	}
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneValues(typed)
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
