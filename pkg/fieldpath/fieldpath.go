// Package fieldpath addresses contract form values by typed paths instead of
// dotted strings. A Path is parsed once at the wire boundary; everything past
// that point works on segments.
package fieldpath

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalidPath = errors.New("invalid field path")

// Path is a sequence of object keys, e.g. {"client", "phone"}.
type Path []string

// Parse splits a dotted path such as "client.phone".
func Parse(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, s)
		}
	}
	return Path(parts), nil
}

// MustParse is Parse for compile-time constants.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string { return strings.Join(p, ".") }

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Path) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Path) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Root returns the first segment, or "" for an empty path.
func (p Path) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Tree is a nested document of string leaves. Trees are treated as values:
// With and Without return modified copies and leave the receiver untouched.
type Tree map[string]any

// Get returns the leaf at p. Interior nodes and missing keys report false.
func (t Tree) Get(p Path) (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	var node any = map[string]any(t)
	for _, seg := range p {
		m, ok := asMap(node)
		if !ok {
			return "", false
		}
		node, ok = m[seg]
		if !ok {
			return "", false
		}
	}
	return leafString(node)
}

// Lookup is Get with the trimmed value, empty when absent.
func (t Tree) Lookup(p Path) string {
	v, _ := t.Get(p)
	return strings.TrimSpace(v)
}

// With returns a copy of t where p holds v. Leaves in the way of p are
// replaced by objects.
func (t Tree) With(p Path, v string) Tree {
	if len(p) == 0 {
		return t.clone()
	}
	return Tree(setIn(map[string]any(t), p, v))
}

// Without returns a copy of t with the leaf at p removed.
func (t Tree) Without(p Path) Tree {
	if len(p) == 0 {
		return t.clone()
	}
	return Tree(deleteIn(map[string]any(t), p))
}

// Walk visits every leaf in key order.
func (t Tree) Walk(fn func(Path, string)) {
	walk(map[string]any(t), nil, fn)
}

// Flatten returns the leaves keyed by their dotted path.
func (t Tree) Flatten() map[string]string {
	out := make(map[string]string)
	t.Walk(func(p Path, v string) {
		out[p.String()] = v
	})
	return out
}

// FromFlat builds a Tree from dotted keys.
func FromFlat(flat map[string]string) (Tree, error) {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := Tree{}
	for _, k := range keys {
		p, err := Parse(k)
		if err != nil {
			return nil, err
		}
		t = t.With(p, flat[k])
	}
	return t, nil
}

// Normalize converts a decoded JSON or YAML object into a Tree with string
// leaves. Numbers and booleans are formatted; nulls are dropped.
func Normalize(raw map[string]any) Tree {
	out := Tree{}
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case map[string]any:
			out[k] = map[string]any(Normalize(val))
		case Tree:
			out[k] = map[string]any(Normalize(val))
		default:
			if s, ok := leafString(val); ok {
				out[k] = s
			}
		}
	}
	return out
}

// Clone returns a deep copy of t with every leaf as a string. A nil tree
// clones to an empty one.
func (t Tree) Clone() Tree {
	return Normalize(map[string]any(t))
}

func (t Tree) clone() Tree {
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

func asMap(node any) (map[string]any, bool) {
	switch m := node.(type) {
	case map[string]any:
		return m, true
	case Tree:
		return map[string]any(m), true
	}
	return nil, false
}

func leafString(node any) (string, bool) {
	switch v := node.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

func setIn(m map[string]any, p Path, v string) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, val := range m {
		out[k] = val
	}
	if len(p) == 1 {
		out[p[0]] = v
		return out
	}
	child, ok := asMap(m[p[0]])
	if !ok {
		child = map[string]any{}
	}
	out[p[0]] = setIn(child, p[1:], v)
	return out
}

func deleteIn(m map[string]any, p Path) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = val
	}
	if len(p) == 1 {
		delete(out, p[0])
		return out
	}
	child, ok := asMap(m[p[0]])
	if !ok {
		return out
	}
	out[p[0]] = deleteIn(child, p[1:])
	return out
}

func walk(m map[string]any, prefix Path, fn func(Path, string)) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p := append(append(Path{}, prefix...), k)
		if child, ok := asMap(m[k]); ok {
			walk(child, p, fn)
			continue
		}
		if s, ok := leafString(m[k]); ok {
			fn(p, s)
		}
	}
}
