package form

import (
	"strconv"
	"strings"
)

// NodeSnapshot is a detached, serialisable view of a control and its
// descendants. Renderers consume snapshots instead of live controls.
type NodeSnapshot struct {
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Path     string         `json:"path,omitempty" yaml:"path,omitempty"`
	Kind     Kind           `json:"kind" yaml:"kind"`
	Value    any            `json:"value,omitempty" yaml:"value,omitempty"`
	Status   Status         `json:"status" yaml:"status"`
	Errors   []string       `json:"errors,omitempty" yaml:"errors,omitempty"`
	Touched  bool           `json:"touched" yaml:"touched"`
	Dirty    bool           `json:"dirty" yaml:"dirty"`
	Children []NodeSnapshot `json:"children,omitempty" yaml:"children,omitempty"`
}

// Snapshot captures c and its subtree. Only fields carry a Value; containers
// expose their children instead.
func Snapshot(c Control) NodeSnapshot {
	if c == nil {
		return NodeSnapshot{}
	}
	return snapshot(c, "", "")
}

func snapshot(c Control, name, path string) NodeSnapshot {
	out := NodeSnapshot{
		Name:    name,
		Path:    path,
		Kind:    c.Kind(),
		Status:  c.Status(),
		Errors:  c.ErrorKeys(),
		Touched: c.Touched(),
		Dirty:   c.Dirty(),
	}
	switch typed := c.(type) {
	case *Field:
		out.Value = typed.Value()
	case *Group:
		for _, childName := range typed.names {
			out.Children = append(out.Children, snapshot(typed.controls[childName], childName, joinPath(path, childName)))
		}
	case *Array:
		for i, entry := range typed.entries {
			idx := strconv.Itoa(i)
			out.Children = append(out.Children, snapshot(entry, idx, joinPath(path, idx)))
		}
	}
	return out
}

// Find returns the descendant snapshot at a dotted path.
func (s NodeSnapshot) Find(path string) (NodeSnapshot, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return s, true
	}
	current := s
	for _, segment := range strings.Split(path, ".") {
		found := false
		for _, ch := range current.Children {
			if ch.Name == segment {
				current = ch
				found = true
				break
			}
		}
		if !found {
			return NodeSnapshot{}, false
		}
	}
	return current, true
}

// Walk visits c and its descendants depth-first in declaration order. The
// callback receives the dotted path relative to c; returning false skips the
// node's children.
func Walk(c Control, fn func(path string, c Control) bool) {
	if c == nil || fn == nil {
		return
	}
	walk(c, "", fn)
}

func walk(c Control, path string, fn func(string, Control) bool) {
	if !fn(path, c) {
		return
	}
	switch typed := c.(type) {
	case *Group:
		for _, name := range typed.names {
			walk(typed.controls[name], joinPath(path, name), fn)
		}
	case *Array:
		for i, entry := range typed.entries {
			walk(entry, joinPath(path, strconv.Itoa(i)), fn)
		}
	}
}

// Values rebuilds the plain value of the snapshot: a map for groups, a slice
// for arrays and the scalar for fields.
func (s NodeSnapshot) Values() any {
	switch s.Kind {
	case KindField:
		return s.Value
	case KindArray:
		out := make([]any, 0, len(s.Children))
		for _, child := range s.Children {
			out = append(out, child.Values())
		}
		return out
	default:
		out := make(map[string]any, len(s.Children))
		for _, child := range s.Children {
			out[child.Name] = child.Values()
		}
		return out
	}
}
