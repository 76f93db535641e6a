package render

import "strings"

// ApplySubset returns a copy of snap keeping only the listed top-level
// children, in snapshot order. Entries may be dotted paths; only their first
// segment is considered. An empty list returns snap unchanged.
func ApplySubset(snap NodeView, only []string) NodeView {
	if len(only) == 0 {
		return snap
	}
	keep := make(map[string]struct{}, len(only))
	for _, path := range only {
		head, _, _ := strings.Cut(strings.TrimSpace(path), ".")
		if head != "" {
			keep[head] = struct{}{}
		}
	}
	if len(keep) == 0 {
		return snap
	}

	out := snap
	out.Children = nil
	for _, child := range snap.Children {
		if _, ok := keep[child.Name]; ok {
			out.Children = append(out.Children, child)
		}
	}
	return out
}
