// Package form holds the live state of an editable form as a tree of
// controls. A Field wraps a single scalar value, a Group maps names to child
// controls in declaration order, and an Array holds a sequence of identically
// shaped groups (for example, a repeatable address block).
//
// Every mutation recomputes the validity of the mutated control and then walks
// up through each ancestor to the root, synchronously, before the call
// returns. Value-change subscribers run in registration order once per
// mutation. Validation failures are data, never Go errors: each control
// exposes an Errors map keyed by failure name (`required`, `email`, `match`,
// `range`, `minlength`, `maxlength`, `pattern`) and a Status derived from it.
//
// The package is not safe for concurrent use. A single owner (see
// pkg/customer.Session) serialises access to the tree.
package form
