// Package render holds the renderer-independent pieces of presenting a form:
// failure-key messages, error mappings built from snapshots, input
// sanitising, and a registry of named renderers.
package render
