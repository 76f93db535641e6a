// Package openapi describes a form tree as an OpenAPI 3 schema and checks
// submission values against it. Constraints come from the described rules in
// pkg/validators; plain validator funcs are not exported.
package openapi
