// Package expr provides the CEL (Common Expression Language) environment used
// to decide which workflows the library rules apply to.
//
// Expressions have access to variables:
//   - `file` (string): The workflow path, slash-separated and relative to the
//     project root, e.g. "Login/LoginToOktaDashboard.xaml"
//   - `project` (map): The project manifest, with keys `name`, `version`,
//     `schemaVersion`, `library` and `privateWorkflows`
//
// Custom functions operate on slash-separated paths:
//   - pathBase, pathDir, pathExt
//   - pathMatch(pattern, path), using [path.Match] syntax
package expr
