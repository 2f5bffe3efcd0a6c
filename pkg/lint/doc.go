// Package lint runs the style rules over a UiPath project.
//
// A [Linter] discovers the workflows of a project, checks each of them with
// the default rules (and the library rules, when the configured selector
// matches), then checks the project manifest with the project rules. The
// results are collected in a [Report].
package lint
