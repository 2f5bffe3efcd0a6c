// Package config provides configuration management for xamlstyle.
//
// A configuration file is YAML with an `apiVersion` and `kind`, validated
// against a JSON schema generated from the Go types. It holds the namespace
// bindings used by rule expressions, ignore lists, the activity tables used by
// the activity rules, the library rule selector and the package feed.
//
// When no file is present, the embedded default configuration is used.
package config

//go:generate go run ../../internal/schemagen -o config.v1beta1.json
