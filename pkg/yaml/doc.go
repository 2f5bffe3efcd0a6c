// Package yaml wraps [github.com/goccy/go-yaml] with the encoder and decoder
// settings used for configuration files, JSON schema validation, and errors
// that point at the offending line of the source.
package yaml
