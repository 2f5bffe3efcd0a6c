// Package report writes [lint.Report]s as text, JSON, or YAML.
package report
