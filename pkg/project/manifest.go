// Package project reads UiPath project manifests (project.json).
package project

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// FileName is the name of the manifest in a project's root directory.
const FileName = "project.json"

// NestedLayoutVersion is the first schema version that keeps library settings
// under designOptions.
const NestedLayoutVersion = 4.0

// ErrInvalidArgument is returned when the manifest location is missing.
var ErrInvalidArgument = errors.New("invalid argument")

// Manifest is a parsed project manifest. Missing fields read as their zero
// values.
type Manifest struct {
	data          manifestData
	schemaVersion float64
}

type manifestData struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Main           string            `json:"main"`
	ProjectVersion string            `json:"projectVersion"`
	Version        string            `json:"version"`
	SchemaVersion  json.RawMessage   `json:"schemaVersion"`
	StudioVersion  string            `json:"studioVersion"`
	ProjectType    string            `json:"projectType"`
	LibraryOptions libraryOptions    `json:"libraryOptions"`
	DesignOptions  designOptions     `json:"designOptions"`
	Dependencies   map[string]string `json:"dependencies"`
}

type designOptions struct {
	OutputType     string         `json:"outputType"`
	LibraryOptions libraryOptions `json:"libraryOptions"`
}

type libraryOptions struct {
	PrivateWorkflows []string `json:"privateWorkflows"`
}

// Load reads the manifest in dir.
func Load(dir string) (*Manifest, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: project directory is required", ErrInvalidArgument)
	}

	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path) //nolint:gosec // Path is user input by design.
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Parse parses manifest data.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}

	err := json.Unmarshal(data, &m.data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	m.schemaVersion = parseSchemaVersion(m.data.SchemaVersion)

	return m, nil
}

// parseSchemaVersion accepts "4.0" or 4.0. Anything else is NaN.
func parseSchemaVersion(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return math.NaN()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return math.NaN()
		}

		return v
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	return math.NaN()
}

func (m *Manifest) Name() string {
	return m.data.Name
}

func (m *Manifest) Description() string {
	return m.data.Description
}

// Main returns the entry point workflow.
func (m *Manifest) Main() string {
	return m.data.Main
}

// Version returns the project version. Older manifests use `version`
// instead of `projectVersion`.
func (m *Manifest) Version() string {
	if m.data.ProjectVersion != "" {
		return m.data.ProjectVersion
	}

	return m.data.Version
}

// SchemaVersion returns the manifest schema version, or NaN when it is
// missing or not a number.
func (m *Manifest) SchemaVersion() float64 {
	return m.schemaVersion
}

func (m *Manifest) nested() bool {
	return m.schemaVersion >= NestedLayoutVersion
}

// IsLibrary reports whether the project is a library.
func (m *Manifest) IsLibrary() bool {
	if m.nested() {
		return strings.EqualFold(m.data.DesignOptions.OutputType, "Library")
	}

	return strings.EqualFold(m.data.ProjectType, "Library")
}

// PrivateWorkflows returns the workflows that are not published by a library,
// as slash-separated paths relative to the project.
func (m *Manifest) PrivateWorkflows() []string {
	src := m.data.LibraryOptions.PrivateWorkflows
	if m.nested() {
		src = m.data.DesignOptions.LibraryOptions.PrivateWorkflows
	}

	out := make([]string, 0, len(src))
	for _, w := range src {
		out = append(out, strings.ReplaceAll(w, `\`, "/"))
	}

	return out
}

// IsPrivate reports whether the workflow at the slash-separated path is
// private.
func (m *Manifest) IsPrivate(path string) bool {
	return slices.Contains(m.PrivateWorkflows(), path)
}

// Dependencies maps package names to declared version constraints.
func (m *Manifest) Dependencies() map[string]string {
	if m.data.Dependencies == nil {
		return map[string]string{}
	}

	return maps.Clone(m.data.Dependencies)
}

// DependencyNames returns the dependency names in sorted order.
func (m *Manifest) DependencyNames() []string {
	return slices.Sorted(maps.Keys(m.data.Dependencies))
}

// Values returns the manifest fields exposed to selector expressions.
func (m *Manifest) Values() map[string]any {
	return map[string]any{
		"name":             m.Name(),
		"version":          m.Version(),
		"schemaVersion":    m.SchemaVersion(),
		"library":          m.IsLibrary(),
		"privateWorkflows": m.PrivateWorkflows(),
	}
}
