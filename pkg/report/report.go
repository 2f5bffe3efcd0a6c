package report

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/flindersuni/xamlstyle/pkg/lint"
	"github.com/flindersuni/xamlstyle/pkg/yaml"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrUnknownFormat = errors.New("unknown report format")

	AllFormats = []string{
		string(FormatText),
		string(FormatJSON),
		string(FormatYAML),
	}
)

// GetFormat parses a format name.
func GetFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if slices.Contains(AllFormats, string(f)) {
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Writer writes reports in one format.
type Writer struct {
	format Format
	color  bool
}

type Opt func(*Writer)

// WithColor enables styled text output.
func WithColor(color bool) Opt {
	return func(w *Writer) {
		w.color = color
	}
}

// NewWriter creates a new [Writer].
func NewWriter(format Format, opts ...Opt) (*Writer, error) {
	if !slices.Contains(AllFormats, string(format)) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	w := &Writer{format: format}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Write writes r to out.
func (w *Writer) Write(out io.Writer, r *lint.Report) error {
	switch w.format {
	case FormatJSON:
		return writeJSON(out, r)
	case FormatYAML:
		return writeYAML(out, r)
	case FormatText:
		return writeText(out, r, w.color)
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, w.format)
}

// document is the structured form of a report.
type document struct {
	Root    string            `json:"root"`
	Name    string            `json:"name,omitempty"`
	Files   []lint.FileResult `json:"files"`
	Project lint.Result       `json:"project"`
	Offline bool              `json:"offline,omitempty"`
	Summary Summary           `json:"summary"`
}

// Summary counts the problems in a report.
type Summary struct {
	Files             int `json:"files"`
	FilesWithProblems int `json:"filesWithProblems"`
	Warnings          int `json:"warnings"`
	Errors            int `json:"errors"`
}

// Summarize counts the problems in r.
func Summarize(r *lint.Report) Summary {
	warnings, errs := r.Totals()

	return Summary{
		Files:             len(r.Files),
		FilesWithProblems: r.FilesWithProblems(),
		Warnings:          warnings,
		Errors:            errs,
	}
}

func newDocument(r *lint.Report) document {
	files := r.Files
	if files == nil {
		files = []lint.FileResult{}
	}

	return document{
		Root:    r.Root,
		Name:    r.Name,
		Files:   files,
		Project: r.Project,
		Offline: r.Offline,
		Summary: Summarize(r),
	}
}

func writeJSON(out io.Writer, r *lint.Report) error {
	b, err := json.MarshalIndent(newDocument(r), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = fmt.Fprintln(out, string(b))
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func writeYAML(out io.Writer, r *lint.Report) error {
	enc := yaml.NewEncoder(out)

	err := enc.Encode(newDocument(r))
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}
