package yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	// Use the goccy/go-yaml PathBuilder to create a new YAMLPath.
	return &yaml.PathBuilder{}
}

type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{
		Opts: opts,
	}
}

// Wrap wraps an error with additional context for [Error]s.
// If the error isn't an [Error], it returns the original error unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		for _, opt := range ew.Opts {
			opt(yamlErr)
		}

		for _, opt := range opts {
			opt(yamlErr)
		}

		return yamlErr
	}

	return err
}

// Error represents a YAML error. It includes the original error, and the
// [*token.Token] or [*yaml.Path] where the error occurred.
type Error struct {
	Err         error
	Path        *yaml.Path
	Token       *token.Token
	Source      []byte
	SourceLines int // Number of lines to show around the error in the source.
	Colored     bool
}

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{
		Err:         err,
		SourceLines: 4,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

type ErrorOpt func(e *Error)

func WithSourceLines(lines int) ErrorOpt {
	return func(e *Error) {
		e.SourceLines = lines
	}
}

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

// WithColor enables ANSI colors in the annotated source.
func WithColor(colored bool) ErrorOpt {
	return func(e *Error) {
		e.Colored = colored
	}
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}
	if e.Path == nil && e.Token == nil {
		return e.Err.Error()
	}

	errMsg, srcErr := e.annotateSource()
	if srcErr != nil {
		slog.Debug("could not annotate config with error",
			slog.Any("error", srcErr),
		)

		if e.Path == nil {
			return e.Err.Error()
		}

		return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
	}

	return errMsg
}

func (e Error) Unwrap() error {
	return e.Err
}

// annotateSource renders the error message followed by the lines of source
// surrounding the error.
func (e Error) annotateSource() (string, error) {
	if len(e.Source) == 0 && e.Token == nil {
		return "", errors.New("no source to annotate")
	}

	tk := e.Token
	if tk == nil {
		var err error

		tk, err = getTokenFromPath(e.Source, e.Path)
		if err != nil {
			return "", fmt.Errorf("get token from path: %w", err)
		}
	}

	errMsg := fmt.Sprintf("[%d:%d] %v:", tk.Position.Line, tk.Position.Column, e.Err)

	var pp printer.Printer

	excerpt := trimLines(pp.PrintErrorToken(tk, e.Colored), tk.Position.Line, e.SourceLines)
	excerpt = lipgloss.NewStyle().PaddingTop(1).Render(excerpt)

	return fmt.Sprintf("%s\n%s", errMsg, excerpt), nil
}

// trimLines keeps at most n lines before the error line of an excerpt
// produced by [printer.Printer.PrintErrorToken], whose lines are prefixed
// with their line numbers.
func trimLines(excerpt string, errLine, n int) string {
	if n <= 0 {
		return excerpt
	}

	lines := strings.Split(excerpt, "\n")

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		var num int

		_, err := fmt.Sscanf(strings.TrimLeft(strings.TrimSpace(l), ">"), "%d |", &num)
		if err == nil && num < errLine-n {
			continue
		}

		out = append(out, l)
	}

	return strings.Join(out, "\n")
}

func getTokenFromPath(source []byte, path *yaml.Path) (*token.Token, error) {
	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse source bytes into ast.File: %w", err)
	}

	node, err := path.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("filter from ast.File by YAMLPath: %w", err)
	}

	// Path.FilterFile returns the value node, but errors should point to the
	// key.
	keyToken := findKeyToken(file, path)
	if keyToken != nil {
		return keyToken, nil
	}

	return node.GetToken(), nil
}

// findKeyToken attempts to find the KEY token for the given path by looking
// in the parent node.
func findKeyToken(file *ast.File, path *yaml.Path) *token.Token {
	pathStr := path.String()

	lastDot := strings.LastIndex(pathStr, ".")
	lastBracket := strings.LastIndex(pathStr, "[")

	if lastDot == -1 && lastBracket == -1 {
		return nil // Root path, no parent.
	}

	if lastDot <= lastBracket {
		return nil // Array index, no key.
	}

	parentPath, err := yaml.PathString(pathStr[:lastDot])
	if err != nil {
		return nil
	}

	parentNode, err := parentPath.FilterFile(file)
	if err != nil {
		return nil
	}

	if mapping, ok := parentNode.(*ast.MappingNode); ok {
		for _, val := range mapping.Values {
			if val.Key.String() == pathStr[lastDot+1:] {
				return val.Key.GetToken()
			}
		}
	}

	return nil
}
