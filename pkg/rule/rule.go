package rule

import (
	"errors"
	"fmt"

	"github.com/antchfx/xmlquery"

	"github.com/flindersuni/xamlstyle/pkg/xaml"
)

var (
	// ErrInvalidArgument is returned when a rule is misused by its caller.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMatchInvariant is returned when a strict expression matches more
	// nodes than its lenient counterpart, which means the pair is malformed.
	ErrMatchInvariant = errors.New("strict matches exceed lenient matches")

	// ErrUnimplemented is returned by rules that only provide shared behavior.
	ErrUnimplemented = errors.New("style rule not implemented")
)

// QueryFunc is the query capability every document rule is bound to.
type QueryFunc = xaml.QueryFunc

// DocumentRule checks the text of a single workflow.
type DocumentRule interface {
	// Name returns the rule's identifier, as used in configuration.
	Name() string
	// CheckStyleRule checks text, replacing the results of any earlier check.
	// Problems with the content are reported through Warnings and Errors, an
	// error is only returned when the rule itself is misused or broken.
	CheckStyleRule(text string) error
	Warnings() []string
	Errors() []string
}

// MatchSet holds the nodes matched during the last check.
type MatchSet struct {
	Lenient []*xmlquery.Node
	Strict  []*xmlquery.Node
}

// Base holds the state shared by document rules.
type Base struct {
	query    QueryFunc
	doc      *xmlquery.Node
	lenient  string
	strict   string
	matches  MatchSet
	warnings []string
	errors   []string
}

// NewBase creates a new [Base] bound to query. Either expression may be empty,
// in which case the corresponding matches are always empty.
func NewBase(query QueryFunc, lenient, strict string) (*Base, error) {
	if query == nil {
		return nil, fmt.Errorf("%w: query function is required", ErrInvalidArgument)
	}

	return &Base{
		query:   query,
		lenient: lenient,
		strict:  strict,
	}, nil
}

// CheckStyleRule parses text and evaluates the lenient and strict expressions
// against it.
//
// Text that cannot be parsed is recorded as an error entry and nil is
// returned; [Base.Document] is nil afterwards.
func (b *Base) CheckStyleRule(text string) error {
	if text == "" {
		return fmt.Errorf("%w: workflow text is required", ErrInvalidArgument)
	}

	b.reset()

	doc, err := xaml.Parse(text)
	if err != nil {
		b.AddError("The workflow could not be parsed: %v", err)

		return nil
	}

	b.doc = doc

	if b.lenient != "" {
		b.matches.Lenient, err = b.query(b.lenient, doc)
		if err != nil {
			return fmt.Errorf("lenient query: %w", err)
		}
	}

	if b.strict != "" {
		b.matches.Strict, err = b.query(b.strict, doc)
		if err != nil {
			return fmt.Errorf("strict query: %w", err)
		}
	}

	return checkInvariant(b.matches)
}

// Document returns the document parsed by the last check.
func (b *Base) Document() *xmlquery.Node {
	return b.doc
}

// Select evaluates expr against the document parsed by the last check.
func (b *Base) Select(expr string) ([]*xmlquery.Node, error) {
	if b.doc == nil {
		return nil, xaml.ErrEmptyDocument
	}

	return b.query(expr, b.doc)
}

// Matches returns the matches of the last check.
func (b *Base) Matches() MatchSet {
	return b.matches
}

func (b *Base) LenientMatches() []*xmlquery.Node {
	return b.matches.Lenient
}

func (b *Base) StrictMatches() []*xmlquery.Node {
	return b.matches.Strict
}

func (b *Base) Warnings() []string {
	return b.warnings
}

func (b *Base) Errors() []string {
	return b.errors
}

// AddWarning formats and records a warning.
func (b *Base) AddWarning(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// AddError formats and records an error.
func (b *Base) AddError(format string, args ...any) {
	b.errors = append(b.errors, fmt.Sprintf(format, args...))
}

// Unmatched returns the lenient matches that are not strict matches.
func (b *Base) Unmatched() []*xmlquery.Node {
	return Difference(b.matches.Lenient, b.matches.Strict)
}

func (b *Base) reset() {
	b.doc = nil
	b.matches = MatchSet{}
	b.warnings = nil
	b.errors = nil
}

func checkInvariant(m MatchSet) error {
	if len(m.Strict) > len(m.Lenient) {
		return fmt.Errorf("%w: %d strict, %d lenient", ErrMatchInvariant, len(m.Strict), len(m.Lenient))
	}

	return nil
}
