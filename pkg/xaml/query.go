package xaml

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	ErrEmptyDocument   = errors.New("empty document")
	ErrEmptyExpression = errors.New("empty expression")
)

// QueryFunc evaluates an XPath expression against a parsed document and
// returns the matching nodes in document order.
type QueryFunc func(expr string, doc *xmlquery.Node) ([]*xmlquery.Node, error)

// Parse parses workflow text into a navigable document tree.
func Parse(text string) (*xmlquery.Node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	doc, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse xaml: %w", err)
	}

	return doc, nil
}

// Querier compiles XPath expressions with a fixed set of namespace bindings
// and caches the compiled form.
type Querier struct {
	ns    map[string]string
	cache map[string]*xpath.Expr
	mu    sync.Mutex
}

// NewQuerier creates a new [Querier] bound to the given namespaces.
func NewQuerier(ns Namespaces) *Querier {
	return &Querier{
		ns:    ns.Map(),
		cache: map[string]*xpath.Expr{},
	}
}

// Compile compiles expr, returning a cached expression when available.
func (q *Querier) Compile(expr string) (*xpath.Expr, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyExpression
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if e, ok := q.cache[expr]; ok {
		return e, nil
	}

	e, err := xpath.CompileWithNS(expr, q.ns)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}

	q.cache[expr] = e

	return e, nil
}

// Query implements [QueryFunc].
func (q *Querier) Query(expr string, doc *xmlquery.Node) ([]*xmlquery.Node, error) {
	if doc == nil {
		return nil, ErrEmptyDocument
	}

	e, err := q.Compile(expr)
	if err != nil {
		return nil, err
	}

	return xmlquery.QuerySelectorAll(doc, e), nil
}

// Attr returns the value of the named attribute on n. The name is either a
// plain local name or `prefix:local`, where prefix is the one written in the
// document.
func Attr(n *xmlquery.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}

	space, local := "", name
	if i := strings.Index(name, ":"); i > 0 {
		space, local = name[:i], name[i+1:]
	}

	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value, true
		}
	}

	return "", false
}

// AttrNS returns the value of the attribute with the given namespace URI and
// local name on n.
func AttrNS(n *xmlquery.Node, uri, local string) (string, bool) {
	if n == nil {
		return "", false
	}

	for _, a := range n.Attr {
		if a.Name.Local == local && a.NamespaceURI == uri {
			return a.Value, true
		}
	}

	return "", false
}
