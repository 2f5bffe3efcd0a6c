package rule

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"

	"github.com/flindersuni/xamlstyle/pkg/annotation"
	"github.com/flindersuni/xamlstyle/pkg/xaml"
)

// AttributeValues returns the values of the named attribute on nodes, in node
// order. Nodes without the attribute are skipped. The name may be qualified
// with the prefix used in the document, e.g. `x:Class`.
func AttributeValues(name string, nodes []*xmlquery.Node) ([]string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: attribute name is required", ErrInvalidArgument)
	}

	values := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if v, ok := xaml.Attr(n, name); ok {
			values = append(values, v)
		}
	}

	return values, nil
}

// Difference returns the elements of source that are not in criteria,
// preserving the order of source. When criteria is empty, source itself is
// returned.
func Difference[T comparable](source, criteria []T) []T {
	if len(criteria) == 0 {
		return source
	}

	exclude := make(map[T]struct{}, len(criteria))
	for _, c := range criteria {
		exclude[c] = struct{}{}
	}

	out := make([]T, 0, len(source))
	for _, s := range source {
		if _, ok := exclude[s]; !ok {
			out = append(out, s)
		}
	}

	return out
}

// ParseComplexAnnotation decodes an encoded annotation. See [annotation.Decode].
func ParseComplexAnnotation(encoded string) (annotation.Record, error) {
	return annotation.Decode(encoded) //nolint:wrapcheck // Callers inspect the annotation error kind.
}

// startsUpper reports whether s starts with a letter that is upper case and
// has a lower case form.
func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return false
	}

	return unicode.IsUpper(r) && unicode.ToLower(r) != r
}

// startsLower reports whether s starts with a letter that is lower case and
// has an upper case form.
func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return false
	}

	return unicode.IsLower(r) && unicode.ToUpper(r) != r
}
