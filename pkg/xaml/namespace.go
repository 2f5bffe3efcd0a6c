package xaml

import (
	"fmt"
	"maps"
)

// Prefixes used by the default rule catalogue.
const (
	PrefixActivities   = "xaml"
	PrefixMarkup       = "x"
	PrefixPresentation = "sap2010"
	PrefixUiPath       = "ui"
	PrefixThis         = "this"
)

// Namespace binds an XPath prefix to a namespace URI.
type Namespace struct {
	// Prefix is the name used in XPath expressions.
	Prefix string `json:"prefix" jsonschema:"title=Prefix" validate:"required"`
	// URI is the namespace URI the prefix resolves to.
	URI string `json:"uri" jsonschema:"title=URI" validate:"required"`
}

// Namespaces is an ordered set of prefix bindings.
type Namespaces []Namespace

// DefaultNamespaces returns the five bindings every workflow rule relies on.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		{Prefix: PrefixActivities, URI: "http://schemas.microsoft.com/netfx/2009/xaml/activities"},
		{Prefix: PrefixMarkup, URI: "http://schemas.microsoft.com/winfx/2006/xaml"},
		{Prefix: PrefixPresentation, URI: "http://schemas.microsoft.com/netfx/2010/xaml/activities/presentation"},
		{Prefix: PrefixUiPath, URI: "http://schemas.uipath.com/workflow/activities"},
		{Prefix: PrefixThis, URI: "clr-namespace:"},
	}
}

// Map returns the bindings as a prefix to URI map.
func (ns Namespaces) Map() map[string]string {
	m := make(map[string]string, len(ns))
	for _, n := range ns {
		m[n.Prefix] = n.URI
	}

	return m
}

// URI returns the URI bound to prefix.
func (ns Namespaces) URI(prefix string) (string, bool) {
	for _, n := range ns {
		if n.Prefix == prefix {
			return n.URI, true
		}
	}

	return "", false
}

// Validate checks that no prefix is bound twice.
func (ns Namespaces) Validate() error {
	seen := make(map[string]struct{}, len(ns))
	for _, n := range ns {
		if _, ok := seen[n.Prefix]; ok {
			return fmt.Errorf("namespace prefix %q bound more than once", n.Prefix)
		}

		seen[n.Prefix] = struct{}{}
	}

	return nil
}

// Merge returns a copy of ns with the bindings of other added or replaced.
func (ns Namespaces) Merge(other Namespaces) Namespaces {
	m := ns.Map()
	maps.Copy(m, other.Map())

	out := make(Namespaces, 0, len(m))
	for _, n := range ns {
		out = append(out, Namespace{Prefix: n.Prefix, URI: m[n.Prefix]})
		delete(m, n.Prefix)
	}

	for _, n := range other {
		if uri, ok := m[n.Prefix]; ok {
			out = append(out, Namespace{Prefix: n.Prefix, URI: uri})
			delete(m, n.Prefix)
		}
	}

	return out
}
