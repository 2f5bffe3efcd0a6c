package rule

import (
	"fmt"
	"slices"

	"github.com/flindersuni/xamlstyle/pkg/xaml"
)

// WarnArgumentsWithDefaultValues warns about arguments that have a default
// value. Defaults are sometimes legitimate, so these are only warnings.
//
// An argument's default is stored on the root activity, as an attribute named
// `this:<Class>.<Argument>`.
type WarnArgumentsWithDefaultValues struct {
	*Base

	ignore []string
}

// NewWarnArgumentsWithDefaultValues creates the rule. Arguments named in
// ignore are never reported.
func NewWarnArgumentsWithDefaultValues(query QueryFunc, ignore []string) (*WarnArgumentsWithDefaultValues, error) {
	b, err := NewBase(query, queryArguments, "")
	if err != nil {
		return nil, err
	}

	return &WarnArgumentsWithDefaultValues{Base: b, ignore: ignore}, nil
}

func (*WarnArgumentsWithDefaultValues) Name() string {
	return "WarnArgumentsWithDefaultValues"
}

func (r *WarnArgumentsWithDefaultValues) CheckStyleRule(text string) error {
	err := r.Base.CheckStyleRule(text)
	if err != nil || len(r.LenientMatches()) == 0 {
		return err
	}

	roots, err := r.Select(queryRoot)
	if err != nil {
		return fmt.Errorf("root query: %w", err)
	}

	if len(roots) == 0 {
		return nil
	}

	root := roots[0]
	class, _ := xaml.Attr(root, "x:Class")

	for _, arg := range r.LenientMatches() {
		name, ok := xaml.Attr(arg, "Name")
		if !ok || slices.Contains(r.ignore, name) {
			continue
		}

		if v, ok := xaml.Attr(root, fmt.Sprintf("%s:%s.%s", xaml.PrefixThis, class, name)); ok && v != "" {
			r.AddWarning("The argument with name '%s' has a default value. Check to ensure the value is appropriate.", name)
		}
	}

	return nil
}

// WarnVariablesWithDefaultValues warns about variables that have a default
// value.
type WarnVariablesWithDefaultValues struct {
	*Base

	ignore []string
}

// NewWarnVariablesWithDefaultValues creates the rule. Variables named in
// ignore are never reported.
func NewWarnVariablesWithDefaultValues(query QueryFunc, ignore []string) (*WarnVariablesWithDefaultValues, error) {
	b, err := NewBase(query, queryVariables, "")
	if err != nil {
		return nil, err
	}

	return &WarnVariablesWithDefaultValues{Base: b, ignore: ignore}, nil
}

func (*WarnVariablesWithDefaultValues) Name() string {
	return "WarnVariablesWithDefaultValues"
}

func (r *WarnVariablesWithDefaultValues) CheckStyleRule(text string) error {
	err := r.Base.CheckStyleRule(text)
	if err != nil {
		return err
	}

	for _, v := range r.LenientMatches() {
		name, ok := xaml.Attr(v, "Name")
		if !ok || slices.Contains(r.ignore, name) {
			continue
		}

		if def, ok := xaml.Attr(v, "Default"); ok && def != "" {
			r.AddWarning("The variable with name '%s' has a default value. Check to ensure the value is appropriate.", name)
		}
	}

	return nil
}
