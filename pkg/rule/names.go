package rule

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// NoArgumentsVariablesSameName reports arguments that share a name with a
// variable. Names are compared case-insensitively, since that is how the
// workflow runtime resolves them.
type NoArgumentsVariablesSameName struct {
	*Base

	variables []*xmlquery.Node
}

func NewNoArgumentsVariablesSameName(query QueryFunc) (*NoArgumentsVariablesSameName, error) {
	b, err := NewBase(query, queryArguments, "")
	if err != nil {
		return nil, err
	}

	return &NoArgumentsVariablesSameName{Base: b}, nil
}

func (*NoArgumentsVariablesSameName) Name() string {
	return "NoArgumentsVariablesSameName"
}

// Variables returns the variables matched by the last check.
func (r *NoArgumentsVariablesSameName) Variables() []*xmlquery.Node {
	return r.variables
}

func (r *NoArgumentsVariablesSameName) CheckStyleRule(text string) error {
	r.variables = nil

	err := r.Base.CheckStyleRule(text)
	if err != nil || r.Document() == nil {
		return err
	}

	r.variables, err = r.Select(queryVariables)
	if err != nil {
		return fmt.Errorf("variable query: %w", err)
	}

	arguments, err := AttributeValues("Name", r.LenientMatches())
	if err != nil {
		return err
	}

	variables, err := AttributeValues("Name", r.variables)
	if err != nil {
		return err
	}

	for _, arg := range arguments {
		for _, v := range variables {
			if strings.EqualFold(arg, v) {
				r.AddError("The argument name '%s' conflicts with a variable of the same name '%s'.", arg, v)
			}
		}
	}

	return nil
}
