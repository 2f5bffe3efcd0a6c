package rule

// VariablesMustHaveAnnotations reports every variable, at any scope, without
// an annotation.
type VariablesMustHaveAnnotations struct {
	*Base
}

func NewVariablesMustHaveAnnotations(query QueryFunc) (*VariablesMustHaveAnnotations, error) {
	b, err := NewBase(query, queryVariables, annotated(queryVariables))
	if err != nil {
		return nil, err
	}

	return &VariablesMustHaveAnnotations{Base: b}, nil
}

func (*VariablesMustHaveAnnotations) Name() string {
	return "VariablesMustHaveAnnotations"
}

func (r *VariablesMustHaveAnnotations) CheckStyleRule(text string) error {
	err := r.Base.CheckStyleRule(text)
	if err != nil {
		return err
	}

	names, err := AttributeValues("Name", r.Unmatched())
	if err != nil {
		return err
	}

	for _, name := range names {
		r.AddError("The variable '%s' must have an annotation.", name)
	}

	return nil
}

// VariablesMustStartLowerCase reports every variable whose name does not start
// with a lower case letter.
type VariablesMustStartLowerCase struct {
	*Base
}

func NewVariablesMustStartLowerCase(query QueryFunc) (*VariablesMustStartLowerCase, error) {
	b, err := NewBase(query, queryVariables, "")
	if err != nil {
		return nil, err
	}

	return &VariablesMustStartLowerCase{Base: b}, nil
}

func (*VariablesMustStartLowerCase) Name() string {
	return "VariablesMustStartLowerCase"
}

func (r *VariablesMustStartLowerCase) CheckStyleRule(text string) error {
	err := r.Base.CheckStyleRule(text)
	if err != nil {
		return err
	}

	names, err := AttributeValues("Name", r.LenientMatches())
	if err != nil {
		return err
	}

	for _, name := range names {
		if !startsLower(name) {
			r.AddError("The variable name '%s' must start with a lower case letter.", name)
		}
	}

	return nil
}
