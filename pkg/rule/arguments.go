package rule

// ArgumentsMustHaveAnnotations reports every workflow argument without an
// annotation.
type ArgumentsMustHaveAnnotations struct {
	*Base
}

func NewArgumentsMustHaveAnnotations(query QueryFunc) (*ArgumentsMustHaveAnnotations, error) {
	b, err := NewBase(query, queryArguments, annotated(queryArguments))
	if err != nil {
		return nil, err
	}

	return &ArgumentsMustHaveAnnotations{Base: b}, nil
}

func (*ArgumentsMustHaveAnnotations) Name() string {
	return "ArgumentsMustHaveAnnotations"
}

func (r *ArgumentsMustHaveAnnotations) CheckStyleRule(text string) error {
	err := r.Base.CheckStyleRule(text)
	if err != nil {
		return err
	}

	names, err := AttributeValues("Name", r.Unmatched())
	if err != nil {
		return err
	}

	for _, name := range names {
		r.AddError("The argument '%s' must have an annotation.", name)
	}

	return nil
}

// ArgumentsMustStartUpperCase reports every argument whose name does not start
// with an upper case letter, so that arguments stand out from variables in
// expressions.
type ArgumentsMustStartUpperCase struct {
	*Base
}

func NewArgumentsMustStartUpperCase(query QueryFunc) (*ArgumentsMustStartUpperCase, error) {
	b, err := NewBase(query, queryArguments, "")
	if err != nil {
		return nil, err
	}

	return &ArgumentsMustStartUpperCase{Base: b}, nil
}

func (*ArgumentsMustStartUpperCase) Name() string {
	return "ArgumentsMustStartUpperCase"
}

func (r *ArgumentsMustStartUpperCase) CheckStyleRule(text string) error {
	err := r.Base.CheckStyleRule(text)
	if err != nil {
		return err
	}

	names, err := AttributeValues("Name", r.LenientMatches())
	if err != nil {
		return err
	}

	for _, name := range names {
		if !startsUpper(name) {
			r.AddError("The argument name '%s' must start with an upper case letter.", name)
		}
	}

	return nil
}
