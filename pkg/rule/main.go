package rule

// MainSequencesMustHaveAnnotations requires the top level sequence of a
// workflow to be annotated, since it documents the workflow as a whole.
type MainSequencesMustHaveAnnotations struct {
	*Base
}

func NewMainSequencesMustHaveAnnotations(query QueryFunc) (*MainSequencesMustHaveAnnotations, error) {
	b, err := NewBase(query, queryMainSeq, annotated(queryMainSeq))
	if err != nil {
		return nil, err
	}

	return &MainSequencesMustHaveAnnotations{Base: b}, nil
}

func (*MainSequencesMustHaveAnnotations) Name() string {
	return "MainSequencesMustHaveAnnotations"
}

func (r *MainSequencesMustHaveAnnotations) CheckStyleRule(text string) error {
	err := r.Base.CheckStyleRule(text)
	if err != nil {
		return err
	}

	if len(r.Unmatched()) > 0 {
		r.AddError("Main sequences without annotations are not allowed.")
	}

	return nil
}

// MainFlowchartsMustHaveAnnotations is the flowchart counterpart of
// [MainSequencesMustHaveAnnotations].
type MainFlowchartsMustHaveAnnotations struct {
	*Base
}

func NewMainFlowchartsMustHaveAnnotations(query QueryFunc) (*MainFlowchartsMustHaveAnnotations, error) {
	b, err := NewBase(query, queryMainFlow, annotated(queryMainFlow))
	if err != nil {
		return nil, err
	}

	return &MainFlowchartsMustHaveAnnotations{Base: b}, nil
}

func (*MainFlowchartsMustHaveAnnotations) Name() string {
	return "MainFlowchartsMustHaveAnnotations"
}

func (r *MainFlowchartsMustHaveAnnotations) CheckStyleRule(text string) error {
	err := r.Base.CheckStyleRule(text)
	if err != nil {
		return err
	}

	if len(r.Unmatched()) > 0 {
		r.AddError("Main flowcharts without annotations are not allowed.")
	}

	return nil
}
