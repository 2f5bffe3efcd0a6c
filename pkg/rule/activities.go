package rule

import (
	"fmt"

	"github.com/antchfx/xmlquery"

	"github.com/flindersuni/xamlstyle/pkg/config"
)

// ImportantActivitiesMustHaveAnnotations requires every activity of the
// configured kinds to be annotated. Each kind has its own lenient and strict
// expressions, and is reported once with the number of unannotated
// activities.
type ImportantActivitiesMustHaveAnnotations struct {
	*Base

	kinds []config.Activity
}

func NewImportantActivitiesMustHaveAnnotations(
	query QueryFunc,
	kinds []config.Activity,
) (*ImportantActivitiesMustHaveAnnotations, error) {
	b, err := NewBase(query, "", "")
	if err != nil {
		return nil, err
	}

	return &ImportantActivitiesMustHaveAnnotations{Base: b, kinds: kinds}, nil
}

func (*ImportantActivitiesMustHaveAnnotations) Name() string {
	return "ImportantActivitiesMustHaveAnnotations"
}

func (r *ImportantActivitiesMustHaveAnnotations) CheckStyleRule(text string) error {
	err := r.Base.CheckStyleRule(text)
	if err != nil || r.Document() == nil {
		return err
	}

	for _, kind := range r.kinds {
		lenient, err := r.Select(kind.Lenient)
		if err != nil {
			return fmt.Errorf("%s: lenient query: %w", kind.Name, err)
		}

		var strict []*xmlquery.Node
		if kind.Strict != "" {
			strict, err = r.Select(kind.Strict)
			if err != nil {
				return fmt.Errorf("%s: strict query: %w", kind.Name, err)
			}
		}

		m := MatchSet{Lenient: lenient, Strict: strict}

		err = checkInvariant(m)
		if err != nil {
			return fmt.Errorf("%s: %w", kind.Name, err)
		}

		r.matches.Lenient = append(r.matches.Lenient, m.Lenient...)
		r.matches.Strict = append(r.matches.Strict, m.Strict...)

		switch diff := len(m.Lenient) - len(m.Strict); {
		case diff == 1:
			r.AddError("%s are important and must have annotations. %d does not have an annotation.",
				kind.Label(), diff)
		case diff > 1:
			r.AddError("%s are important and must have annotations. %d do not have annotations.",
				kind.Label(), diff)
		}
	}

	return nil
}

// WorkflowsShouldNotContainCodeActivities warns once for each configured kind
// of code activity present in a workflow. Matched activities are available
// from [Base.StrictMatches].
type WorkflowsShouldNotContainCodeActivities struct {
	*Base

	kinds []config.Activity
}

func NewWorkflowsShouldNotContainCodeActivities(
	query QueryFunc,
	kinds []config.Activity,
) (*WorkflowsShouldNotContainCodeActivities, error) {
	b, err := NewBase(query, "", "")
	if err != nil {
		return nil, err
	}

	return &WorkflowsShouldNotContainCodeActivities{Base: b, kinds: kinds}, nil
}

func (*WorkflowsShouldNotContainCodeActivities) Name() string {
	return "WorkflowsShouldNotContainCodeActivities"
}

func (r *WorkflowsShouldNotContainCodeActivities) CheckStyleRule(text string) error {
	err := r.Base.CheckStyleRule(text)
	if err != nil || r.Document() == nil {
		return err
	}

	for _, kind := range r.kinds {
		matches, err := r.Select(kind.Lenient)
		if err != nil {
			return fmt.Errorf("%s: %w", kind.Name, err)
		}

		if len(matches) == 0 {
			continue
		}

		r.AddWarning("%s activities should not be used unless absolutely necessary.", kind.Name)

		r.matches.Lenient = append(r.matches.Lenient, matches...)
		r.matches.Strict = append(r.matches.Strict, matches...)
	}

	return nil
}
