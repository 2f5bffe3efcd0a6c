package rule

import (
	"fmt"
	"strings"

	"github.com/flindersuni/xamlstyle/pkg/annotation"
)

// PublicWorkflowsMustHaveAnnotations requires the public workflows of a
// library to carry an encoded annotation with a help link and a tooltip.
//
// The annotation is read from the root activity, either from its annotation
// attribute or from a property element of the same name.
type PublicWorkflowsMustHaveAnnotations struct {
	*Base

	record annotation.Record
}

func NewPublicWorkflowsMustHaveAnnotations(query QueryFunc) (*PublicWorkflowsMustHaveAnnotations, error) {
	b, err := NewBase(query, "", "")
	if err != nil {
		return nil, err
	}

	return &PublicWorkflowsMustHaveAnnotations{Base: b}, nil
}

func (*PublicWorkflowsMustHaveAnnotations) Name() string {
	return "PublicWorkflowsMustHaveAnnotations"
}

// Annotation returns the annotation decoded by the last check.
func (r *PublicWorkflowsMustHaveAnnotations) Annotation() annotation.Record {
	return r.record
}

func (r *PublicWorkflowsMustHaveAnnotations) CheckStyleRule(text string) error {
	r.record = annotation.Record{}

	err := r.Base.CheckStyleRule(text)
	if err != nil || r.Document() == nil {
		return err
	}

	var encoded string

	for _, expr := range []string{queryRootAnnotationAttr, queryRootAnnotationElement} {
		nodes, err := r.Select(expr)
		if err != nil {
			return fmt.Errorf("annotation query: %w", err)
		}

		for _, n := range nodes {
			r.matches.Lenient = append(r.matches.Lenient, n)

			v := strings.TrimSpace(n.InnerText())
			if v == "" {
				continue
			}

			r.matches.Strict = append(r.matches.Strict, n)

			if encoded == "" {
				encoded = v
			}
		}
	}

	if encoded == "" {
		r.AddError("Public workflows in libraries must have an annotation.")

		return nil
	}

	record, err := ParseComplexAnnotation(encoded)
	if err != nil {
		switch annotation.KindOf(err) {
		case annotation.KindInvalidArgument:
			r.AddError("The public workflow annotation is empty.")
		case annotation.KindFormat:
			r.AddError("The public workflow annotation is not an encoded annotation: %v", err)
		case annotation.KindSyntax:
			r.AddError("The public workflow annotation could not be decoded: %v", err)
		case annotation.KindNone, annotation.KindUnexpected:
			r.AddError("An unexpected error occurred reading the public workflow annotation: %v", err)
		}

		return nil
	}

	r.record = record

	if strings.TrimSpace(record.HelpLink) == "" {
		r.AddError("The public workflow annotation must have a help link.")
	}

	if strings.TrimSpace(record.InitialTooltip) == "" {
		r.AddError("The public workflow annotation must have a tooltip.")
	}

	return nil
}
