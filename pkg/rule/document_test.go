package rule_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flindersuni/xamlstyle/pkg/annotation"
	"github.com/flindersuni/xamlstyle/pkg/config"
	"github.com/flindersuni/xamlstyle/pkg/rule"
)

func TestDocumentRules(t *testing.T) {
	t.Parallel()

	defaults := config.New()

	ctors := map[string]func(q rule.QueryFunc) (rule.DocumentRule, error){
		"ArgumentsMustHaveAnnotations": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewArgumentsMustHaveAnnotations(q)
		},
		"ArgumentsMustStartUpperCase": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewArgumentsMustStartUpperCase(q)
		},
		"VariablesMustHaveAnnotations": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewVariablesMustHaveAnnotations(q)
		},
		"VariablesMustStartLowerCase": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewVariablesMustStartLowerCase(q)
		},
		"MainSequencesMustHaveAnnotations": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewMainSequencesMustHaveAnnotations(q)
		},
		"MainFlowchartsMustHaveAnnotations": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewMainFlowchartsMustHaveAnnotations(q)
		},
		"NoArgumentsVariablesSameName": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewNoArgumentsVariablesSameName(q)
		},
		"WarnArgumentsWithDefaultValues": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewWarnArgumentsWithDefaultValues(q, defaults.Rules.IgnoreArgumentDefaults)
		},
		"WarnVariablesWithDefaultValues": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewWarnVariablesWithDefaultValues(q, defaults.Rules.IgnoreVariableDefaults)
		},
		"WorkflowsShouldNotContainCodeActivities": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewWorkflowsShouldNotContainCodeActivities(q, defaults.Rules.CodeActivities)
		},
		"ImportantActivitiesMustHaveAnnotations": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewImportantActivitiesMustHaveAnnotations(q, defaults.Library.ImportantActivities)
		},
		"PublicWorkflowsMustHaveAnnotations": func(q rule.QueryFunc) (rule.DocumentRule, error) {
			return rule.NewPublicWorkflowsMustHaveAnnotations(q)
		},
	}

	tcs := []struct {
		rule         string
		file         string
		wantErrors   []string
		wantWarnings []string
	}{
		{
			rule: "ArgumentsMustHaveAnnotations",
			file: "unannotated.xaml",
			wantErrors: []string{
				"The argument 'InUsername' must have an annotation.",
				"The argument 'InPassword' must have an annotation.",
				"The argument 'outResult' must have an annotation.",
				"The argument 'io_Config' must have an annotation.",
			},
		},
		{rule: "ArgumentsMustHaveAnnotations", file: "annotated.xaml"},
		{
			rule: "ArgumentsMustStartUpperCase",
			file: "unannotated.xaml",
			wantErrors: []string{
				"The argument name 'outResult' must start with an upper case letter.",
				"The argument name 'io_Config' must start with an upper case letter.",
			},
		},
		{rule: "ArgumentsMustStartUpperCase", file: "annotated.xaml"},
		{
			rule: "VariablesMustHaveAnnotations",
			file: "unannotated.xaml",
			wantErrors: []string{
				"The variable 'token' must have an annotation.",
				"The variable 'Attempts' must have an annotation.",
			},
		},
		{
			rule: "VariablesMustHaveAnnotations",
			file: "variables.xaml",
			wantErrors: []string{
				"The variable 'transactionId' must have an annotation.",
				"The variable 'defaultDelayValue' must have an annotation.",
				"The variable '_status' must have an annotation.",
			},
		},
		{rule: "VariablesMustHaveAnnotations", file: "annotated.xaml"},
		{
			rule:       "VariablesMustStartLowerCase",
			file:       "unannotated.xaml",
			wantErrors: []string{"The variable name 'Attempts' must start with a lower case letter."},
		},
		{
			rule: "VariablesMustStartLowerCase",
			file: "variables.xaml",
			wantErrors: []string{
				"The variable name 'RetryCount' must start with a lower case letter.",
				"The variable name '_status' must start with a lower case letter.",
			},
		},
		{
			rule:       "MainSequencesMustHaveAnnotations",
			file:       "unannotated.xaml",
			wantErrors: []string{"Main sequences without annotations are not allowed."},
		},
		{rule: "MainSequencesMustHaveAnnotations", file: "annotated.xaml"},
		{rule: "MainSequencesMustHaveAnnotations", file: "flowchart.xaml"},
		{
			rule:       "MainFlowchartsMustHaveAnnotations",
			file:       "flowchart.xaml",
			wantErrors: []string{"Main flowcharts without annotations are not allowed."},
		},
		{rule: "MainFlowchartsMustHaveAnnotations", file: "activities.xaml"},
		{rule: "MainFlowchartsMustHaveAnnotations", file: "unannotated.xaml"},
		{
			rule: "NoArgumentsVariablesSameName",
			file: "names.xaml",
			wantErrors: []string{
				"The argument name 'Counter' conflicts with a variable of the same name 'counter'.",
				"The argument name 'Counter' conflicts with a variable of the same name 'COUNTER'.",
			},
		},
		{rule: "NoArgumentsVariablesSameName", file: "unannotated.xaml"},
		{
			rule: "WarnArgumentsWithDefaultValues",
			file: "defaults.xaml",
			wantWarnings: []string{
				"The argument with name 'InUrl' has a default value. Check to ensure the value is appropriate.",
				"The argument with name 'InRetries' has a default value. Check to ensure the value is appropriate.",
			},
		},
		{rule: "WarnArgumentsWithDefaultValues", file: "unannotated.xaml"},
		{
			rule: "WarnVariablesWithDefaultValues",
			file: "defaults.xaml",
			wantWarnings: []string{
				"The variable with name 'attempt' has a default value. Check to ensure the value is appropriate.",
			},
		},
		{
			rule: "WarnVariablesWithDefaultValues",
			file: "variables.xaml",
			wantWarnings: []string{
				"The variable with name '_status' has a default value. Check to ensure the value is appropriate.",
			},
		},
		{
			rule: "WorkflowsShouldNotContainCodeActivities",
			file: "activities.xaml",
			wantWarnings: []string{
				"InvokeCode activities should not be used unless absolutely necessary.",
				"InvokeMethod activities should not be used unless absolutely necessary.",
			},
		},
		{rule: "WorkflowsShouldNotContainCodeActivities", file: "annotated.xaml"},
		{
			rule: "ImportantActivitiesMustHaveAnnotations",
			file: "activities.xaml",
			wantErrors: []string{
				"Invoke workflow file activities are important and must have annotations. 2 do not have annotations.",
				"Try catch activities are important and must have annotations. 1 does not have an annotation.",
			},
		},
		{rule: "ImportantActivitiesMustHaveAnnotations", file: "annotated.xaml"},
		{
			rule:       "ImportantActivitiesMustHaveAnnotations",
			file:       "public.xaml",
			wantErrors: []string{"Invoke workflow file activities are important and must have annotations. 1 does not have an annotation."},
		},
		{rule: "PublicWorkflowsMustHaveAnnotations", file: "public.xaml"},
		{
			rule:       "PublicWorkflowsMustHaveAnnotations",
			file:       "unannotated.xaml",
			wantErrors: []string{"Public workflows in libraries must have an annotation."},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.rule+"/"+tc.file, func(t *testing.T) {
			t.Parallel()

			r, err := ctors[tc.rule](newQuery())
			require.NoError(t, err)
			assert.Equal(t, tc.rule, r.Name())

			require.NoError(t, r.CheckStyleRule(readWorkflow(t, tc.file)))

			if tc.wantErrors == nil {
				assert.Empty(t, r.Errors())
			} else {
				assert.Equal(t, tc.wantErrors, r.Errors())
			}

			if tc.wantWarnings == nil {
				assert.Empty(t, r.Warnings())
			} else {
				assert.Equal(t, tc.wantWarnings, r.Warnings())
			}
		})
	}

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		for name, ctor := range ctors {
			r, err := ctor(newQuery())
			require.NoError(t, err)

			require.NoError(t, r.CheckStyleRule(readWorkflow(t, "malformed.xaml")), name)
			require.Len(t, r.Errors(), 1, name)
			assert.Contains(t, r.Errors()[0], "could not be parsed", name)
			assert.Empty(t, r.Warnings(), name)
		}
	})

	t.Run("reused", func(t *testing.T) {
		t.Parallel()

		for name, ctor := range ctors {
			r, err := ctor(newQuery())
			require.NoError(t, err)

			require.NoError(t, r.CheckStyleRule(readWorkflow(t, "unannotated.xaml")), name)
			require.NoError(t, r.CheckStyleRule(readWorkflow(t, "malformed.xaml")), name)
			assert.Len(t, r.Errors(), 1, name)
		}
	})
}

func TestNoArgumentsVariablesSameName_Variables(t *testing.T) {
	t.Parallel()

	r, err := rule.NewNoArgumentsVariablesSameName(newQuery())
	require.NoError(t, err)

	require.NoError(t, r.CheckStyleRule(readWorkflow(t, "names.xaml")))
	assert.Len(t, r.LenientMatches(), 2)
	assert.Len(t, r.Variables(), 3)
	assert.Empty(t, r.StrictMatches())
}

func TestImportantActivitiesMustHaveAnnotations_Matches(t *testing.T) {
	t.Parallel()

	r, err := rule.NewImportantActivitiesMustHaveAnnotations(newQuery(), config.New().Library.ImportantActivities)
	require.NoError(t, err)

	require.NoError(t, r.CheckStyleRule(readWorkflow(t, "activities.xaml")))
	assert.Len(t, r.LenientMatches(), 6)
	assert.Len(t, r.StrictMatches(), 3)
	assert.Len(t, r.Unmatched(), 3)
}

func TestImportantActivitiesMustHaveAnnotations_Invariant(t *testing.T) {
	t.Parallel()

	kinds := []config.Activity{{
		Name:    "InvokeWorkflowFile",
		Lenient: "/xaml:Activity//ui:InvokeWorkflowFile[@DisplayName='Init']",
		Strict:  "/xaml:Activity//ui:InvokeWorkflowFile",
	}}

	r, err := rule.NewImportantActivitiesMustHaveAnnotations(newQuery(), kinds)
	require.NoError(t, err)

	err = r.CheckStyleRule(readWorkflow(t, "activities.xaml"))
	require.ErrorIs(t, err, rule.ErrMatchInvariant)
	assert.ErrorContains(t, err, "InvokeWorkflowFile")
}

func TestImportantActivitiesMustHaveAnnotations_Label(t *testing.T) {
	t.Parallel()

	kinds := []config.Activity{{
		Name:    "TryCatch",
		Lenient: "/xaml:Activity//xaml:TryCatch",
	}}

	r, err := rule.NewImportantActivitiesMustHaveAnnotations(newQuery(), kinds)
	require.NoError(t, err)

	require.NoError(t, r.CheckStyleRule(readWorkflow(t, "activities.xaml")))
	assert.Equal(t, []string{
		"TryCatch are important and must have annotations. 1 does not have an annotation.",
	}, r.Errors())
}

func TestWorkflowsShouldNotContainCodeActivities_Matches(t *testing.T) {
	t.Parallel()

	r, err := rule.NewWorkflowsShouldNotContainCodeActivities(newQuery(), config.New().Rules.CodeActivities)
	require.NoError(t, err)

	require.NoError(t, r.CheckStyleRule(readWorkflow(t, "activities.xaml")))
	assert.Len(t, r.StrictMatches(), 3)
	assert.Len(t, r.LenientMatches(), 3)
	assert.Empty(t, r.Errors())
}

func TestPublicWorkflowsMustHaveAnnotations_Annotation(t *testing.T) {
	t.Parallel()

	r, err := rule.NewPublicWorkflowsMustHaveAnnotations(newQuery())
	require.NoError(t, err)

	require.NoError(t, r.CheckStyleRule(readWorkflow(t, "public.xaml")))
	assert.Equal(t, 1, r.Annotation().Version)
	assert.Contains(t, r.Annotation().InitialTooltip, "Login to Flinders Dashboard")
	assert.Len(t, r.LenientMatches(), 1)
	assert.Len(t, r.StrictMatches(), 1)

	require.NoError(t, r.CheckStyleRule(readWorkflow(t, "unannotated.xaml")))
	assert.Equal(t, annotation.Record{}, r.Annotation())
}

func TestPublicWorkflowsMustHaveAnnotations_Contents(t *testing.T) {
	t.Parallel()

	encode := func(rec annotation.Record) string {
		s, err := annotation.Encode(rec)
		require.NoError(t, err)

		return s
	}

	tcs := map[string]struct {
		attr       string
		element    string
		wantErrors []string
	}{
		"complete": {
			attr: encode(annotation.Record{HelpLink: "https://example.com/wiki", InitialTooltip: "Does things.", Version: 1}),
		},
		"complete element": {
			element: encode(annotation.Record{HelpLink: "https://example.com/wiki", InitialTooltip: "Does things.", Version: 1}),
		},
		"no help link": {
			attr:       encode(annotation.Record{InitialTooltip: "Does things.", Version: 1}),
			wantErrors: []string{"The public workflow annotation must have a help link."},
		},
		"nothing useful": {
			attr: encode(annotation.Record{Version: 1}),
			wantErrors: []string{
				"The public workflow annotation must have a help link.",
				"The public workflow annotation must have a tooltip.",
			},
		},
		"empty attribute": {
			attr:       " ",
			wantErrors: []string{"Public workflows in libraries must have an annotation."},
		},
		"plain text": {
			element:    "Logs in to the dashboard.",
			wantErrors: []string{"The public workflow annotation is not an encoded annotation: "},
		},
		"corrupt payload": {
			attr:       "UPTF00000004e!J9",
			wantErrors: []string{"The public workflow annotation could not be decoded: "},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, err := rule.NewPublicWorkflowsMustHaveAnnotations(newQuery())
			require.NoError(t, err)

			require.NoError(t, r.CheckStyleRule(publicWorkflow(tc.attr, tc.element)))
			require.Len(t, r.Errors(), len(tc.wantErrors))

			for i, want := range tc.wantErrors {
				assert.Contains(t, r.Errors()[i], want)
			}
		})
	}
}

func publicWorkflow(attr, element string) string {
	var a, e string
	if attr != "" {
		a = fmt.Sprintf(" sap2010:Annotation.AnnotationText=%q", attr)
	}

	if element != "" {
		e = "<sap2010:Annotation.AnnotationText>" + element + "</sap2010:Annotation.AnnotationText>"
	}

	return `<Activity x:Class="Okta"` + a + `
 xmlns="http://schemas.microsoft.com/netfx/2009/xaml/activities"
 xmlns:sap2010="http://schemas.microsoft.com/netfx/2010/xaml/activities/presentation"
 xmlns:x="http://schemas.microsoft.com/winfx/2006/xaml">` + e + `
  <Sequence DisplayName="Okta" />
</Activity>`
}
