package rule_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flindersuni/xamlstyle/pkg/rule"
	"github.com/flindersuni/xamlstyle/pkg/xaml"
)

func newQuery() rule.QueryFunc {
	return xaml.NewQuerier(xaml.DefaultNamespaces()).Query
}

func readWorkflow(t *testing.T, name string) string {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return string(b)
}

func TestNewBase(t *testing.T) {
	t.Parallel()

	_, err := rule.NewBase(nil, "/xaml:Activity", "")
	require.ErrorIs(t, err, rule.ErrInvalidArgument)

	b, err := rule.NewBase(newQuery(), "", "")
	require.NoError(t, err)
	assert.Nil(t, b.Document())
}

func TestBase_CheckStyleRule(t *testing.T) {
	t.Parallel()

	b, err := rule.NewBase(newQuery(),
		"/xaml:Activity/x:Members/x:Property",
		"/xaml:Activity/x:Members/x:Property[@sap2010:Annotation.AnnotationText]",
	)
	require.NoError(t, err)

	require.NoError(t, b.CheckStyleRule(readWorkflow(t, "unannotated.xaml")))
	assert.NotNil(t, b.Document())
	assert.Len(t, b.LenientMatches(), 4)
	assert.Empty(t, b.StrictMatches())
	assert.Len(t, b.Unmatched(), 4)

	require.NoError(t, b.CheckStyleRule(readWorkflow(t, "annotated.xaml")))
	assert.Len(t, b.Matches().Lenient, 4)
	assert.Len(t, b.Matches().Strict, 4)
	assert.Empty(t, b.Unmatched())
	assert.Empty(t, b.Errors())
	assert.Empty(t, b.Warnings())
}

func TestBase_CheckStyleRule_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		lenient string
		strict  string
		text    string
		wantErr error
	}{
		"empty text": {
			lenient: "/xaml:Activity",
			text:    "",
			wantErr: rule.ErrInvalidArgument,
		},
		"strict broader than lenient": {
			lenient: "/xaml:Activity/x:Members/x:Property[@Name='InUsername']",
			strict:  "/xaml:Activity/x:Members/x:Property",
			text:    "unannotated.xaml",
			wantErr: rule.ErrMatchInvariant,
		},
		"bad lenient expression": {
			lenient: "/xaml:Activity[",
			text:    "unannotated.xaml",
		},
		"bad strict expression": {
			lenient: "/xaml:Activity",
			strict:  "/xaml:Activity[",
			text:    "unannotated.xaml",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b, err := rule.NewBase(newQuery(), tc.lenient, tc.strict)
			require.NoError(t, err)

			text := tc.text
			if text != "" {
				text = readWorkflow(t, text)
			}

			err = b.CheckStyleRule(text)
			require.Error(t, err)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestBase_ParseFailure(t *testing.T) {
	t.Parallel()

	b, err := rule.NewBase(newQuery(), "/xaml:Activity", "")
	require.NoError(t, err)

	require.NoError(t, b.CheckStyleRule(readWorkflow(t, "malformed.xaml")))
	assert.Nil(t, b.Document())
	require.Len(t, b.Errors(), 1)
	assert.Contains(t, b.Errors()[0], "The workflow could not be parsed:")

	_, err = b.Select("/xaml:Activity")
	require.ErrorIs(t, err, xaml.ErrEmptyDocument)

	// A later check starts from a clean slate.
	require.NoError(t, b.CheckStyleRule(readWorkflow(t, "annotated.xaml")))
	assert.Empty(t, b.Errors())
	assert.Len(t, b.LenientMatches(), 1)
}

func TestBase_AddMessages(t *testing.T) {
	t.Parallel()

	b, err := rule.NewBase(newQuery(), "", "")
	require.NoError(t, err)

	b.AddWarning("warning %d", 1)
	b.AddError("error %s", "one")
	b.AddError("error %s", "two")

	assert.Equal(t, []string{"warning 1"}, b.Warnings())
	assert.Equal(t, []string{"error one", "error two"}, b.Errors())
}

func TestAttributeValues(t *testing.T) {
	t.Parallel()

	b, err := rule.NewBase(newQuery(), "/xaml:Activity/x:Members/x:Property", "")
	require.NoError(t, err)
	require.NoError(t, b.CheckStyleRule(readWorkflow(t, "unannotated.xaml")))

	names, err := rule.AttributeValues("Name", b.LenientMatches())
	require.NoError(t, err)
	assert.Equal(t, []string{"InUsername", "InPassword", "outResult", "io_Config"}, names)

	types, err := rule.AttributeValues("Type", b.LenientMatches())
	require.NoError(t, err)
	assert.Len(t, types, 4)

	missing, err := rule.AttributeValues("Default", b.LenientMatches())
	require.NoError(t, err)
	assert.Empty(t, missing)

	_, err = rule.AttributeValues(" ", b.LenientMatches())
	require.ErrorIs(t, err, rule.ErrInvalidArgument)
}

func TestAttributeValues_Mixed(t *testing.T) {
	t.Parallel()

	doc, err := xaml.Parse(`<Items>
		<Item Name="un" />
		<Item Name="deux" />
		<Item />
		<Item Name="trois" />
		<Item Name="quatre" />
	</Items>`)
	require.NoError(t, err)

	nodes := xmlquery.Find(doc, "//Item")
	require.Len(t, nodes, 5)

	names, err := rule.AttributeValues("Name", nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"un", "deux", "trois", "quatre"}, names)
}

func TestDifference(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		source   []string
		criteria []string
		want     []string
	}{
		"one left over": {
			source:   []string{"un", "deux", "trois", "quatre", "cinq"},
			criteria: []string{"un", "deux", "trois", "quatre"},
			want:     []string{"cinq"},
		},
		"order preserved": {
			source:   []string{"c", "a", "b", "a"},
			criteria: []string{"b"},
			want:     []string{"c", "a", "a"},
		},
		"empty criteria": {
			source: []string{"a", "b"},
			want:   []string{"a", "b"},
		},
		"everything removed": {
			source:   []string{"a"},
			criteria: []string{"a", "b"},
			want:     []string{},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, rule.Difference(tc.source, tc.criteria))
		})
	}
}
