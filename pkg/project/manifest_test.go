package project_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flindersuni/xamlstyle/pkg/project"
	"github.com/flindersuni/xamlstyle/pkg/rule"
)

var _ rule.Project = (*project.Manifest)(nil)

func TestLoad_Legacy(t *testing.T) {
	t.Parallel()

	m, err := project.Load(filepath.Join("testdata", "legacy"))
	require.NoError(t, err)

	assert.Equal(t, "Flinders.Foundation", m.Name())
	assert.Equal(t, "1.0.7", m.Version())
	assert.Equal(t, "Main.xaml", m.Main())
	assert.InDelta(t, 3.2, m.SchemaVersion(), 0.0001)
	assert.True(t, m.IsLibrary())
	assert.Len(t, m.PrivateWorkflows(), 19)
	assert.Contains(t, m.PrivateWorkflows(), "Tests/TestSendEmail.xaml")
	assert.True(t, m.IsPrivate("Tests/TestGetCredential.xaml"))
	assert.False(t, m.IsPrivate("LoginToOktaDashboard.xaml"))
	assert.Equal(t, []string{
		"Flinders.Credentials",
		"UiPath.Excel.Activities",
		"UiPath.Mail.Activities",
		"UiPath.System.Activities",
		"UiPath.UIAutomation.Activities",
	}, m.DependencyNames())
	assert.Equal(t, "[2.5.3]", m.Dependencies()["UiPath.Excel.Activities"])
}

func TestLoad_Nested(t *testing.T) {
	t.Parallel()

	m, err := project.Load(filepath.Join("testdata", "nested"))
	require.NoError(t, err)

	assert.InDelta(t, 4.0, m.SchemaVersion(), 0.0001)
	assert.True(t, m.IsLibrary())
	assert.Equal(t, []string{"Main.xaml", "Tests/TestLoginToOktaDashboard.xaml"}, m.PrivateWorkflows())
	assert.Equal(t, "2.1.0", m.Version())
	assert.Len(t, m.Dependencies(), 3)
}

func TestLoad_Process(t *testing.T) {
	t.Parallel()

	m, err := project.Load(filepath.Join("testdata", "process"))
	require.NoError(t, err)

	assert.InDelta(t, 4.5, m.SchemaVersion(), 0.0001)
	assert.False(t, m.IsLibrary())
	assert.Empty(t, m.PrivateWorkflows())

	values := m.Values()
	assert.Equal(t, "StudentEnrolment", values["name"])
	assert.Equal(t, false, values["library"])
	assert.Equal(t, "1.3.0", values["version"])
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := project.Load("")
	require.ErrorIs(t, err, project.ErrInvalidArgument)

	_, err = project.Load(t.TempDir())
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		data        string
		wantSchema  float64
		wantLibrary bool
		wantPrivate int
		wantVersion string
	}{
		"empty object": {
			data:       `{}`,
			wantSchema: math.NaN(),
		},
		"schema version number": {
			data:        `{"schemaVersion": 4, "designOptions": {"outputType": "Library", "libraryOptions": {"privateWorkflows": ["A.xaml"]}}}`,
			wantSchema:  4,
			wantLibrary: true,
			wantPrivate: 1,
		},
		"schema version not a number": {
			data:        `{"schemaVersion": "four", "projectType": "Library", "libraryOptions": {"privateWorkflows": ["A.xaml", "B.xaml"]}}`,
			wantSchema:  math.NaN(),
			wantLibrary: true,
			wantPrivate: 2,
		},
		"legacy fields ignored by nested layout": {
			data:       `{"schemaVersion": "4.0", "projectType": "Library", "libraryOptions": {"privateWorkflows": ["A.xaml"]}}`,
			wantSchema: 4,
		},
		"nested fields ignored by legacy layout": {
			data:       `{"schemaVersion": "3.9", "designOptions": {"outputType": "Library"}}`,
			wantSchema: 3.9,
		},
		"old version key": {
			data:        `{"version": "1.0.0"}`,
			wantSchema:  math.NaN(),
			wantVersion: "1.0.0",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m, err := project.Parse([]byte(tc.data))
			require.NoError(t, err)

			if math.IsNaN(tc.wantSchema) {
				assert.True(t, math.IsNaN(m.SchemaVersion()))
			} else {
				assert.InDelta(t, tc.wantSchema, m.SchemaVersion(), 0.0001)
			}

			assert.Equal(t, tc.wantLibrary, m.IsLibrary())
			assert.Len(t, m.PrivateWorkflows(), tc.wantPrivate)
			assert.Equal(t, tc.wantVersion, m.Version())
			assert.Empty(t, m.Name())
			assert.NotNil(t, m.Dependencies())
			assert.Empty(t, m.DependencyNames())
		})
	}

	_, err := project.Parse([]byte(`{"name": `))
	require.Error(t, err)
}
