package expr_test

import (
	"math"
	"testing"

	"github.com/google/cel-go/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flindersuni/xamlstyle/pkg/config"
	"github.com/flindersuni/xamlstyle/pkg/expr"
)

func libraryProject(private ...string) map[string]any {
	return map[string]any{
		"name":             "Flinders.Foundation",
		"version":          "2.1.0",
		"schemaVersion":    4.0,
		"library":          true,
		"privateWorkflows": private,
	}
}

func TestSelector_DefaultLibraryWhen(t *testing.T) {
	t.Parallel()

	s, err := expr.NewSelector(config.DefaultLibraryWhen)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLibraryWhen, s.String())

	tcs := map[string]struct {
		project map[string]any
		file    string
		want    bool
	}{
		"public workflow": {
			project: libraryProject("Main.xaml", "Tests/TestLogin.xaml"),
			file:    "LoginToOktaDashboard.xaml",
			want:    true,
		},
		"private workflow": {
			project: libraryProject("Main.xaml", "Tests/TestLogin.xaml"),
			file:    "Tests/TestLogin.xaml",
			want:    false,
		},
		"no private workflows": {
			project: libraryProject(),
			file:    "Main.xaml",
			want:    true,
		},
		"process": {
			project: map[string]any{
				"library":          false,
				"privateWorkflows": []string{},
			},
			file: "Main.xaml",
			want: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := s.Match(tc.file, tc.project)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSelector_PathFunctions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expression string
		file       string
		want       bool
	}{
		"pathBase": {
			expression: `pathBase(file) == "Main.xaml"`,
			file:       "Framework/Main.xaml",
			want:       true,
		},
		"pathDir": {
			expression: `pathDir(file) == "Framework/Init"`,
			file:       "Framework/Init/InitAllSettings.xaml",
			want:       true,
		},
		"pathDir at root": {
			expression: `pathDir(file) == "."`,
			file:       "Main.xaml",
			want:       true,
		},
		"pathExt": {
			expression: `pathExt(file) == ".xaml"`,
			file:       "Main.xaml",
			want:       true,
		},
		"pathMatch": {
			expression: `pathMatch("Tests/*.xaml", file)`,
			file:       "Tests/TestLogin.xaml",
			want:       true,
		},
		"pathMatch windows separators": {
			expression: `pathMatch("Tests/*.xaml", file)`,
			file:       `Tests\TestLogin.xaml`,
			want:       true,
		},
		"pathMatch does not cross directories": {
			expression: `pathMatch("*.xaml", file)`,
			file:       "Tests/TestLogin.xaml",
			want:       false,
		},
		"strings extension": {
			expression: `file.lowerAscii().startsWith("tests/")`,
			file:       "Tests/TestLogin.xaml",
			want:       true,
		},
		"project name": {
			expression: `project.name.startsWith("Flinders.")`,
			file:       "Main.xaml",
			want:       true,
		},
		"schema version": {
			expression: `project.schemaVersion >= 4.0`,
			file:       "Main.xaml",
			want:       true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s, err := expr.NewSelector(tc.expression)
			require.NoError(t, err)

			got, err := s.Match(tc.file, libraryProject())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSelector_Errors(t *testing.T) {
	t.Parallel()

	_, err := expr.NewSelector("")
	require.Error(t, err)

	_, err = expr.NewSelector("file ==")
	require.ErrorContains(t, err, "compile expression")

	_, err = expr.NewSelector("pathBase(42)")
	require.Error(t, err)

	s, err := expr.NewSelector(`pathBase(file)`)
	require.NoError(t, err)

	got, err := s.Match("Main.xaml", nil)
	require.ErrorIs(t, err, expr.ErrNotBool)
	assert.False(t, got)

	s, err = expr.NewSelector(`project.library`)
	require.NoError(t, err)

	got, err = s.Match("Main.xaml", nil)
	require.Error(t, err)
	assert.False(t, got)

	s, err = expr.NewSelector(`pathMatch("[", file)`)
	require.NoError(t, err)

	_, err = s.Match("Main.xaml", nil)
	require.Error(t, err)
}

func TestEnvironment(t *testing.T) {
	t.Parallel()

	env := expr.MustNewEnvironment()

	program, err := env.Compile(`file.endsWith(".xaml") && size(project) == 0`)
	require.NoError(t, err)

	result, _, err := program.Eval(map[string]any{
		"file":    "Main.xaml",
		"project": map[string]any{},
	})
	require.NoError(t, err)
	assert.Equal(t, true, result.Value())
}

func TestConvertToCELValue(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    any
		expected any
		isNull   bool
	}{
		"nil":           {input: nil, isNull: true},
		"bool":          {input: true, expected: true},
		"int":           {input: 42, expected: int64(42)},
		"int32":         {input: int32(42), expected: int64(42)},
		"uint":          {input: uint(42), expected: int64(42)},
		"uint overflow": {input: uint64(math.MaxUint64), expected: float64(math.MaxUint64)},
		"float64":       {input: 3.2, expected: 3.2},
		"string":        {input: "Main.xaml", expected: "Main.xaml"},
		"unsupported":   {input: struct{}{}, isNull: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := expr.ConvertToCELValue(tc.input)
			if tc.isNull {
				assert.Equal(t, types.NullValue, got)

				return
			}

			assert.Equal(t, tc.expected, got.Value())
		})
	}
}

func TestConvertToCELValue_Collections(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "list", expr.ConvertToCELValue([]string{"a"}).Type().TypeName())
	assert.Equal(t, "list", expr.ConvertToCELValue([]any{1, "a", nil}).Type().TypeName())
	assert.Equal(t, "map", expr.ConvertToCELValue(map[string]string{"a": "b"}).Type().TypeName())
	assert.Equal(t, "map", expr.ConvertToCELValue(map[string]any{"a": []string{"b"}}).Type().TypeName())
}
