package expr

import (
	"math"
	"path"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		// `pathBase` returns the last element of the path.
		// Example: pathBase(file) == "Main.xaml".
		cel.Function("pathBase",
			cel.Overload("path_base", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(p ref.Val) ref.Val {
					s, ok := p.(types.String)
					if !ok {
						return types.NewErr("pathBase: invalid string value")
					}

					return types.String(path.Base(slash(string(s))))
				}),
			),
		),

		// `pathDir` returns all but the last element of the path.
		// Example: !pathDir(file).startsWith("Tests").
		cel.Function("pathDir",
			cel.Overload("path_dir", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(p ref.Val) ref.Val {
					s, ok := p.(types.String)
					if !ok {
						return types.NewErr("pathDir: invalid string value")
					}

					return types.String(path.Dir(slash(string(s))))
				}),
			),
		),

		// `pathExt` returns the file extension of the path.
		cel.Function("pathExt",
			cel.Overload("path_ext", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(p ref.Val) ref.Val {
					s, ok := p.(types.String)
					if !ok {
						return types.NewErr("pathExt: invalid string value")
					}

					return types.String(path.Ext(string(s)))
				}),
			),
		),

		// `pathMatch` reports whether the path matches a shell pattern.
		// Example: !pathMatch("Tests/*.xaml", file).
		cel.Function("pathMatch",
			cel.Overload("path_match", []*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(pattern, p ref.Val) ref.Val {
					patternStr, ok := pattern.(types.String)
					if !ok {
						return types.NewErr("pathMatch: invalid pattern value")
					}

					pathStr, ok := p.(types.String)
					if !ok {
						return types.NewErr("pathMatch: invalid path value")
					}

					matched, err := path.Match(string(patternStr), slash(string(pathStr)))
					if err != nil {
						return types.NewErr("pathMatch: %v", err)
					}

					return types.Bool(matched)
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

// slash converts Windows separators, as found in project manifests.
func slash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// ConvertToCELValue converts a Go value to a CEL value.
// Unsupported types convert to null.
//
//nolint:ireturn // Following CEL's function signature.
func ConvertToCELValue(value any) ref.Val {
	switch v := value.(type) {
	case nil:
		return types.NullValue

	case bool:
		return types.Bool(v)

	case int:
		return types.Int(v)

	case int32:
		return types.Int(int64(v))

	case int64:
		return types.Int(v)

	case uint:
		// Check for overflow when converting to int64.
		if v > math.MaxInt64 {
			return types.Double(float64(v))
		}

		return types.Int(int64(v))

	case uint64:
		if v > math.MaxInt64 {
			return types.Double(float64(v))
		}

		return types.Int(int64(v))

	case float32:
		return types.Double(float64(v))

	case float64:
		return types.Double(v)

	case string:
		return types.String(v)

	case []string:
		return types.NewStringList(types.DefaultTypeAdapter, v)

	case []any:
		celValues := make([]ref.Val, len(v))
		for i, item := range v {
			celValues[i] = ConvertToCELValue(item)
		}

		return types.NewDynamicList(types.DefaultTypeAdapter, celValues)

	case map[string]string:
		return types.NewStringStringMap(types.DefaultTypeAdapter, v)

	case map[string]any:
		celMap := make(map[ref.Val]ref.Val, len(v))
		for key, val := range v {
			celMap[types.String(key)] = ConvertToCELValue(val)
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	default:
		return types.NullValue
	}
}
