package expr

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// ErrNotBool is returned when an expression does not evaluate to a bool.
var ErrNotBool = errors.New("expression result is not a bool")

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment] declaring the `file` and
// `project` variables.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := createEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

func createEnvironment(opts ...cel.EnvOption) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts,
		cel.Variable("file", cel.StringType),
		cel.Variable("project", cel.MapType(cel.StringType, cel.DynType)),
		cel.Lib(&lib{}),
	)

	celEnv, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return celEnv, nil
}

// Compile compiles a CEL expression and returns a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}

// Selector decides whether a workflow is selected by an expression.
// It is safe for concurrent use.
type Selector struct {
	program    cel.Program
	expression string
}

// NewSelector compiles expression in a new [Environment].
func NewSelector(expression string) (*Selector, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, errors.New("expression is required")
	}

	env, err := NewEnvironment()
	if err != nil {
		return nil, err
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, err
	}

	return &Selector{program: program, expression: expression}, nil
}

// String returns the source expression.
func (s *Selector) String() string {
	return s.expression
}

// Match evaluates the expression for file. Evaluation errors and non-bool
// results are returned alongside false.
func (s *Selector) Match(file string, project map[string]any) (bool, error) {
	if project == nil {
		project = map[string]any{}
	}

	result, _, err := s.program.Eval(map[string]any{
		"file":    types.String(file),
		"project": ConvertToCELValue(project),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", s.expression, err)
	}

	b, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %s", ErrNotBool, s.expression, result.Type().TypeName())
	}

	return b, nil
}
