package rule

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/flindersuni/xamlstyle/pkg/config"
	"github.com/flindersuni/xamlstyle/pkg/xaml"
)

// Rule names, in catalogue order.
var (
	defaultRuleNames = []string{
		"ArgumentsMustHaveAnnotations",
		"ArgumentsMustStartUpperCase",
		"VariablesMustHaveAnnotations",
		"VariablesMustStartLowerCase",
		"MainSequencesMustHaveAnnotations",
		"MainFlowchartsMustHaveAnnotations",
		"NoArgumentsVariablesSameName",
		"WarnArgumentsWithDefaultValues",
		"WarnVariablesWithDefaultValues",
		"WorkflowsShouldNotContainCodeActivities",
	}
	libraryRuleNames = []string{
		"ImportantActivitiesMustHaveAnnotations",
		"PublicWorkflowsMustHaveAnnotations",
	}
	projectRuleNames = []string{
		"NoOutdatedProjectDependencies",
	}
)

// Catalogue builds rules from a [config.Config].
type Catalogue struct {
	cfg      *config.Config
	ns       xaml.Namespaces
	disabled map[string]struct{}
}

// NewCatalogue creates a new [Catalogue]. It fails if the configuration
// disables an unknown rule, or if a configured activity expression does not
// compile.
func NewCatalogue(cfg *config.Config) (*Catalogue, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration is required", ErrInvalidArgument)
	}

	cfg.EnsureDefaults()

	ns := xaml.DefaultNamespaces().Merge(cfg.Namespaces)

	err := ns.Validate()
	if err != nil {
		return nil, fmt.Errorf("namespaces: %w", err)
	}

	c := &Catalogue{
		cfg:      cfg,
		ns:       ns,
		disabled: map[string]struct{}{},
	}

	names := Names()
	for _, d := range cfg.Rules.Disabled {
		if !slices.Contains(names, d) {
			return nil, unknownRuleError(names, d)
		}

		c.disabled[d] = struct{}{}
	}

	q := xaml.NewQuerier(ns)

	activities := append([]config.Activity{}, cfg.Rules.CodeActivities...)
	activities = append(activities, cfg.Library.ImportantActivities...)

	for _, a := range activities {
		for _, expr := range []string{a.Lenient, a.Strict} {
			if expr == "" {
				continue
			}

			_, err := q.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("activity %q: %w", a.Name, err)
			}
		}
	}

	return c, nil
}

// Names returns the name of every known rule.
func Names() []string {
	names := make([]string, 0, len(defaultRuleNames)+len(libraryRuleNames)+len(projectRuleNames))
	names = append(names, defaultRuleNames...)
	names = append(names, libraryRuleNames...)
	names = append(names, projectRuleNames...)

	return names
}

// Namespaces returns the namespace bindings used by the catalogue's rules.
func (c *Catalogue) Namespaces() xaml.Namespaces {
	return c.ns
}

// Disabled reports whether the named rule is disabled by configuration.
func (c *Catalogue) Disabled(name string) bool {
	_, ok := c.disabled[name]

	return ok
}

// DefaultRules returns new instances of the rules applied to every workflow,
// in catalogue order. The rules share one new query binding.
func (c *Catalogue) DefaultRules() ([]DocumentRule, error) {
	q := xaml.NewQuerier(c.ns).Query

	ctors := []func() (DocumentRule, error){
		func() (DocumentRule, error) { return NewArgumentsMustHaveAnnotations(q) },
		func() (DocumentRule, error) { return NewArgumentsMustStartUpperCase(q) },
		func() (DocumentRule, error) { return NewVariablesMustHaveAnnotations(q) },
		func() (DocumentRule, error) { return NewVariablesMustStartLowerCase(q) },
		func() (DocumentRule, error) { return NewMainSequencesMustHaveAnnotations(q) },
		func() (DocumentRule, error) { return NewMainFlowchartsMustHaveAnnotations(q) },
		func() (DocumentRule, error) { return NewNoArgumentsVariablesSameName(q) },
		func() (DocumentRule, error) {
			return NewWarnArgumentsWithDefaultValues(q, c.cfg.Rules.IgnoreArgumentDefaults)
		},
		func() (DocumentRule, error) {
			return NewWarnVariablesWithDefaultValues(q, c.cfg.Rules.IgnoreVariableDefaults)
		},
		func() (DocumentRule, error) {
			return NewWorkflowsShouldNotContainCodeActivities(q, c.cfg.Rules.CodeActivities)
		},
	}

	return build(ctors)
}

// LibraryRules returns new instances of the rules applied to the public
// workflows of a library.
func (c *Catalogue) LibraryRules() ([]DocumentRule, error) {
	q := xaml.NewQuerier(c.ns).Query

	ctors := []func() (DocumentRule, error){
		func() (DocumentRule, error) {
			return NewImportantActivitiesMustHaveAnnotations(q, c.cfg.Library.ImportantActivities)
		},
		func() (DocumentRule, error) { return NewPublicWorkflowsMustHaveAnnotations(q) },
	}

	return build(ctors)
}

// ProjectRules returns the rules applied to the project as a whole.
func (c *Catalogue) ProjectRules(p Project, f Feed) ([]ProjectRule, error) {
	r, err := NewNoOutdatedProjectDependencies(p, f, c.cfg.Feed.IgnorePrefixes)
	if err != nil {
		return nil, err
	}

	return []ProjectRule{r}, nil
}

// Enabled returns the rules that are not disabled by configuration.
func Enabled[T interface{ Name() string }](c *Catalogue, rules []T) []T {
	out := make([]T, 0, len(rules))
	for _, r := range rules {
		if !c.Disabled(r.Name()) {
			out = append(out, r)
		}
	}

	return out
}

func build(ctors []func() (DocumentRule, error)) ([]DocumentRule, error) {
	rules := make([]DocumentRule, 0, len(ctors))
	for _, ctor := range ctors {
		r, err := ctor()
		if err != nil {
			return nil, err
		}

		rules = append(rules, r)
	}

	return rules, nil
}

func unknownRuleError(names []string, name string) error {
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return fmt.Errorf("%w: unknown rule %q", ErrInvalidArgument, name)
	}

	suggestions := make([]string, 0, 3)
	for i, m := range matches {
		if i == 3 {
			break
		}

		suggestions = append(suggestions, m.Str)
	}

	return fmt.Errorf("%w: unknown rule %q, did you mean %s?",
		ErrInvalidArgument, name, strings.Join(suggestions, " or "))
}
