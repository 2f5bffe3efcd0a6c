package rule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/flindersuni/xamlstyle/pkg/feed"
)

// ProjectRule checks a project as a whole.
type ProjectRule interface {
	Name() string
	// CheckStyleRule checks the project, replacing the results of any earlier
	// check.
	CheckStyleRule(ctx context.Context) error
	Warnings() []string
	Errors() []string
}

// Project is the manifest information used by project rules.
type Project interface {
	Name() string
	// Dependencies maps package names to declared versions.
	Dependencies() map[string]string
	// DependencyNames returns the dependency names in sorted order.
	DependencyNames() []string
}

// Feed looks up the latest published version of a package.
type Feed interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// BaseProject holds the state shared by project rules. It does not check
// anything itself.
type BaseProject struct {
	project  Project
	warnings []string
	errors   []string
}

func NewBaseProject(p Project) (*BaseProject, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: project is required", ErrInvalidArgument)
	}

	return &BaseProject{project: p}, nil
}

func (*BaseProject) Name() string {
	return "BaseProject"
}

// CheckStyleRule always returns [ErrUnimplemented].
func (*BaseProject) CheckStyleRule(context.Context) error {
	return ErrUnimplemented
}

func (b *BaseProject) Project() Project {
	return b.project
}

func (b *BaseProject) Warnings() []string {
	return b.warnings
}

func (b *BaseProject) Errors() []string {
	return b.errors
}

func (b *BaseProject) AddWarning(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

func (b *BaseProject) AddError(format string, args ...any) {
	b.errors = append(b.errors, fmt.Sprintf(format, args...))
}

func (b *BaseProject) reset() {
	b.warnings = nil
	b.errors = nil
}

// NoOutdatedProjectDependencies reports dependencies whose declared version is
// not the latest version published to the package feed.
type NoOutdatedProjectDependencies struct {
	*BaseProject

	feed           Feed
	ignorePrefixes []string
}

// NewNoOutdatedProjectDependencies creates the rule. Dependencies whose names
// start with one of ignorePrefixes are skipped.
func NewNoOutdatedProjectDependencies(
	p Project,
	f Feed,
	ignorePrefixes []string,
) (*NoOutdatedProjectDependencies, error) {
	b, err := NewBaseProject(p)
	if err != nil {
		return nil, err
	}

	if f == nil {
		return nil, fmt.Errorf("%w: package feed is required", ErrInvalidArgument)
	}

	return &NoOutdatedProjectDependencies{
		BaseProject:    b,
		feed:           f,
		ignorePrefixes: ignorePrefixes,
	}, nil
}

func (*NoOutdatedProjectDependencies) Name() string {
	return "NoOutdatedProjectDependencies"
}

func (r *NoOutdatedProjectDependencies) CheckStyleRule(ctx context.Context) error {
	r.reset()

	deps := r.project.Dependencies()

	for _, name := range r.project.DependencyNames() {
		if r.ignored(name) {
			continue
		}

		declared := NormaliseVersion(deps[name])

		latest, err := r.feed.LatestVersion(ctx, name)
		if errors.Is(err, feed.ErrNotFound) {
			r.AddError("The '%s' package could not be found in the package feed.", name)

			continue
		}

		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("look up %s: %w", name, err)
			}

			r.AddError("The '%s' package could not be checked against the package feed: %v", name, err)

			continue
		}

		if !SameVersion(declared, latest) {
			r.AddError("The '%s' package with version %s is outdated by version %s.", name, declared, latest)
		}
	}

	return nil
}

func (r *NoOutdatedProjectDependencies) ignored(name string) bool {
	for _, p := range r.ignorePrefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}

	return false
}

// NormaliseVersion reduces a NuGet version constraint such as `[1.2.3]` or
// `[1.2.3, )` to its lower bound.
func NormaliseVersion(constraint string) string {
	v := strings.Trim(strings.TrimSpace(constraint), "[]()")
	if lower, _, ok := strings.Cut(v, ","); ok {
		v = lower
	}

	return strings.TrimSpace(v)
}

// SameVersion reports whether a and b are the same version. Versions that do
// not parse are compared as strings.
func SameVersion(a, b string) bool {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)

	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}

	return va.Equal(vb)
}
