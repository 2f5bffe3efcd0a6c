package lint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/flindersuni/xamlstyle/pkg/config"
	"github.com/flindersuni/xamlstyle/pkg/expr"
	"github.com/flindersuni/xamlstyle/pkg/feed"
	"github.com/flindersuni/xamlstyle/pkg/log"
	"github.com/flindersuni/xamlstyle/pkg/project"
	"github.com/flindersuni/xamlstyle/pkg/rule"
	"github.com/flindersuni/xamlstyle/pkg/xaml"
)

// ErrInvalidArgument is returned when a [Linter] is misconfigured.
var ErrInvalidArgument = errors.New("invalid argument")

// Linter checks the workflows and manifest of one project.
type Linter struct {
	tracer    trace.Tracer
	cfg       *config.Config
	catalogue *rule.Catalogue
	selector  *expr.Selector
	feed      rule.Feed
	root      string
	workers   int
	debounce  time.Duration
	offline   bool
}

// Opt configures a [Linter].
type Opt func(*Linter)

// WithWorkers sets the number of workflows checked at once. Values below one
// use the number of CPUs.
func WithWorkers(n int) Opt {
	return func(l *Linter) {
		l.workers = n
	}
}

// WithOffline skips the project rules, which need the package feed.
func WithOffline(offline bool) Opt {
	return func(l *Linter) {
		l.offline = offline
	}
}

// WithFeed sets the package feed. By default the feed is built from the
// configuration.
func WithFeed(f rule.Feed) Opt {
	return func(l *Linter) {
		l.feed = f
	}
}

// New creates a new [Linter] for the project in root.
func New(root string, cfg *config.Config, opts ...Opt) (*Linter, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: project directory is required", ErrInvalidArgument)
	}

	if cfg == nil {
		cfg = config.New()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidArgument, abs)
	}

	catalogue, err := rule.NewCatalogue(cfg)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}

	selector, err := expr.NewSelector(cfg.Library.When)
	if err != nil {
		return nil, fmt.Errorf("library.when: %w", err)
	}

	l := &Linter{
		tracer:    otel.Tracer("xamlstyle/lint"),
		cfg:       cfg,
		catalogue: catalogue,
		selector:  selector,
		root:      abs,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.workers < 1 {
		l.workers = runtime.GOMAXPROCS(0)
	}

	if l.feed == nil {
		l.feed = feed.NewNuGet(cfg.Feed.URL, cfg.Feed.TimeoutDuration())
	}

	return l, nil
}

// Root returns the absolute project directory.
func (l *Linter) Root() string {
	return l.root
}

// Run checks every workflow, then the project. Problems found in the project
// are reported in the returned [Report]; an error is only returned when the
// run itself fails.
func (l *Linter) Run(ctx context.Context) (*Report, error) {
	ctx, span := l.tracer.Start(ctx, "run", trace.WithAttributes(
		attribute.String("root", l.root),
		attribute.Int("workers", l.workers),
	))
	defer span.End()

	report, err := l.run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	warnings, errs := report.Totals()
	span.SetAttributes(
		attribute.Int("files", len(report.Files)),
		attribute.Int("warnings", warnings),
		attribute.Int("errors", errs),
	)

	return report, nil
}

func (l *Linter) run(ctx context.Context) (*Report, error) {
	logger := log.WithContext(ctx)

	manifest, err := project.Load(l.root)
	if errors.Is(err, fs.ErrNotExist) {
		logger.WarnContext(ctx, "no project manifest, library and project rules are skipped",
			slog.String("path", l.root),
		)

		manifest = nil
	} else if err != nil {
		return nil, err //nolint:wrapcheck // Already has the path.
	}

	files, err := Discover(l.root)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "discovered workflows",
		slog.String("path", l.root),
		slog.Int("count", len(files)),
	)

	report := &Report{
		Root:    l.root,
		Files:   make([]FileResult, len(files)),
		Offline: l.offline || manifest == nil,
	}

	var values map[string]any
	if manifest != nil {
		report.Name = manifest.Name()
		values = manifest.Values()
	}

	err = l.checkFiles(ctx, files, values, report.Files)
	if err != nil {
		return nil, err
	}

	if !report.Offline {
		report.Project, err = l.checkProject(ctx, manifest)
		if err != nil {
			return nil, err
		}
	}

	return report, nil
}

// checkFiles fills results, which has one entry per file, in file order.
// Each worker has its own rules, since rules keep per-check state.
func (l *Linter) checkFiles(ctx context.Context, files []string, values map[string]any, results []FileResult) error {
	g, ctx := errgroup.WithContext(ctx)

	next := make(chan int)

	g.Go(func() error {
		defer close(next)

		for i := range files {
			select {
			case next <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return nil
	})

	for range min(l.workers, max(len(files), 1)) {
		g.Go(func() error {
			w, err := l.newWorker()
			if err != nil {
				return err
			}

			for i := range next {
				results[i], err = l.checkFile(ctx, w, files[i], values)
				if err != nil {
					return err
				}
			}

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return fmt.Errorf("check workflows: %w", err)
	}

	return nil
}

type worker struct {
	defaults []rule.DocumentRule
	library  []rule.DocumentRule
}

func (l *Linter) newWorker() (*worker, error) {
	defaults, err := l.catalogue.DefaultRules()
	if err != nil {
		return nil, fmt.Errorf("create rules: %w", err)
	}

	library, err := l.catalogue.LibraryRules()
	if err != nil {
		return nil, fmt.Errorf("create rules: %w", err)
	}

	return &worker{
		defaults: rule.Enabled(l.catalogue, defaults),
		library:  rule.Enabled(l.catalogue, library),
	}, nil
}

func (l *Linter) checkFile(ctx context.Context, w *worker, file string, values map[string]any) (FileResult, error) {
	ctx, span := l.tracer.Start(ctx, "file", trace.WithAttributes(
		attribute.String("path", file),
	))
	defer span.End()

	res := FileResult{Path: file}

	err := ctx.Err()
	if err != nil {
		return res, err //nolint:wrapcheck // Wrapped by the caller.
	}

	data, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(file)))
	if err != nil {
		span.RecordError(err)

		return res, fmt.Errorf("read workflow: %w", err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		res.Errors = append(res.Errors, "The workflow is empty.")

		return res, nil
	}

	// Parse failures are reported once, not once per rule.
	_, err = xaml.Parse(text)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("The workflow could not be parsed: %v", err))

		return res, nil
	}

	rules := w.defaults
	if l.libraryApplies(ctx, file, values) {
		res.Library = true
		rules = append(slices.Clip(rules), w.library...)
	}

	var r Result
	for _, dr := range rules {
		err := dr.CheckStyleRule(text)
		if err != nil {
			span.RecordError(err)

			return res, fmt.Errorf("%s: %s: %w", file, dr.Name(), err)
		}

		r.add(dr)
	}

	res.Warnings, res.Errors = r.Warnings, r.Errors

	span.SetAttributes(
		attribute.Bool("library", res.Library),
		attribute.Int("warnings", len(res.Warnings)),
		attribute.Int("errors", len(res.Errors)),
	)

	return res, nil
}

func (l *Linter) libraryApplies(ctx context.Context, file string, values map[string]any) bool {
	if values == nil {
		return false
	}

	ok, err := l.selector.Match(file, values)
	if err != nil {
		log.WithContext(ctx).DebugContext(ctx, "library selector did not match",
			slog.String("file", file),
			slog.String("expression", l.selector.String()),
			slog.Any("error", err),
		)

		return false
	}

	return ok
}

func (l *Linter) checkProject(ctx context.Context, manifest *project.Manifest) (Result, error) {
	ctx, span := l.tracer.Start(ctx, "project", trace.WithAttributes(
		attribute.String("name", manifest.Name()),
		attribute.Int("dependencies", len(manifest.DependencyNames())),
	))
	defer span.End()

	rules, err := l.catalogue.ProjectRules(manifest, l.feed)
	if err != nil {
		return Result{}, fmt.Errorf("create project rules: %w", err)
	}

	var r Result
	for _, pr := range rule.Enabled(l.catalogue, rules) {
		err := pr.CheckStyleRule(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return Result{}, fmt.Errorf("%s: %w", pr.Name(), err)
		}

		r.add(pr)
	}

	return r, nil
}
