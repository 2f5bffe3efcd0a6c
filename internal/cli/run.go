package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/flindersuni/xamlstyle/pkg/config"
	"github.com/flindersuni/xamlstyle/pkg/lint"
	"github.com/flindersuni/xamlstyle/pkg/report"
)

const (
	cmdExamples = `  # Check the project in the current directory:
  xamlstyle

  # Check a project directory:
  xamlstyle ./Flinders.Foundation

  # Skip the package feed and report as JSON:
  xamlstyle ./Flinders.Foundation --offline --format json

  # Disable rules for one run:
  xamlstyle --disable WarnVariablesWithDefaultValues,NoOutdatedProjectDependencies

  # Check again whenever a workflow changes:
  xamlstyle ./Flinders.Foundation --watch`
)

// ErrProblemsFound is returned when a run found at least one error. Warnings
// alone do not cause it.
var ErrProblemsFound = errors.New("style problems found")

type RunArgs struct {
	*RootArgs

	Path        string
	ConfigPath  string
	Format      string
	Disable     []string
	Workers     int
	Offline     bool
	Watch       bool
	WriteConfig bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the xamlstyle configuration file")
	cmd.Flags().StringVarP(&ra.Format, "format", "o", string(report.FormatText),
		fmt.Sprintf("Report format, one of: %s", report.AllFormats))
	cmd.Flags().IntVar(&ra.Workers, "workers", runtime.GOMAXPROCS(0), "Number of workflows checked at once")
	cmd.Flags().StringSliceVar(&ra.Disable, "disable", nil, "Rules to disable, in addition to the configured ones")
	cmd.Flags().BoolVar(&ra.Offline, "offline", false, "Skip the checks that need the package feed")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch for changes and check again")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration file and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(report.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run [path]",
		Short:             "Default command, can be used explicitly if the path is ambiguous",
		Example:           cmdExamples,
		SilenceUsage:      true,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: runCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			ra.Path = "."
			if len(args) > 0 {
				ra.Path = args[0]
			}

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runCompletion(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}

	return nil, cobra.ShellCompDirectiveNoFileComp
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	ctx := cmd.Context()

	format, err := report.GetFormat(ra.Format)
	if err != nil {
		return err //nolint:wrapcheck // Names the format.
	}

	shutdown, err := setupTracing(ctx, ra.OTLPEndpoint)
	if err != nil {
		return err
	}

	defer func() {
		err := shutdown(ctx)
		if err != nil {
			slog.Error("shut down tracing", slog.Any("err", err))
		}
	}()

	if ra.WriteConfig {
		path := ra.ConfigPath
		if path == "" {
			path = filepath.Join(ra.Path, config.FileNames[0])
		}

		err := config.WriteDefault(path, false)
		if err != nil {
			return err //nolint:wrapcheck // Already wrapped.
		}

		slog.Info("wrote default configuration", slog.String("path", path))

		return nil
	}

	cfg, configPath, err := loadConfig(cmd, ra)
	if err != nil {
		return err
	}

	if ra.ShowConfig {
		slog.Info("active configuration", slog.String("path", configPath))

		b, err := cfg.MarshalYAML()
		if err != nil {
			return fmt.Errorf("marshal config yaml: %w", err)
		}

		mustN(fmt.Fprint(cmd.OutOrStdout(), string(b)))

		return nil
	}

	l, err := lint.New(ra.Path, cfg,
		lint.WithWorkers(ra.Workers),
		lint.WithOffline(ra.Offline),
	)
	if err != nil {
		return fmt.Errorf("create linter: %w", err)
	}

	out := cmd.OutOrStdout()

	w, err := report.NewWriter(format, report.WithColor(isTerminal(out)))
	if err != nil {
		return err //nolint:wrapcheck // Names the format.
	}

	if ra.Watch {
		return l.Watch(ctx, func(r *lint.Report, err error) {
			if err != nil {
				slog.Error("check failed", slog.Any("err", err))

				return
			}

			if format == report.FormatText {
				mustN(fmt.Fprintf(out, "\n%s\n", time.Now().Format(time.TimeOnly)))
			}

			err = w.Write(out, r)
			if err != nil {
				slog.Error("write report", slog.Any("err", err))
			}
		})
	}

	r, err := l.Run(ctx)
	if err != nil {
		return fmt.Errorf("check %s: %w", ra.Path, err)
	}

	err = w.Write(out, r)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	if r.HasErrors() {
		return ErrProblemsFound
	}

	return nil
}

// loadConfig loads the configuration named by --config, found for the
// project, or embedded, in that order of preference. Rules named by
// --disable are added to the disabled rules.
func loadConfig(cmd *cobra.Command, ra *RunArgs) (*config.Config, string, error) {
	path := ra.ConfigPath
	if path == "" {
		var err error

		path, err = config.Find(ra.Path)
		if err != nil {
			return nil, "", err //nolint:wrapcheck // Already wrapped.
		}
	}

	if path == "" {
		slog.Debug("no configuration file found, using defaults", slog.String("path", ra.Path))
	}

	cfg, err := config.Load(path, config.WithColor(isTerminal(cmd.ErrOrStderr())))
	if err != nil {
		if path == "" {
			path = "default"
		}

		return nil, "", fmt.Errorf("invalid config %q: %w", path, err)
	}

	cfg.Rules.Disabled = append(cfg.Rules.Disabled, ra.Disable...)

	return cfg, path, nil
}
