package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/flindersuni/xamlstyle/pkg/log"
)

const (
	cmdName = "xamlstyle"
	cmdDesc = `Style checker for UiPath workflows and projects.`
)

type RootArgs struct {
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "warn", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "Export traces to the OTLP gRPC endpoint, e.g. localhost:4317")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)

	runCmd := NewRunCmd(runArgs)
	cmd := &cobra.Command{
		Use:               cmdName + " [path]",
		Short:             cmdDesc,
		Example:           cmdExamples,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging(args),
		ValidArgsFunction: runCompletion,
		Args:              runCmd.Args,
		RunE:              runCmd.RunE,
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)
	cmd.AddCommand(runCmd, NewRulesCmd(), NewSchemaCmd())

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		w := cmd.ErrOrStderr()

		color := isTerminal(w)

		logHandler, err := log.CreateHandlerWithStrings(w, rc.LogLevel, rc.LogFormat, log.Options{
			Color:  &color,
			Source: rc.LogLevel == string(log.LevelDebug),
		})
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		logger := slog.New(logHandler)
		slog.SetDefault(logger)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cmd.SetContext(log.NewContext(ctx, logger))

		return nil
	}
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int.
}
