package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars binds environment variables to the flags of cmd. Environment
// variable names are XAMLSTYLE_<FLAG_NAME>, with the flag name upper-cased and
// dashes replaced with underscores:
//
//   - Flag "log-level" becomes "XAMLSTYLE_LOG_LEVEL"
//   - Flag "otlp-endpoint" becomes "XAMLSTYLE_OTLP_ENDPOINT"
//
// Arguments take precedence over environment variables, which take precedence
// over default values. Flag usage is updated to name the variable.
func bindEnvVars(cmd *cobra.Command) {
	cmd.Flags().VisitAll(bindFlagToEnv)
	cmd.PersistentFlags().VisitAll(bindFlagToEnv)
}

func bindFlagToEnv(flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	// Skip if flag was already set via command line arguments.
	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	// Slice flags append on Set, so start from an empty value.
	if sv, isSlice := flag.Value.(pflag.SliceValue); isSlice {
		err := sv.Replace(splitList(envValue))
		if err != nil {
			logEnvError(flag, envName, envValue, err)
		}

		return
	}

	err := flag.Value.Set(envValue)
	if err != nil {
		// Log error but don't fail - use default value instead.
		logEnvError(flag, envName, envValue, err)
	}
}

func logEnvError(flag *pflag.Flag, envName, envValue string, err error) {
	slog.Error("failed to set flag from environment variable",
		slog.String("flag", flag.Name),
		slog.String("env", envName),
		slog.String("value", envValue),
		slog.Any("error", err),
	)
}

func splitList(s string) []string {
	var out []string
	for v := range strings.SplitSeq(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}

// flagToEnvName converts a flag name to its corresponding environment variable name.
// Example: "log-level" -> "XAMLSTYLE_LOG_LEVEL".
func flagToEnvName(flagName string) string {
	envName := strings.ReplaceAll(flagName, "-", "_")

	return strings.ToUpper(cmdName + "_" + envName)
}
