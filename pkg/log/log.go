// Package log builds the [slog.Handler]s used by xamlstyle and carries
// loggers through contexts.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/trace"

	charmlog "github.com/charmbracelet/log"
)

type (
	Format string
	Level  string

	contextKey string
)

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"

	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"

	loggerContextKey contextKey = "logger"

	// traceIDLength is how much of a trace ID is logged.
	traceIDLength = 8
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")

	AllFormats = []string{
		string(FormatJSON),
		string(FormatLogfmt),
		string(FormatText),
	}
	AllLevels = []string{
		string(LevelError),
		string(LevelWarn),
		string(LevelInfo),
		string(LevelDebug),
	}
)

// Options configure the handlers created by [CreateHandler].
type Options struct {
	// Color forces colored text output on or off. When nil, the color
	// profile of the environment is used.
	Color *bool
	// Source adds the caller to each record.
	Source bool
}

// CreateHandlerWithStrings creates a [slog.Handler] by strings.
func CreateHandlerWithStrings(w io.Writer, logLevel, logFormat string, opts Options) (slog.Handler, error) {
	logLvl, err := GetLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	logFmt, err := GetFormat(logFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return CreateHandler(w, logLvl, logFmt, opts), nil
}

// CreateHandler creates a [slog.Handler]. It returns nil for an unknown
// format; use [GetFormat] to validate user input.
func CreateHandler(w io.Writer, logLvl slog.Level, logFmt Format, opts Options) slog.Handler {
	switch logFmt {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: opts.Source,
			Level:     logLvl,
		})

	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			AddSource: opts.Source,
			Level:     logLvl,
		})

	case FormatText:
		return newCharmLogHandler(w, logLvl, opts)
	}

	return nil
}

// GetLevel parses a level name. "warning" is accepted for [LevelWarn].
func GetLevel(level string) (slog.Level, error) {
	switch Level(strings.ToLower(level)) {
	case LevelError:
		return slog.LevelError, nil
	case LevelWarn, "warning":
		return slog.LevelWarn, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelDebug:
		return slog.LevelDebug, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

func GetFormat(format string) (Format, error) {
	logFmt := Format(strings.ToLower(format))
	if slices.Contains([]Format{FormatJSON, FormatLogfmt, FormatText}, logFmt) {
		return logFmt, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}

func newCharmLogHandler(w io.Writer, level slog.Level, opts Options) slog.Handler {
	//nolint:gosec // G115: input from GetLevel.
	lvl := int32(level)

	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(lvl),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: true,
		ReportCaller:    opts.Source,
		TimeFormat:      time.TimeOnly,
	})

	profile := termenv.ColorProfile()
	if opts.Color != nil {
		profile = termenv.Ascii
		if *opts.Color {
			profile = termenv.ANSI256
		}
	}

	logger.SetColorProfile(profile)

	return logger
}

// NewContext returns a copy of ctx carrying logger, which [WithContext] will
// return in place of the default logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// WithContext returns the logger carried by ctx, or the default logger. When
// ctx has a valid span, its trace ID is added to the logger.
func WithContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerContextKey).(*slog.Logger)
	if !ok {
		logger = slog.Default()
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		traceID := span.SpanContext().TraceID().String()
		if len(traceID) > traceIDLength {
			traceID = traceID[:traceIDLength]
		}

		return logger.With(slog.String("trace_id", traceID))
	}

	return logger
}
