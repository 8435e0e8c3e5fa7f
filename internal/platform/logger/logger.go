package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info", "":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Logger es la cara que ven los servicios: campos como map, sin
// encadenar builders. Por debajo delega en zerolog.
type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type zl struct {
	log zerolog.Logger
}

type Options struct {
	Level  Level
	Format Format
	App    string
}

func New(opts Options) Logger {
	var out zerolog.Logger
	switch opts.Format {
	case FormatJSON:
		out = zerolog.New(os.Stdout)
	default:
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	out = out.Level(opts.Level.zerolog())

	ctx := out.With().Timestamp()
	if app := strings.TrimSpace(opts.App); app != "" {
		ctx = ctx.Str("app", app)
	}

	return &zl{log: ctx.Logger()}
}

// NewFromEnv crea logger desde env:
// - LOG_LEVEL=debug|info|warn|error (default info)
// - LOG_FORMAT=text|json (default text)
// - APP_NAME=care-tracker (opcional)
func NewFromEnv() Logger {
	return New(Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    os.Getenv("APP_NAME"),
	})
}

func (l *zl) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	return &zl{log: l.log.With().Fields(clean(fields)).Logger()}
}

func (l *zl) Debug(msg string, fields map[string]any) {
	l.log.Debug().Fields(clean(fields)).Msg(msg)
}

func (l *zl) Info(msg string, fields map[string]any) {
	l.log.Info().Fields(clean(fields)).Msg(msg)
}

func (l *zl) Warn(msg string, fields map[string]any) {
	l.log.Warn().Fields(clean(fields)).Msg(msg)
}

func (l *zl) Error(msg string, fields map[string]any) {
	l.log.Error().Fields(clean(fields)).Msg(msg)
}

func clean(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out[k] = v
	}
	return out
}
