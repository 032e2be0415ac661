package logger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	log  zerolog.Logger
	once sync.Once
)

// Init configures the global logger.
// env: "development" or "production"
func Init(env string) {
	// Claim the once so a later GetLogger keeps this configuration.
	once.Do(func() {})
	setup(env)
}

// GetLogger returns the global logger, configuring a development logger if Init was never called.
func GetLogger() *zerolog.Logger {
	once.Do(func() { setup("development") })
	return &log
}

func setup(env string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if env == "development" {
		// Human readable output
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log = zerolog.New(output).With().Timestamp().Caller().Logger()
	} else {
		// JSON for log shipping
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()
	}
}

// ============================================
// Convenience functions
// ============================================

// Args are alternating key/value pairs: logger.Info("item created", "item_id", id)

func Debug(msg string, args ...any) {
	GetLogger().Debug().CallerSkipFrame(1).Fields(args).Msg(msg)
}

func Info(msg string, args ...any) {
	GetLogger().Info().CallerSkipFrame(1).Fields(args).Msg(msg)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn().CallerSkipFrame(1).Fields(args).Msg(msg)
}

func Error(msg string, args ...any) {
	GetLogger().Error().CallerSkipFrame(1).Fields(args).Msg(msg)
}

// Fatal logs and exits the process.
func Fatal(msg string, args ...any) {
	GetLogger().Fatal().CallerSkipFrame(1).Fields(args).Msg(msg)
}

// ============================================
// Loggers with fields
// ============================================

// With returns a child logger: logger.With("user_id", id).Info().Msg("user logged in")
func With(args ...any) zerolog.Logger {
	return GetLogger().With().Fields(args).Logger()
}

func WithError(err error) zerolog.Logger {
	return GetLogger().With().Err(err).Logger()
}

// ============================================
// Specialized loggers
// ============================================

// WorkerLog records the outcome of a background job run.
func WorkerLog(worker, operation string, err error, args ...any) {
	fields := append([]any{"worker", worker, "operation", operation}, args...)
	if err != nil {
		GetLogger().Error().Err(err).Fields(fields).Msg("worker operation failed")
		return
	}
	GetLogger().Info().Fields(fields).Msg("worker operation completed")
}
