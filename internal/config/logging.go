package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// serviceName tags every log record so the JSON log file stays
// attributable when shipped off the host alongside other services.
const serviceName = "portfolio-assistant"

// SetupLogger creates a dual-output logger for the assistant: human-readable
// text on stderr for whoever runs the server, JSON to a file for later
// inspection of chat-pipeline behavior. Returns the logger and a cleanup
// function to close the file.
func SetupLogger(logFile string, level slog.Level) (*slog.Logger, func() error) {
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Fall back to stderr-only if file fails
		slog.Error("failed to open log file, using stderr only", "error", err, "file", logFile)
		return newServiceLogger(stderrHandler), func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: level,
	})

	logger := newServiceLogger(slogmulti.Fanout(stderrHandler, fileHandler))

	cleanup := func() error {
		return file.Close()
	}

	return logger, cleanup
}

// SetupLoggerWithWriters creates a logger with custom writers (for testing).
func SetupLoggerWithWriters(stderr, file io.Writer, level slog.Level) *slog.Logger {
	stderrHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return newServiceLogger(slogmulti.Fanout(stderrHandler, fileHandler))
}

// newServiceLogger wraps a handler with the service identity attribute.
func newServiceLogger(h slog.Handler) *slog.Logger {
	return slog.New(h).With("service", serviceName)
}
