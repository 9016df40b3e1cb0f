// Package logging builds the process logger: human-readable lines on the
// console and JSON lines appended to a log file.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New returns a logger writing to console and, when logPath is not empty, to
// logPath opened in append mode. The returned closer releases the log file.
// If the file cannot be opened the logger falls back to the console alone and
// logs a warning.
func New(console io.Writer, logPath, level string) (zerolog.Logger, io.Closer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(console),
	}

	if logPath == "" {
		return zerolog.New(consoleWriter).Level(lvl).With().Timestamp().Logger(), nopCloser{}
	}

	f, openErr := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openErr != nil {
		logger := zerolog.New(consoleWriter).Level(lvl).With().Timestamp().Logger()
		logger.Warn().Err(openErr).Str("path", logPath).Msg("Cannot open log file, logging to console only")
		return logger, nopCloser{}
	}

	multi := zerolog.MultiLevelWriter(consoleWriter, f)
	return zerolog.New(multi).Level(lvl).With().Timestamp().Logger(), f
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
