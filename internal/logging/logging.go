// Package logging builds the zerolog logger shared by the store and adapters.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0o644

// Builder collects output options before the logger is made
type Builder struct {
	writer  io.Writer
	path    string
	level   zerolog.Level
	console bool
}

// Logger is a built logger plus the file it may own
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New starts a builder writing info-level JSON to stderr
func New() *Builder {
	return &Builder{writer: os.Stderr, level: zerolog.InfoLevel}
}

// FromWriter sends log lines to w
func (b *Builder) FromWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

// FromPath appends log lines to the file at path
func (b *Builder) FromPath(path string) *Builder {
	b.path = path
	return b
}

// Level sets the minimum level; unknown names fall back to info
func (b *Builder) Level(name string) *Builder {
	b.level = ParseLevel(name)
	return b
}

// Console switches to human-readable output
func (b *Builder) Console(on bool) *Builder {
	b.console = on
	return b
}

// Make builds the logger
func (b *Builder) Make() (*Logger, error) {
	out := &Logger{}
	w := b.writer
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		out.file = f
		w = zerolog.SyncWriter(f)
	}
	if w == nil {
		w = io.Discard
	}
	if b.console {
		w = zerolog.ConsoleWriter{Out: w, NoColor: b.path != ""}
	}
	out.Logger = zerolog.New(w).Level(b.level).With().Timestamp().Logger()
	return out, nil
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps a level name to a zerolog level (info by default)
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop returns a logger that discards everything
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
