// Package runlog wires up run logging: a level-filtered console on
// stderr plus a plain-text file that keeps everything the run emitted,
// so a quiet console never loses the audit trail.
package runlog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options control both sinks.
type Options struct {
	// Quiet raises the console threshold to warnings.
	Quiet bool
	// Debug lowers the logger to debug level on both sinks.
	Debug   bool
	NoColor bool
	// FilePath of the run log file; empty disables the file sink.
	FilePath string
	// Console overrides the console sink, stderr when nil.
	Console io.Writer
}

// Run is a configured logging session. Close releases the file sink.
type Run struct {
	Logger   zerolog.Logger
	FilePath string
	file     *os.File
}

// DefaultFilePath names the run log after the wall-clock start.
func DefaultFilePath(now time.Time) string {
	return fmt.Sprintf("artsync-%s.log", now.Format("20060102-150405"))
}

// Setup builds the logger. Quiet only narrows the console; the file
// sink always records every message the logger emits.
func Setup(opts Options) (*Run, error) {
	consoleOut := opts.Console
	if consoleOut == nil {
		consoleOut = os.Stderr
	}
	consoleLevel := zerolog.InfoLevel
	switch {
	case opts.Debug:
		consoleLevel = zerolog.DebugLevel
	case opts.Quiet:
		consoleLevel = zerolog.WarnLevel
	}
	console := &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
			Out:        consoleOut,
			NoColor:    opts.NoColor,
			TimeFormat: time.RFC3339,
		}},
		Level: consoleLevel,
	}

	writers := []io.Writer{console}
	run := &Run{FilePath: opts.FilePath}
	if opts.FilePath != "" {
		file, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		run.file = file
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	run.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return run, nil
}

func (r *Run) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}
