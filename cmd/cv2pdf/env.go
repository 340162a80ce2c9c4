package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/config"
)

// Converter is the subset of *cv2pdf.Converter the commands use.
type Converter interface {
	Extract(ctx context.Context, input cv2pdf.Input) (*cv2pdf.Record, error)
	Convert(ctx context.Context, input cv2pdf.Input) (*cv2pdf.ConvertResult, error)
	ConvertFile(ctx context.Context, input cv2pdf.Input, outputPath string) (*cv2pdf.ConvertResult, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*cv2pdf.Converter)(nil)

// ConverterFactory builds a Converter from library options.
type ConverterFactory func(opts ...cv2pdf.Option) (Converter, error)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, logging, and converter construction.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	Logger       zerolog.Logger
	NewConverter ConverterFactory
	Config       *config.Config // set once loaded, shared across the command
}

// DefaultEnv returns the production environment. Logging is off until
// --verbose enables it.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: zerolog.Nop(),
		NewConverter: func(opts ...cv2pdf.Option) (Converter, error) {
			return cv2pdf.NewConverter(opts...)
		},
		Config: config.DefaultConfig(),
	}
}

// newLogger returns a console logger on w when verbose, a no-op otherwise.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}
