package main

import (
	"context"
	"fmt"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/fileutil"
	"github.com/alnah/go-cv2pdf/internal/yamlutil"
)

// runExtract prints the Record found in the portfolio page as YAML.
// Progress goes to stderr so stdout holds only the document.
func runExtract(ctx context.Context, positionalArgs []string, flags *extractFlags, env *Environment) error {
	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	mergeSourceFlags(&flags.source, cfg)
	if err := setSource(positionalArgs, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	progress := newProgressPrinter(env.Stderr, flags.common.quiet, "")
	conv, err := env.NewConverter(cv2pdf.WithProgress(progress.report))
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	record, err := conv.Extract(ctx, extractionInput(cfg))
	if err != nil {
		return err
	}
	env.Logger.Debug().
		Int("projects", len(record.Projects)).
		Int("experience", len(record.Experience)).
		Int("education", len(record.Education)).
		Msg("record extracted")

	data, err := yamlutil.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	if flags.output == "" {
		_, err = env.Stdout.Write(data)
		return err
	}
	if err := fileutil.WriteFileAtomic(flags.output, data, filePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", flags.output, err)
	}
	return nil
}
