package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/schemas"
)

var (
	exportFormat string
	exportInput  string
	exportOut    string
)

// newPDFRenderer builds the renderer used for PDF exports.
var newPDFRenderer = func(chromePath string) export.PDFRenderer {
	return export.NewChromeRenderer(chromePath)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the working CV as Markdown or PDF",
	Long: `Renders the working CV, or a CV JSON file given with --input, and writes it to disk.
The file is named "{fullName}_{date}.{ext}" unless --out names a file.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Export format: markdown or pdf")
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "CV JSON file to export instead of the working copy")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file or directory (default: current directory)")
	rootCmd.AddCommand(exportCmd)
}

// loadDocumentFile reads and checks a CV JSON file.
func loadDocumentFile(path string, now time.Time) (cv.Document, error) {
	if err := schemas.ValidateDocumentFile(path); err != nil {
		return cv.Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cv.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc cv.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return cv.Document{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cv.Normalize(doc, now), nil
}

// outputPath resolves --out: an existing directory (or empty) gets the generated filename.
func outputPath(out, filename string) string {
	if out == "" {
		return filename
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, filename)
	}
	return out
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	ctx := context.Background()
	now := time.Now()

	var doc cv.Document
	if exportInput != "" {
		doc, err = loadDocumentFile(exportInput, now)
		if err != nil {
			return err
		}
	} else {
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		doc = sess.Store().Snapshot()
		sess.Close(ctx)
	}

	var renderer export.PDFRenderer
	if format == export.FormatPDF {
		renderer = newPDFRenderer(cfg.ChromePath)
	}
	exporter := export.NewExporter(renderer, export.WithTimeout(cfg.ExportTimeout.Std()))

	job := export.NewJob()
	artifact, err := job.Run(ctx, func(ctx context.Context) (*export.Artifact, error) {
		return exporter.Export(ctx, doc, format, now)
	})
	if err != nil {
		if errors.Is(err, export.ErrTimeout) {
			return fmt.Errorf("export timed out after %s: %w", cfg.ExportTimeout.Std(), err)
		}
		return fmt.Errorf("export failed: %w", err)
	}

	path := outputPath(exportOut, artifact.Filename)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	_ = job.Dismiss()

	log.Debug().Str("format", string(format)).Int("bytes", len(artifact.Data)).Msg("export written")
	if cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintArtifact(artifact, path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}
