package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkglog"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/export"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/ingest"
)

type convertOptions struct {
	source      string
	to          string
	out         string
	dedupe      bool
	fillMissing bool
	columns     []string
	verbose     bool
}

func newConvertCommand() *cobra.Command {
	opts := convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a CSV, XLSX or PDF table to CSV or XLSX",
		Long: "Reads a .csv, .xlsx or .pdf file, optionally removes duplicate rows,\n" +
			"fills missing numbers with the column mean and keeps only some columns,\n" +
			"then writes the result as CSV or Excel. Use --out - to write to stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.source = args[0]

			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelInfo
			}
			pkglog.Init(pkglog.Options{Writer: cmd.ErrOrStderr(), Level: level})

			return runConvert(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.to, "to", "csv", "output format: csv or xlsx")
	flags.StringVarP(&opts.out, "out", "o", "", "output path (default: next to the input, - for stdout)")
	flags.BoolVar(&opts.dedupe, "dedupe", false, "remove duplicate rows")
	flags.BoolVar(&opts.fillMissing, "fill-missing", false, "fill missing numeric cells with the column mean")
	flags.StringSliceVar(&opts.columns, "columns", nil, "comma separated columns to keep, in order")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log each step")

	return cmd
}

func runConvert(ctx context.Context, opts convertOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format := entity.Format(strings.ToLower(strings.TrimSpace(opts.to)))
	if format != entity.FormatCSV && format != entity.FormatXLSX {
		return fmt.Errorf("--to must be csv or xlsx, got %q", opts.to)
	}

	content, err := os.ReadFile(opts.source)
	if err != nil {
		return err
	}

	tbl, err := ingest.New().Ingest(ctx, entity.NewUploadedFile(filepath.Base(opts.source), content))
	if err != nil {
		if f, ok := ingest.AsFailure(err); ok {
			return fmt.Errorf("%s: %s", f.Reason, f.Error())
		}
		return err
	}

	if opts.dedupe {
		removed := tbl.DropDuplicates()
		slog.InfoContext(ctx, "duplicates removed", "rows", removed)
	}
	if opts.fillMissing {
		filled := tbl.FillMissingWithMean()
		slog.InfoContext(ctx, "missing values filled", "cells", filled)
	}

	view := tbl
	if len(opts.columns) > 0 {
		view, err = tbl.Select(opts.columns)
		if err != nil {
			return err
		}
	}

	file, err := export.Render(view, format, opts.source)
	if err != nil {
		return err
	}

	if opts.out == "-" {
		_, err := stdout.Write(file.Data)
		return err
	}

	out := opts.out
	if out == "" {
		out = filepath.Join(filepath.Dir(opts.source), file.Name)
	}
	if filepath.Clean(out) == filepath.Clean(opts.source) {
		return fmt.Errorf("refusing to overwrite the input file %s", opts.source)
	}

	if err := os.WriteFile(out, file.Data, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %d rows x %d columns to %s\n", view.NumRows(), view.NumColumns(), out)
	return nil
}
