package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/analysis"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/config"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/export"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/hierarchy"

	"github.com/spf13/cobra"
)

// scanParams carries the resolved scan settings after config and flag merging.
type scanParams struct {
	root       string
	extensions []string
	depth      int
	workers    int
	ignoreFile string
	format     string
	output     string
	summary    bool
	save       bool
}

// NewScanCommand creates and returns the scan subcommand
func NewScanCommand() *cobra.Command {
	var exts []string
	var depth int
	var workers int
	var ignoreFile string
	var format string
	var output string
	var withSummary bool
	var save bool

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Build a snapshot of a directory tree",
		Long: `Walk a directory tree and export a structured snapshot of it.

Every included file is recorded with its size, timestamps, permissions,
content type, and sha256 digest. Files with identical content inside the
same directory are flagged as duplicates.

Examples:
  # Snapshot the current directory to stdout as JSON
  dirsnap scan .

  # Only .go and .md files, three levels deep, as an HTML report
  dirsnap scan ~/src/project --ext .go --ext .md --depth 3 --format html --output report.html

  # Flat CSV inventory with aggregate statistics and a catalog entry
  dirsnap scan /data --format csv --output files.csv --summary --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			if !cmd.Flags().Changed("depth") {
				depth = cfg.Scan.MaxDepth
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Scan.HashWorkers
			}
			if !cmd.Flags().Changed("ignore-file") {
				ignoreFile = cfg.Scan.IgnoreFile
			}
			if !cmd.Flags().Changed("format") {
				format = cfg.Export.Format
			}
			if !cmd.Flags().Changed("output") {
				output = cfg.Export.Output
			}
			if len(exts) == 0 {
				exts = cfg.Scan.Extensions
			}
			return runScan(cmd.Context(), scanParams{
				root:       args[0],
				extensions: exts,
				depth:      depth,
				workers:    workers,
				ignoreFile: ignoreFile,
				format:     format,
				output:     output,
				summary:    withSummary,
				save:       save,
			}, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringSliceVar(&exts, "ext", nil, "Only include files with these extensions (repeatable)")
	cmd.Flags().IntVar(&depth, "depth", hierarchy.UnlimitedDepth, "Maximum recursion depth below the root (-1 for unlimited, 0 for root files only)")
	cmd.Flags().IntVar(&workers, "workers", 1, "Concurrent hash workers per directory")
	cmd.Flags().StringVar(&ignoreFile, "ignore-file", "", "Gitignore-style exclude file, relative to the scan root")
	cmd.Flags().StringVar(&format, "format", "json", "Export format (json|csv|html)")
	cmd.Flags().StringVar(&output, "output", "", "Output file path (stdout if not specified)")
	cmd.Flags().BoolVar(&withSummary, "summary", false, "Print aggregate statistics after the export")
	cmd.Flags().BoolVar(&save, "save", false, "Save the snapshot to the catalog")

	return cmd
}

// runScan executes the scan command
func runScan(ctx context.Context, p scanParams, out, errOut io.Writer) error {
	format, err := export.ParseFormat(p.format)
	if err != nil {
		return err
	}

	opts := hierarchy.DefaultOptions()
	opts.Extensions = p.extensions
	opts.MaxDepth = p.depth
	opts.HashWorkers = p.workers
	opts.IgnoreFile = p.ignoreFile

	builder := hierarchy.NewBuilder(opts, slog.Default())
	tree, err := builder.Build(ctx, p.root)
	if err != nil {
		return err
	}

	var summary *analysis.Summary
	if p.summary || format == export.FormatHTML {
		summary = analysis.Analyze(tree)
	}

	if p.output != "" {
		if err := export.ExportFile(tree, summary, format, p.output); err != nil {
			return err
		}
		fmt.Fprintf(out, "Snapshot written to %s\n", p.output)
	} else {
		if err := export.Export(tree, summary, format, out); err != nil {
			return err
		}
	}

	if p.summary {
		// Keep the summary out of the export stream when both go to stdout.
		summaryOut := out
		if p.output == "" {
			summaryOut = errOut
		}
		printSummary(summaryOut, tree, summary)
	}

	if p.save {
		provider, err := openCatalog()
		if err != nil {
			return err
		}
		defer provider.Close()

		id, err := provider.SaveSnapshot(tree)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Snapshot %s saved to catalog\n", id)
	}

	return nil
}
