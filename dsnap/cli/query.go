package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/config"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/hierarchy"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/index"

	"github.com/spf13/cobra"
)

// NewQueryCommand creates and returns the query subcommand
func NewQueryCommand() *cobra.Command {
	var exts []string
	var minSize int64
	var maxSize int64
	var under string

	cmd := &cobra.Command{
		Use:   "query <path>",
		Short: "Query files in a directory tree by extension, size, or location",
		Long: `Scan a directory tree, index it, and print the files matching the
given filters.

Extension queries print files in tree order; size queries print them
smallest to largest. Filters combine, so a query can ask for all .log
files over 10 MiB under one subdirectory.

Examples:
  # All .go files
  dirsnap query . --ext .go

  # Files between 1 MiB and 100 MiB
  dirsnap query /data --min-size 1048576 --max-size 104857600

  # Markdown files under docs/
  dirsnap query . --ext .md --under project/docs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), args[0], exts, minSize, maxSize, under, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringSliceVar(&exts, "ext", nil, "Match files with these extensions (repeatable)")
	cmd.Flags().Int64Var(&minSize, "min-size", 0, "Minimum file size in bytes")
	cmd.Flags().Int64Var(&maxSize, "max-size", -1, "Maximum file size in bytes (-1 for no limit)")
	cmd.Flags().StringVar(&under, "under", "", "Only match files below this tree path")

	return cmd
}

// runQuery executes the query command
func runQuery(ctx context.Context, root string, exts []string, minSize, maxSize int64, under string, out io.Writer) error {
	cfg := config.AppConfig

	opts := hierarchy.DefaultOptions()
	opts.MaxDepth = cfg.Scan.MaxDepth
	opts.HashWorkers = cfg.Scan.HashWorkers
	opts.IgnoreFile = cfg.Scan.IgnoreFile

	builder := hierarchy.NewBuilder(opts, slog.Default())
	tree, err := builder.Build(ctx, root)
	if err != nil {
		return err
	}

	ix := index.Build(tree, slog.Default())

	limit := maxSize
	if limit < 0 {
		limit = math.MaxInt64
	}

	var records []index.FileRecord
	if len(exts) > 0 {
		records = ix.FilesWithExtension(exts...)
		if minSize > 0 || maxSize >= 0 {
			records = filterBySize(records, minSize, limit)
		}
	} else {
		records = ix.FilesInSizeRange(minSize, limit)
	}

	if under != "" {
		dirs := tree.PathIndex().PrefixLookup(under)
		if len(dirs) == 0 {
			fmt.Fprintf(out, "No directories match %q\n", under)
			return nil
		}
		keep := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			keep[dir] = struct{}{}
		}
		var filtered []index.FileRecord
		for _, rec := range records {
			if _, ok := keep[path.Dir(rec.Path)]; ok {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	if len(records) == 0 {
		fmt.Fprintf(out, "No files matched\n")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%10s  %s\n", formatBytes(rec.Size), rec.Path)
	}
	fmt.Fprintf(out, "\n%d files matched (index: %d files, %d extensions)\n",
		len(records), ix.Stats().Files, ix.Stats().Extensions)

	return nil
}

func filterBySize(records []index.FileRecord, min, max int64) []index.FileRecord {
	var filtered []index.FileRecord
	for _, rec := range records {
		if rec.Size >= min && rec.Size <= max {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
