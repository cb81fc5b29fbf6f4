package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/analysis"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/config"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/hierarchy"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewSummaryCommand creates and returns the summary subcommand
func NewSummaryCommand() *cobra.Command {
	var exts []string
	var depth int
	var workers int
	var ignoreFile string

	cmd := &cobra.Command{
		Use:   "summary <path>",
		Short: "Print aggregate statistics for a directory tree",
		Long: `Scan a directory tree and print its aggregate statistics:
  - File and directory totals
  - Disk usage by extension, most and least used extensions
  - Largest files and folders
  - Empty directories and zero-byte files
  - File size distribution (mean, median, p90)
  - Duplicate file groups`,
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
			if len(exts) == 0 {
				exts = cfg.Scan.Extensions
			}
			return runSummary(cmd.Context(), args[0], exts, depth, workers, ignoreFile, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringSliceVar(&exts, "ext", nil, "Only include files with these extensions (repeatable)")
	cmd.Flags().IntVar(&depth, "depth", hierarchy.UnlimitedDepth, "Maximum recursion depth below the root (-1 for unlimited, 0 for root files only)")
	cmd.Flags().IntVar(&workers, "workers", 1, "Concurrent hash workers per directory")
	cmd.Flags().StringVar(&ignoreFile, "ignore-file", "", "Gitignore-style exclude file, relative to the scan root")

	return cmd
}

// runSummary executes the summary command
func runSummary(ctx context.Context, root string, exts []string, depth, workers int, ignoreFile string, out io.Writer) error {
	// Detect if we're in a terminal (for color output)
	if f, ok := out.(*os.File); ok && !isatty.IsTerminal(f.Fd()) {
		color.NoColor = true
	}

	opts := hierarchy.DefaultOptions()
	opts.Extensions = exts
	opts.MaxDepth = depth
	opts.HashWorkers = workers
	opts.IgnoreFile = ignoreFile

	builder := hierarchy.NewBuilder(opts, slog.Default())
	tree, err := builder.Build(ctx, root)
	if err != nil {
		return err
	}

	printSummary(out, tree, analysis.Analyze(tree))
	return nil
}

// printSummary formats and prints the aggregate statistics
func printSummary(w io.Writer, tree *trees.DirectoryTree, s *analysis.Summary) {
	// Colors
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	// Header
	cyan.Fprintf(w, "\n=== Snapshot Summary for %s ===\n\n", tree.RootPath)

	// Totals
	cyan.Fprintf(w, "Totals:\n")
	fmt.Fprintf(w, "  Files: %d\n", s.TotalFiles)
	fmt.Fprintf(w, "  Directories: %d\n", s.TotalDirectories)
	fmt.Fprintf(w, "  Size: %s\n", formatBytes(tree.Root.TotalSizeBytes))
	fmt.Fprintf(w, "  Empty directories: %d\n", len(s.EmptyDirectories))
	fmt.Fprintf(w, "  Zero-byte files: %d\n", len(s.ZeroByteFiles))

	if s.TotalFiles > 0 {
		fmt.Fprintf(w, "\n")
		cyan.Fprintf(w, "File Sizes:\n")
		fmt.Fprintf(w, "  Mean: %s\n", formatBytes(int64(s.SizeStats.MeanBytes)))
		fmt.Fprintf(w, "  Median: %s\n", formatBytes(int64(s.SizeStats.MedianBytes)))
		fmt.Fprintf(w, "  P90: %s\n", formatBytes(int64(s.SizeStats.P90Bytes)))
	}

	if len(s.MostUsedExtensions) > 0 {
		fmt.Fprintf(w, "\n")
		cyan.Fprintf(w, "Most Used Extensions:\n")
		for _, u := range s.MostUsedExtensions {
			fmt.Fprintf(w, "  %-12s %s\n", displayExt(u.Extension), formatBytes(u.SizeBytes))
		}
	}

	if len(s.LeastUsedExtensions) > 0 {
		fmt.Fprintf(w, "\n")
		cyan.Fprintf(w, "Least Used Extensions:\n")
		for _, u := range s.LeastUsedExtensions {
			fmt.Fprintf(w, "  %-12s %s\n", displayExt(u.Extension), formatBytes(u.SizeBytes))
		}
	}

	if len(s.LargestFiles) > 0 {
		fmt.Fprintf(w, "\n")
		cyan.Fprintf(w, "Largest Files:\n")
		for _, ps := range s.LargestFiles {
			fmt.Fprintf(w, "  %s  %s\n", formatBytes(ps.SizeBytes), ps.Path)
		}
	}

	if len(s.LargestFolders) > 0 {
		fmt.Fprintf(w, "\n")
		cyan.Fprintf(w, "Largest Folders:\n")
		for _, ps := range s.LargestFolders {
			fmt.Fprintf(w, "  %s  %s\n", formatBytes(ps.SizeBytes), ps.Path)
		}
	}

	if len(s.DuplicateGroups) > 0 {
		fmt.Fprintf(w, "\n")
		cyan.Fprintf(w, "Duplicate Groups:\n")
		for _, g := range s.DuplicateGroups {
			yellow.Fprintf(w, "  %d copies of %s (%s wasted)\n", g.Count, shortHash(g.ContentHash), formatBytes(g.WastedBytes))
			for _, f := range g.Files {
				fmt.Fprintf(w, "    %s\n", f)
			}
		}
	} else if s.TotalFiles > 0 {
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "No duplicate files found\n")
	}

	if s.TotalFiles == 0 {
		fmt.Fprintf(w, "\n")
		red.Fprintf(w, "No files matched the scan filters\n")
	}
}

// displayExt renders the empty extension key readably.
func displayExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return ext
}

// shortHash abbreviates a content hash for terminal output.
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
