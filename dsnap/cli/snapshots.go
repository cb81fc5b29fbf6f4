package cli

import (
	"fmt"
	"io"

	internal "github.com/ZanzyTHEbar/dirsnap/dsnap"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/analysis"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/catalog"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/config"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/export"

	"github.com/ZanzyTHEbar/assert-lib"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSnapshotsCommand creates the 'dirsnap snapshots' parent command
func NewSnapshotsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage catalogued snapshots",
		Long: `Commands for inspecting and managing the local snapshot catalog.

Snapshots land in the catalog when a scan runs with --save. Each entry
keeps the full tree state, so earlier scans can be re-exported without
touching the original directory.`,
	}

	// Add subcommands
	cmd.AddCommand(newSnapshotsListCommand())
	cmd.AddCommand(newSnapshotsShowCommand())
	cmd.AddCommand(newSnapshotsPruneCommand())
	cmd.AddCommand(newSnapshotsBackupCommand())

	return cmd
}

// openCatalog opens the snapshot catalog at the configured path.
func openCatalog() (*catalog.CatalogProvider, error) {
	path := config.AppConfig.Catalog.Path
	if path == "" {
		path = internal.DefaultCatalogPath
	}
	return catalog.NewCatalogProvider(path, assert.NewAssertHandler())
}

// newSnapshotsListCommand creates the 'dirsnap snapshots list' command
func newSnapshotsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalogued snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotsList(cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
}

// runSnapshotsList executes the list command
func runSnapshotsList(out io.Writer) error {
	provider, err := openCatalog()
	if err != nil {
		return err
	}
	defer provider.Close()

	snapshots, err := provider.ListSnapshots()
	if err != nil {
		return err
	}

	if len(snapshots) == 0 {
		fmt.Fprintf(out, "No snapshots in catalog\n")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-20s  %-10s  %s\n", "ID", "TAKEN AT", "STATE", "ROOT")
	for _, snap := range snapshots {
		fmt.Fprintf(out, "%-36s  %-20s  %-10s  %s\n",
			snap.ID,
			snap.TakenAt.Format("2006-01-02 15:04:05"),
			formatBytes(int64(len(snap.TreeState))),
			snap.RootPath)
	}

	return nil
}

// newSnapshotsShowCommand creates the 'dirsnap snapshots show' command
func newSnapshotsShowCommand() *cobra.Command {
	var exportPath string
	var format string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalogued snapshot",
		Long: `Show a catalogued snapshot's provenance and totals.

With --export the stored tree is written back out through the regular
exporters, so an old snapshot can still produce a JSON, CSV, or HTML
report.

Examples:
  # Inspect a snapshot
  dirsnap snapshots show 6a1f...

  # Re-export a snapshot as HTML
  dirsnap snapshots show 6a1f... --export report.html --format html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotsShow(args[0], exportPath, format, asJSON, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "Re-export the stored tree to this file")
	cmd.Flags().StringVar(&format, "format", "json", "Re-export format (json|csv|html)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw snapshot record as JSON")

	return cmd
}

// runSnapshotsShow executes the show command
func runSnapshotsShow(idArg, exportPath, formatArg string, asJSON bool, out io.Writer) error {
	id, err := uuid.Parse(idArg)
	if err != nil {
		return fmt.Errorf("invalid snapshot ID %q: %w", idArg, err)
	}

	provider, err := openCatalog()
	if err != nil {
		return err
	}
	defer provider.Close()

	snapshot, err := provider.GetSnapshot(id)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := snapshot.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", data)
		return nil
	}

	tree, err := provider.RestoreSnapshot(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "ID:          %s\n", snapshot.ID)
	fmt.Fprintf(out, "Root path:   %s\n", snapshot.RootPath)
	fmt.Fprintf(out, "Taken at:    %s\n", snapshot.TakenAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Files:       %d\n", tree.FileCount())
	fmt.Fprintf(out, "Directories: %d\n", tree.DirCount())
	fmt.Fprintf(out, "Total size:  %s\n", formatBytes(tree.Root.TotalSizeBytes))

	if exportPath != "" {
		format, err := export.ParseFormat(formatArg)
		if err != nil {
			return err
		}
		var summary *analysis.Summary
		if format == export.FormatHTML {
			summary = analysis.Analyze(tree)
		}
		if err := export.ExportFile(tree, summary, format, exportPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSnapshot re-exported to %s\n", exportPath)
	}

	return nil
}

// newSnapshotsPruneCommand creates the 'dirsnap snapshots prune' command
func newSnapshotsPruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune <id>",
		Short: "Delete a snapshot from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotsPrune(args[0], cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
}

// runSnapshotsPrune executes the prune command
func runSnapshotsPrune(idArg string, out io.Writer) error {
	id, err := uuid.Parse(idArg)
	if err != nil {
		return fmt.Errorf("invalid snapshot ID %q: %w", idArg, err)
	}

	provider, err := openCatalog()
	if err != nil {
		return err
	}
	defer provider.Close()

	deleted, err := provider.DeleteSnapshot(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%s: %w", id, catalog.ErrSnapshotNotFound)
	}

	fmt.Fprintf(out, "Snapshot %s deleted\n", id)
	return nil
}

// newSnapshotsBackupCommand creates the 'dirsnap snapshots backup' command
func newSnapshotsBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [dir]",
		Short: "Back up the snapshot catalog",
		Long: `Copy the catalog database into a timestamped backup file.

Backups land in a backups directory beside the catalog unless a target
directory is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runSnapshotsBackup(dir, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
}

// runSnapshotsBackup executes the backup command
func runSnapshotsBackup(dir string, out io.Writer) error {
	provider, err := openCatalog()
	if err != nil {
		return err
	}
	defer provider.Close()

	backupPath, err := provider.Backup(dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Catalog backed up to %s\n", backupPath)
	return nil
}
