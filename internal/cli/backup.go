package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups",
	Long:  "Create, list, delete and prune snapshots of the primary data file",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		result, err := services.BackupService.Create(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		fmt.Printf("Backup created: %s (%s)\n",
			result.Snapshot.Name,
			humanize.Bytes(uint64(result.Snapshot.SizeBytes)),
		)
		for _, warning := range result.Warnings {
			fmt.Printf("Warning: could not prune %s: %v\n", warning.Name, warning.Err)
		}

		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		snaps, err := services.BackupService.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}

		if len(snaps) == 0 {
			fmt.Println("No backups found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tCREATED AT")
		for _, snap := range snaps {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				snap.Name,
				humanize.Bytes(uint64(snap.SizeBytes)),
				snap.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		w.Flush()

		return nil
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		if err := services.BackupService.Delete(cmd.Context(), name); err != nil {
			return fmt.Errorf("failed to delete backup: %w", err)
		}

		fmt.Printf("Backup '%s' deleted\n", name)
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all backups older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		pruned, warnings, err := services.BackupService.Prune(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to prune backups: %w", err)
		}

		window := time.Duration(cfg.RetentionDays) * 24 * time.Hour
		fmt.Printf("Pruned %d backup(s) older than %s\n", pruned, window)
		for _, warning := range warnings {
			fmt.Printf("Warning: could not prune %s: %v\n", warning.Name, warning.Err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupDeleteCmd)
	backupCmd.AddCommand(backupPruneCmd)
}
