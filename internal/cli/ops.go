package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tasklist/internal/ops"
)

func backupCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory as .tar.gz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if out == "" {
				ts := time.Now().UTC().Format("20060102T150405Z")
				out = filepath.Join("backups", "tasklist-"+ts+".tar.gz")
			}
			if err := ops.BackupDataDir(cfg.Storage.DataDir, out); err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output archive path (.tar.gz)")
	return cmd
}

func restoreCmd(opts *rootOptions) *cobra.Command {
	var archive, target string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Unpack a backup archive into a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive == "" {
				return fmt.Errorf("--archive is required")
			}
			if err := ops.RestoreDataDir(archive, target); err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "input backup archive (.tar.gz)")
	cmd.Flags().StringVar(&target, "target-dir", "data-restored", "restore target directory")
	return cmd
}

func drillCmd(opts *rootOptions) *cobra.Command {
	var workDir string
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Back up, restore and compare digests of the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			rep, err := ops.Drill(cfg.Storage.DataDir, workDir, time.Now())
			if err != nil {
				return fmt.Errorf("drill failed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "backup:", rep.Archive)
			fmt.Fprintln(out, "restored:", rep.RestoreDir)
			fmt.Fprintln(out, "digest:", rep.Digest)
			return nil
		},
	}
	cmd.Flags().StringVar(&workDir, "work-dir", os.TempDir(), "workspace for drill artifacts")
	return cmd
}
