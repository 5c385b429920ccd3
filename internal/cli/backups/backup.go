package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daypoints/internal/backup"
	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/constants"
)

var errNotSQLite = errors.New("backups are only available for the sqlite backend; use pg_dump for PostgreSQL")

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errNotSQLite
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backupPath, err := mgr.CreateBackup(ctx.Context())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("%s Backup created: %s\n", cli.SuccessStyle.Render("✓"), filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errNotSQLite
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		ctx.Printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Local().Format("2006-01-02 15:04:05"), filepath.Base(b.Path), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errNotSQLite
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())

	backupPath, err := resolveBackupPath(c.BackupFile, mgr.GetBackupDir())
	if err != nil {
		return err
	}

	if !c.Yes && !ctx.Yes {
		ctx.Println(cli.WarnStyle.Render("This replaces the current database with the backup."))
		ctx.Println(cli.WarnStyle.Render("Stop every other daypoints process (TUI, serve) first."))
		ctx.Println("A backup of the current database is taken before restoring.")
		ctx.Printf("\nRestore from: %s\n", backupPath)

		confirmed := false
		if err := huh.NewConfirm().Title("Continue?").Value(&confirmed).Run(); err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	// The store must let go of the file before it is replaced.
	if err := ctx.Store.Close(); err != nil {
		ctx.Printf("Warning: failed to close database connection: %v\n", err)
	}

	safety, err := mgr.RestoreBackup(ctx.Context(), backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Printf("%s Database restored from %s\n", cli.SuccessStyle.Render("✓"), filepath.Base(backupPath))
	if safety != "" {
		ctx.Printf("  previous database saved as %s\n", filepath.Base(safety))
	}
	return nil
}

// resolveBackupPath accepts an absolute path, a path relative to the
// working directory, or a file name inside the backup directory.
func resolveBackupPath(name, backupDir string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		abs, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return abs, nil
	}
	candidate := filepath.Join(backupDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", backupDir)
}
