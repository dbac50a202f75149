package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/julianstephens/habitforge/internal/backup"
)

// Database snapshots only make sense for the sqlite store; the JSON and
// postgres providers report an error instead.
func backupManager(ctx *Context) (*backup.Manager, error) {
	path := ctx.Store.GetConfigPath()
	if !strings.HasSuffix(path, ".db") {
		return nil, fmt.Errorf("backups are only supported for sqlite storage (got %s)", path)
	}
	return backup.NewManager(path), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	manager, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path, err := manager.Create()
	if err != nil {
		return err
	}
	fmt.Printf("Created backup: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	manager, err := backupManager(ctx)
	if err != nil {
		return err
	}

	backups, err := manager.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCREATED\tSIZE")
	for _, b := range backups {
		fmt.Fprintf(w, "%s\t%s\t%.1f KB\n",
			filepath.Base(b.Path),
			b.Timestamp.Format("2006-01-02 15:04:05"),
			float64(b.Size)/1024)
	}
	return w.Flush()
}

type BackupRestoreCmd struct {
	Backup string `arg:"" help:"Backup file name or full path."`
	Force  bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	manager, err := backupManager(ctx)
	if err != nil {
		return err
	}

	backupPath := c.Backup
	if !filepath.IsAbs(backupPath) {
		if _, statErr := os.Stat(backupPath); statErr != nil {
			backupPath = filepath.Join(manager.BackupDir(), c.Backup)
		}
	}

	if !c.Force {
		fmt.Printf("Restore %s over the current database? A snapshot of the current state is kept. [y/N]: ", filepath.Base(backupPath))
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	// The store must not hold the database open during the swap
	if err := ctx.Store.Close(); err != nil {
		return err
	}

	if err := manager.Restore(backupPath); err != nil {
		return err
	}
	ctx.Tracker.ResetCache()

	fmt.Printf("Restored database from %s\n", filepath.Base(backupPath))
	return nil
}
