package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/habitforge/internal/export"
)

type ExportCmd struct {
	Output string `short:"o" help:"Archive path. Defaults to habitforge_backup_<timestamp>.zip in the current directory." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = export.DefaultFilename(time.Now())
	}

	meta, err := export.Write(ctx.Store, dest)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d habits and %d completion days to %s\n", meta.HabitCount, meta.DayCount, dest)
	fmt.Printf("Export id: %s\n", meta.ExportID)
	return nil
}

type ImportCmd struct {
	Archive string `arg:"" help:"Archive to import." type:"existingfile"`
	Force   bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if !c.Force {
		fmt.Printf("Importing %s REPLACES all current habits and completions. Continue? [y/N]: ", filepath.Base(c.Archive))
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	ds, err := export.Import(ctx.Store, c.Archive)
	if err != nil {
		return err
	}
	ctx.Tracker.ResetCache()

	fmt.Printf("Imported %d habits and %d completion days (export id %s, exported %s)\n",
		len(ds.Habits), len(ds.Completions), ds.Meta.ExportID,
		ds.Meta.ExportedAt.Format("2006-01-02 15:04"))
	return nil
}
