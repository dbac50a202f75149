package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitforge/internal/backup"
	"github.com/julianstephens/habitforge/internal/migration"
	"github.com/julianstephens/habitforge/internal/storage"
	"github.com/julianstephens/habitforge/internal/storage/migrations"
	"github.com/julianstephens/habitforge/internal/validation"
	ps "github.com/mitchellh/go-ps"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	if err := checkSchemaVersion(ctx); err != nil {
		fmt.Printf("❌ Schema version: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Schema version: OK\n")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	if dbReachable {
		if err := checkDataConsistency(ctx); err != nil {
			fmt.Printf("❌ Data validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (database not reachable)\n")
	}

	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	if err := checkConcurrentProcesses(); err != nil {
		fmt.Printf("⚠ Concurrent processes: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Concurrent processes: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.DB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		// Only the sqlite store carries a schema version
		return nil
	}

	db := sqliteStore.DB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	runner := migration.NewRunner(db, migrations.FS)
	return runner.ValidateVersion()
}

func checkBackupsPresent(ctx *Context) error {
	path := ctx.Store.GetConfigPath()
	if !strings.HasSuffix(path, ".db") {
		return nil
	}

	manager := backup.NewManager(path)
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, consider running 'habitforge backup create'")
	}

	newest := backups[0].Timestamp
	if time.Since(newest) > 14*24*time.Hour {
		return fmt.Errorf("newest backup is from %s, consider running 'habitforge backup create'", newest.Format("2006-01-02"))
	}
	return nil
}

func checkDataConsistency(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	completions, err := ctx.Store.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to load completions: %w", err)
	}

	result := validation.New().ValidateDataset(habits, completions)
	if result.HasConflicts() {
		return fmt.Errorf("stored data has conflicts:\n%s", result.FormatReport())
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system clock reports %v, which looks wrong", now)
	}
	if _, offset := now.Zone(); offset < -14*3600 || offset > 14*3600 {
		return fmt.Errorf("timezone offset %d seconds is out of range", offset)
	}
	return nil
}

// checkConcurrentProcesses warns when another habitforge process is
// running. The sqlite store takes no lock across commands, so two writers
// can race on the same database file.
func checkConcurrentProcesses() error {
	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	count := 0
	for _, p := range processes {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(p.Executable(), ".exe")
		if name == "habitforge" {
			count++
		}
	}

	if count > 0 {
		return fmt.Errorf("%d other habitforge process(es) running, concurrent writes may conflict", count)
	}
	return nil
}
