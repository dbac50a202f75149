package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func createTestDB(t *testing.T, dir string) string {
	t.Helper()
	dbPath := filepath.Join(dir, "habitforge.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE habits (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO habits (name) VALUES ('Meditate')"); err != nil {
		t.Fatalf("failed to insert row: %v", err)
	}
	return dbPath
}

func TestCreateBackup(t *testing.T) {
	dbPath := createTestDB(t, t.TempDir())
	manager := NewManager(dbPath)

	backupPath, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	// Backup contains the data
	db, err := sql.Open("sqlite", backupPath)
	if err != nil {
		t.Fatalf("failed to open backup: %v", err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRow("SELECT name FROM habits").Scan(&name); err != nil {
		t.Fatalf("failed to query backup: %v", err)
	}
	if name != "Meditate" {
		t.Errorf("backup row = %q, want Meditate", name)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := manager.Create(); err == nil {
		t.Error("Create() with missing database succeeded, want error")
	}
}

func TestCreateBackupUniqueNames(t *testing.T) {
	dbPath := createTestDB(t, t.TempDir())
	manager := NewManager(dbPath)
	// Pin the clock so both backups land in the same second.
	manager.now = func() time.Time {
		return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	}

	first, err := manager.Create()
	if err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	second, err := manager.Create()
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if first == second {
		t.Errorf("two backups share the path %s", first)
	}
}

func TestListBackupsNewestFirst(t *testing.T) {
	dbPath := createTestDB(t, t.TempDir())
	manager := NewManager(dbPath)

	stamps := []time.Time{
		time.Date(2026, 8, 18, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 19, 9, 0, 0, 0, time.UTC),
	}
	for _, stamp := range stamps {
		manager.now = func() time.Time { return stamp }
		if _, err := manager.Create(); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("got %d backups, want 3", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first: %v after %v", backups[i].Timestamp, backups[i-1].Timestamp)
		}
	}
}

func TestListBackupsEmptyDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "habitforge.db"))
	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("got %d backups, want 0", len(backups))
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	dbPath := createTestDB(t, t.TempDir())
	manager := NewManager(dbPath)

	if _, err := manager.Create(); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(manager.BackupDir(), "notes.txt"), []byte("hi"), 0600); err != nil {
		t.Fatalf("failed to write foreign file: %v", err)
	}

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("got %d backups, want 1", len(backups))
	}
}

func TestRotationKeepsMaxBackups(t *testing.T) {
	dbPath := createTestDB(t, t.TempDir())
	manager := NewManager(dbPath)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxBackups+3; i++ {
		stamp := base.AddDate(0, 0, i)
		manager.now = func() time.Time { return stamp }
		if _, err := manager.Create(); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != MaxBackups {
		t.Errorf("got %d backups after rotation, want %d", len(backups), MaxBackups)
	}
	// The oldest three were rotated out
	oldest := backups[len(backups)-1].Timestamp
	if oldest.Before(base.AddDate(0, 0, 3)) {
		t.Errorf("oldest surviving backup = %v, want rotation to drop the first three", oldest)
	}
}

func TestRestoreBackup(t *testing.T) {
	dir := t.TempDir()
	dbPath := createTestDB(t, dir)
	manager := NewManager(dbPath)

	backupPath, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Mutate the live database after the snapshot
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("DELETE FROM habits"); err != nil {
		t.Fatalf("failed to delete rows: %v", err)
	}
	db.Close()

	if err := manager.Restore(backupPath); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	restored, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open restored database: %v", err)
	}
	defer restored.Close()

	var count int
	if err := restored.QueryRow("SELECT COUNT(*) FROM habits").Scan(&count); err != nil {
		t.Fatalf("failed to query restored database: %v", err)
	}
	if count != 1 {
		t.Errorf("restored row count = %d, want 1", count)
	}
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := createTestDB(t, dir)
	manager := NewManager(dbPath)

	bogus := filepath.Join(dir, "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to write bogus file: %v", err)
	}

	if err := manager.Restore(bogus); err == nil {
		t.Error("Restore() of invalid file succeeded, want error")
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "habitforge.db"))
	if err := manager.Restore("/nonexistent/backup.db"); err == nil {
		t.Error("Restore() of missing file succeeded, want error")
	}
}
