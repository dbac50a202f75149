package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/julianstephens/habitforge/internal/migration"
	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/storage/migrations"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seed default settings on first init
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitforge init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	runner := migration.NewRunner(s.db, migrations.FS)
	return runner.ValidateVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Cascade from habits to completions relies on enforcement being on.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) runMigrations() error {
	runner := migration.NewRunner(s.db, migrations.FS)
	_, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	return err
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	settings := Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "locale":
			settings.Locale = value
		case "theme":
			settings.Theme = value
		case "heatmap_view":
			settings.HeatmapView = value
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return Settings{}, err
	}

	if count == 0 {
		return Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("locale", settings.Locale); err != nil {
		return err
	}
	if _, err := stmt.Exec("theme", settings.Theme); err != nil {
		return err
	}
	if _, err := stmt.Exec("heatmap_view", settings.HeatmapView); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddHabit(habit models.Habit) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO habits (name, color, goal_type, goal_count, created_at, archived)
		VALUES (?, ?, ?, ?, ?, ?)`,
		habit.Name, habit.Color, string(habit.GoalType), habit.GoalCount,
		habit.CreatedAt.Format(time.RFC3339), boolToInt(habit.Archived),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert habit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get habit id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) GetHabit(id int64) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, color, goal_type, goal_count, created_at, archived
		FROM habits WHERE id = ?`, id)
	return scanHabit(row)
}

func (s *SQLiteStore) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, color, goal_type, goal_count, created_at, archived
		FROM habits WHERE name = ? COLLATE NOCASE`, name)
	return scanHabit(row)
}

func (s *SQLiteStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	query := `
		SELECT id, name, color, goal_type, goal_count, created_at, archived
		FROM habits`
	if !includeArchived {
		query += " WHERE archived = 0"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *SQLiteStore) UpdateHabit(habit models.Habit) error {
	res, err := s.db.Exec(`
		UPDATE habits SET name = ?, color = ?, goal_type = ?, goal_count = ?, archived = ?
		WHERE id = ?`,
		habit.Name, habit.Color, string(habit.GoalType), habit.GoalCount,
		boolToInt(habit.Archived), habit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireRow(res, habit.ID)
}

func (s *SQLiteStore) ArchiveHabit(id int64) error {
	return s.setArchived(id, true)
}

func (s *SQLiteStore) UnarchiveHabit(id int64) error {
	return s.setArchived(id, false)
}

func (s *SQLiteStore) setArchived(id int64, archived bool) error {
	res, err := s.db.Exec("UPDATE habits SET archived = ? WHERE id = ?", boolToInt(archived), id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (s *SQLiteStore) DeleteHabit(id int64) error {
	res, err := s.db.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (s *SQLiteStore) IncrementCompletion(habitID int64, day string, amount int) (models.Completion, error) {
	_, err := s.db.Exec(`
		INSERT INTO completions (habit_id, day, count, completed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO UPDATE SET
			count = count + excluded.count,
			completed_at = excluded.completed_at`,
		habitID, day, amount, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to increment completion: %w", err)
	}
	return s.GetCompletion(habitID, day)
}

func (s *SQLiteStore) DecrementCompletion(habitID int64, day string, amount int) (models.Completion, error) {
	res, err := s.db.Exec(`
		UPDATE completions SET
			count = MAX(0, count - ?),
			completed_at = ?
		WHERE habit_id = ? AND day = ?`,
		amount, time.Now().UTC().Format(time.RFC3339), habitID, day,
	)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to decrement completion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Completion{}, err
	}
	if affected == 0 {
		return models.Completion{}, fmt.Errorf("completion for habit %d on %s: %w", habitID, day, ErrNotFound)
	}
	return s.GetCompletion(habitID, day)
}

func (s *SQLiteStore) GetCompletion(habitID int64, day string) (models.Completion, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, day, count, completed_at
		FROM completions WHERE habit_id = ? AND day = ?`, habitID, day)
	return scanCompletion(row)
}

func (s *SQLiteStore) GetCompletionsForHabit(habitID int64, startDay, endDay string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, count, completed_at
		FROM completions
		WHERE habit_id = ? AND day >= ? AND day <= ?
		ORDER BY day`, habitID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCompletions(rows)
}

func (s *SQLiteStore) GetAllCompletions() ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, count, completed_at
		FROM completions ORDER BY habit_id, day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCompletions(rows)
}

// ReplaceAll swaps the entire dataset in one transaction. Used by import;
// either everything lands or nothing does.
func (s *SQLiteStore) ReplaceAll(habits []models.Habit, completions []models.Completion, settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM completions"); err != nil {
		return fmt.Errorf("failed to clear completions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}

	habitStmt, err := tx.Prepare(`
		INSERT INTO habits (id, name, color, goal_type, goal_count, created_at, archived)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer habitStmt.Close()
	for _, h := range habits {
		if _, err := habitStmt.Exec(h.ID, h.Name, h.Color, string(h.GoalType), h.GoalCount,
			h.CreatedAt.Format(time.RFC3339), boolToInt(h.Archived)); err != nil {
			return fmt.Errorf("failed to insert habit %q: %w", h.Name, err)
		}
	}

	compStmt, err := tx.Prepare(`
		INSERT INTO completions (habit_id, day, count, completed_at)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer compStmt.Close()
	for _, c := range completions {
		if _, err := compStmt.Exec(c.HabitID, c.Day, c.Count,
			c.CompletedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to insert completion for habit %d on %s: %w", c.HabitID, c.Day, err)
		}
	}

	settingsStmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer settingsStmt.Close()
	for key, value := range map[string]string{
		"locale":       settings.Locale,
		"theme":        settings.Theme,
		"heatmap_view": settings.HeatmapView,
	} {
		if _, err := settingsStmt.Exec(key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) DeleteAllData() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM completions"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// DB exposes the underlying handle for maintenance commands (backup,
// doctor). Nil until Init or Load has run.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var goalType, createdAt string
	var archived int

	err := row.Scan(&h.ID, &h.Name, &h.Color, &goalType, &h.GoalCount, &createdAt, &archived)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, fmt.Errorf("habit: %w", ErrNotFound)
		}
		return models.Habit{}, err
	}

	h.GoalType = models.GoalType(goalType)
	h.Archived = archived != 0
	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	return h, nil
}

func scanCompletion(row rowScanner) (models.Completion, error) {
	var c models.Completion
	var completedAt string

	err := row.Scan(&c.ID, &c.HabitID, &c.Day, &c.Count, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Completion{}, fmt.Errorf("completion: %w", ErrNotFound)
		}
		return models.Completion{}, err
	}

	c.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse completed_at %q: %w", completedAt, err)
	}
	return c, nil
}

func collectCompletions(rows *sql.Rows) ([]models.Completion, error) {
	var completions []models.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func requireRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("habit %s: %w", strconv.FormatInt(id, 10), ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
