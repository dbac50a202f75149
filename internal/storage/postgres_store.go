package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitforge/internal/models"
	_ "github.com/lib/pq"
)

// PostgresStore backs the tracker with a shared PostgreSQL database, for
// people who sync one habit log across machines. Schema is managed inline
// rather than through the sqlite migration runner, which speaks "?"
// placeholders that lib/pq rejects.
type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{
		connStr: connStr,
	}
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	if err := s.ensureSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}
	return s.open()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS habits (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '#E57373',
			goal_type TEXT NOT NULL CHECK (goal_type IN ('daily', 'weekly', 'monthly')),
			goal_count INTEGER NOT NULL DEFAULT 1 CHECK (goal_count BETWEEN 1 AND 100),
			created_at TIMESTAMPTZ NOT NULL,
			archived BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_habits_name ON habits (LOWER(name))`,
		`CREATE TABLE IF NOT EXISTS completions (
			id BIGSERIAL PRIMARY KEY,
			habit_id BIGINT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			day TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
			completed_at TIMESTAMPTZ NOT NULL,
			UNIQUE (habit_id, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_habit_day ON completions (habit_id, day)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) GetSettings() (Settings, error) {
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

func (s *PostgresStore) SaveSettings(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)
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

func (s *PostgresStore) AddHabit(habit models.Habit) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO habits (name, color, goal_type, goal_count, created_at, archived)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		habit.Name, habit.Color, string(habit.GoalType), habit.GoalCount,
		habit.CreatedAt, habit.Archived,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert habit: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetHabit(id int64) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, color, goal_type, goal_count, created_at, archived
		FROM habits WHERE id = $1`, id)
	return scanPgHabit(row)
}

func (s *PostgresStore) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, color, goal_type, goal_count, created_at, archived
		FROM habits WHERE LOWER(name) = LOWER($1)`, name)
	return scanPgHabit(row)
}

func (s *PostgresStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	query := `
		SELECT id, name, color, goal_type, goal_count, created_at, archived
		FROM habits`
	if !includeArchived {
		query += " WHERE archived = FALSE"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanPgHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *PostgresStore) UpdateHabit(habit models.Habit) error {
	res, err := s.db.Exec(`
		UPDATE habits SET name = $1, color = $2, goal_type = $3, goal_count = $4, archived = $5
		WHERE id = $6`,
		habit.Name, habit.Color, string(habit.GoalType), habit.GoalCount,
		habit.Archived, habit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireRow(res, habit.ID)
}

func (s *PostgresStore) ArchiveHabit(id int64) error {
	return s.setArchived(id, true)
}

func (s *PostgresStore) UnarchiveHabit(id int64) error {
	return s.setArchived(id, false)
}

func (s *PostgresStore) setArchived(id int64, archived bool) error {
	res, err := s.db.Exec("UPDATE habits SET archived = $1 WHERE id = $2", archived, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (s *PostgresStore) DeleteHabit(id int64) error {
	res, err := s.db.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (s *PostgresStore) IncrementCompletion(habitID int64, day string, amount int) (models.Completion, error) {
	_, err := s.db.Exec(`
		INSERT INTO completions (habit_id, day, count, completed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (habit_id, day) DO UPDATE SET
			count = completions.count + EXCLUDED.count,
			completed_at = EXCLUDED.completed_at`,
		habitID, day, amount, time.Now().UTC(),
	)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to increment completion: %w", err)
	}
	return s.GetCompletion(habitID, day)
}

func (s *PostgresStore) DecrementCompletion(habitID int64, day string, amount int) (models.Completion, error) {
	res, err := s.db.Exec(`
		UPDATE completions SET
			count = GREATEST(0, count - $1),
			completed_at = $2
		WHERE habit_id = $3 AND day = $4`,
		amount, time.Now().UTC(), habitID, day,
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

func (s *PostgresStore) GetCompletion(habitID int64, day string) (models.Completion, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, day, count, completed_at
		FROM completions WHERE habit_id = $1 AND day = $2`, habitID, day)
	return scanPgCompletion(row)
}

func (s *PostgresStore) GetCompletionsForHabit(habitID int64, startDay, endDay string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, count, completed_at
		FROM completions
		WHERE habit_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day`, habitID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPgCompletions(rows)
}

func (s *PostgresStore) GetAllCompletions() ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, count, completed_at
		FROM completions ORDER BY habit_id, day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPgCompletions(rows)
}

func (s *PostgresStore) ReplaceAll(habits []models.Habit, completions []models.Completion, settings Settings) error {
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
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return err
	}
	defer habitStmt.Close()
	for _, h := range habits {
		if _, err := habitStmt.Exec(h.ID, h.Name, h.Color, string(h.GoalType), h.GoalCount,
			h.CreatedAt, h.Archived); err != nil {
			return fmt.Errorf("failed to insert habit %q: %w", h.Name, err)
		}
	}

	compStmt, err := tx.Prepare(`
		INSERT INTO completions (habit_id, day, count, completed_at)
		VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return err
	}
	defer compStmt.Close()
	for _, c := range completions {
		if _, err := compStmt.Exec(c.HabitID, c.Day, c.Count, c.CompletedAt); err != nil {
			return fmt.Errorf("failed to insert completion for habit %d on %s: %w", c.HabitID, c.Day, err)
		}
	}

	// Keep the id sequence ahead of imported rows
	if _, err := tx.Exec(`SELECT setval('habits_id_seq', COALESCE((SELECT MAX(id) FROM habits), 1))`); err != nil {
		return fmt.Errorf("failed to reset habit id sequence: %w", err)
	}

	settingsStmt, err := tx.Prepare(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)
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

func (s *PostgresStore) DeleteAllData() error {
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

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}

func scanPgHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var goalType string

	err := row.Scan(&h.ID, &h.Name, &h.Color, &goalType, &h.GoalCount, &h.CreatedAt, &h.Archived)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, fmt.Errorf("habit: %w", ErrNotFound)
		}
		return models.Habit{}, err
	}

	h.GoalType = models.GoalType(goalType)
	return h, nil
}

func scanPgCompletion(row rowScanner) (models.Completion, error) {
	var c models.Completion

	err := row.Scan(&c.ID, &c.HabitID, &c.Day, &c.Count, &c.CompletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Completion{}, fmt.Errorf("completion: %w", ErrNotFound)
		}
		return models.Completion{}, err
	}
	return c, nil
}

func collectPgCompletions(rows *sql.Rows) ([]models.Completion, error) {
	var completions []models.Completion
	for rows.Next() {
		c, err := scanPgCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
