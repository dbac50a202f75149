// Package export reads and writes the portable archive format: a zip
// containing habits.csv, completions.csv, settings.csv, and a meta.json
// describing the export.
package export

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/julianstephens/habitforge/internal/logger"
	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/storage"
	"github.com/julianstephens/habitforge/internal/validation"
)

const (
	// FormatVersion is bumped when the archive layout changes
	FormatVersion = 1

	habitsFile      = "habits.csv"
	completionsFile = "completions.csv"
	settingsFile    = "settings.csv"
	metaFile        = "meta.json"
)

// Meta identifies an export archive
type Meta struct {
	ExportID      string    `json:"export_id"`
	FormatVersion int       `json:"format_version"`
	ExportedAt    time.Time `json:"exported_at"`
	HabitCount    int       `json:"habit_count"`
	DayCount      int       `json:"day_count"`
}

// Dataset is the full contents of an archive
type Dataset struct {
	Meta        Meta
	Habits      []models.Habit
	Completions []models.Completion
	Settings    storage.Settings
}

// DefaultFilename returns the conventional archive name for the given time.
func DefaultFilename(t time.Time) string {
	return fmt.Sprintf("habitforge_backup_%s.zip", t.Format("20060102_150405"))
}

// Write exports the store's full dataset to a zip archive at destPath.
func Write(store storage.Provider, destPath string) (Meta, error) {
	habits, err := store.GetAllHabits(true)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to load habits: %w", err)
	}
	completions, err := store.GetAllCompletions()
	if err != nil {
		return Meta{}, fmt.Errorf("failed to load completions: %w", err)
	}
	settings, err := store.GetSettings()
	if err != nil {
		return Meta{}, fmt.Errorf("failed to load settings: %w", err)
	}

	meta := Meta{
		ExportID:      uuid.NewString(),
		FormatVersion: FormatVersion,
		ExportedAt:    time.Now().UTC(),
		HabitCount:    len(habits),
		DayCount:      len(completions),
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0700); err != nil {
		return Meta{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	if err := writeMeta(zw, meta); err != nil {
		return Meta{}, err
	}
	if err := writeHabitsCSV(zw, habits); err != nil {
		return Meta{}, err
	}
	if err := writeCompletionsCSV(zw, completions); err != nil {
		return Meta{}, err
	}
	if err := writeSettingsCSV(zw, settings); err != nil {
		return Meta{}, err
	}

	if err := zw.Close(); err != nil {
		return Meta{}, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := f.Sync(); err != nil {
		return Meta{}, fmt.Errorf("failed to sync archive: %w", err)
	}

	logger.Info("exported data", "path", destPath, "habits", meta.HabitCount, "completions", meta.DayCount)
	return meta, nil
}

// Read parses an archive without touching storage.
func Read(srcPath string) (Dataset, error) {
	zr, err := zip.OpenReader(srcPath)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	var ds Dataset
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	for _, name := range []string{metaFile, habitsFile, completionsFile, settingsFile} {
		if files[name] == nil {
			return Dataset{}, fmt.Errorf("archive is missing %s", name)
		}
	}

	if err := readInto(files[metaFile], func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&ds.Meta)
	}); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse %s: %w", metaFile, err)
	}
	if ds.Meta.FormatVersion > FormatVersion {
		return Dataset{}, fmt.Errorf("archive format version %d is newer than supported version %d", ds.Meta.FormatVersion, FormatVersion)
	}

	if err := readInto(files[habitsFile], func(r io.Reader) error {
		habits, err := parseHabitsCSV(r)
		ds.Habits = habits
		return err
	}); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse %s: %w", habitsFile, err)
	}

	if err := readInto(files[completionsFile], func(r io.Reader) error {
		completions, err := parseCompletionsCSV(r)
		ds.Completions = completions
		return err
	}); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse %s: %w", completionsFile, err)
	}

	if err := readInto(files[settingsFile], func(r io.Reader) error {
		settings, err := parseSettingsCSV(r)
		ds.Settings = settings
		return err
	}); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse %s: %w", settingsFile, err)
	}

	return ds, nil
}

// Import validates an archive and replaces the store's dataset with it in
// one transaction. Callers must reset any derived caches afterward.
func Import(store storage.Provider, srcPath string) (Dataset, error) {
	ds, err := Read(srcPath)
	if err != nil {
		return Dataset{}, err
	}

	result := validation.New().ValidateDataset(ds.Habits, ds.Completions)
	if result.HasConflicts() {
		return Dataset{}, fmt.Errorf("archive failed validation:\n%s", result.FormatReport())
	}

	if err := store.ReplaceAll(ds.Habits, ds.Completions, ds.Settings); err != nil {
		return Dataset{}, fmt.Errorf("failed to import data: %w", err)
	}

	logger.Info("imported data", "path", srcPath, "export_id", ds.Meta.ExportID, "habits", len(ds.Habits))
	return ds, nil
}

func readInto(f *zip.File, fn func(io.Reader) error) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(r)
}

func writeMeta(zw *zip.Writer, meta Meta) error {
	w, err := zw.Create(metaFile)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeHabitsCSV(zw *zip.Writer, habits []models.Habit) error {
	w, err := zw.Create(habitsFile)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "color", "goal_type", "goal_count", "created_at", "archived"}); err != nil {
		return err
	}
	for _, h := range habits {
		record := []string{
			strconv.FormatInt(h.ID, 10),
			h.Name,
			h.Color,
			string(h.GoalType),
			strconv.Itoa(h.GoalCount),
			h.CreatedAt.Format(time.RFC3339),
			strconv.FormatBool(h.Archived),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeCompletionsCSV(zw *zip.Writer, completions []models.Completion) error {
	w, err := zw.Create(completionsFile)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"habit_id", "day", "count", "completed_at"}); err != nil {
		return err
	}
	for _, c := range completions {
		record := []string{
			strconv.FormatInt(c.HabitID, 10),
			c.Day,
			strconv.Itoa(c.Count),
			c.CompletedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSettingsCSV(zw *zip.Writer, settings storage.Settings) error {
	w, err := zw.Create(settingsFile)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"key", "value"}); err != nil {
		return err
	}
	for _, kv := range [][2]string{
		{"locale", settings.Locale},
		{"theme", settings.Theme},
		{"heatmap_view", settings.HeatmapView},
	} {
		if err := cw.Write(kv[:]); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseHabitsCSV(r io.Reader) ([]models.Habit, error) {
	records, err := readCSV(r, 7)
	if err != nil {
		return nil, err
	}

	var habits []models.Habit
	for _, rec := range records {
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid habit id %q: %w", rec[0], err)
		}
		goalCount, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("invalid goal count %q: %w", rec[4], err)
		}
		createdAt, err := time.Parse(time.RFC3339, rec[5])
		if err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", rec[5], err)
		}
		archived, err := strconv.ParseBool(rec[6])
		if err != nil {
			return nil, fmt.Errorf("invalid archived flag %q: %w", rec[6], err)
		}

		habits = append(habits, models.Habit{
			ID:        id,
			Name:      rec[1],
			Color:     rec[2],
			GoalType:  models.GoalType(rec[3]),
			GoalCount: goalCount,
			CreatedAt: createdAt,
			Archived:  archived,
		})
	}
	return habits, nil
}

func parseCompletionsCSV(r io.Reader) ([]models.Completion, error) {
	records, err := readCSV(r, 4)
	if err != nil {
		return nil, err
	}

	var completions []models.Completion
	for _, rec := range records {
		habitID, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid habit id %q: %w", rec[0], err)
		}
		count, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("invalid count %q: %w", rec[2], err)
		}
		completedAt, err := time.Parse(time.RFC3339, rec[3])
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at %q: %w", rec[3], err)
		}

		completions = append(completions, models.Completion{
			HabitID:     habitID,
			Day:         rec[1],
			Count:       count,
			CompletedAt: completedAt,
		})
	}
	return completions, nil
}

func parseSettingsCSV(r io.Reader) (storage.Settings, error) {
	records, err := readCSV(r, 2)
	if err != nil {
		return storage.Settings{}, err
	}

	settings := storage.DefaultSettings()
	for _, rec := range records {
		switch rec[0] {
		case "locale":
			settings.Locale = rec[1]
		case "theme":
			settings.Theme = rec[1]
		case "heatmap_view":
			settings.HeatmapView = rec[1]
		}
	}
	return settings, nil
}

// readCSV reads all records, skipping the header row and enforcing the
// expected field count.
func readCSV(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	return records[1:], nil
}
