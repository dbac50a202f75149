package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitforge/internal/constants"
	"github.com/julianstephens/habitforge/internal/models"
	"github.com/julianstephens/habitforge/internal/storage"
	"github.com/julianstephens/habitforge/internal/tracker"
	"github.com/julianstephens/habitforge/internal/tui/components/habitlist"
	"github.com/julianstephens/habitforge/internal/validation"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateHeatmap
	StateAddHabit
	StateConfirmArchive
)

// tabCount covers the cycling tabs; modal states sit outside the cycle.
const tabCount = 2

type HabitFormModel struct {
	Name  string
	Goal  string
	Count string
	Color string
}

type Model struct {
	store          storage.Provider
	tracker        *tracker.Tracker
	state          SessionState
	keys           KeyMap
	help           help.Model
	habitList      habitlist.Model
	form           *huh.Form
	habitForm      *HabitFormModel
	heatmapHabit   models.Habit
	habitToArchive models.Habit
	statusMessage  string
	quitting       bool
	width          int
	height         int
}

func NewModel(store storage.Provider, tr *tracker.Tracker) Model {
	m := Model{
		store:     store,
		tracker:   tr,
		state:     StateDashboard,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habitList: habitlist.New(nil, 0, 0),
	}
	m.reloadHabits()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reloadHabits refreshes the dashboard entries from storage.
func (m *Model) reloadHabits() {
	habits, err := m.store.GetAllHabits(false)
	if err != nil {
		m.statusMessage = fmt.Sprintf("failed to load habits: %v", err)
		return
	}

	today := m.tracker.Today()
	entries := make([]habitlist.Entry, 0, len(habits))
	for _, h := range habits {
		progress, err := m.tracker.Progress(h, today)
		if err != nil {
			m.statusMessage = fmt.Sprintf("failed to compute progress: %v", err)
			continue
		}
		entries = append(entries, habitlist.Entry{
			Habit:    h,
			Progress: progress,
			Streak:   m.tracker.Streak(h),
		})
	}
	m.habitList.SetEntries(entries)
}

// newHabitForm builds the huh form used by the add-habit modal.
func (m *Model) newHabitForm() {
	m.habitForm = &HabitFormModel{
		Goal:  string(models.GoalDaily),
		Count: "1",
		Color: constants.DefaultHabitColor,
	}

	goalOptions := make([]huh.Option[string], 0, 3)
	for _, g := range models.GoalTypes() {
		goalOptions = append(goalOptions, huh.NewOption(string(g), string(g)))
	}

	colorOptions := make([]huh.Option[string], 0, len(constants.HabitColors))
	for _, c := range constants.HabitColors {
		colorOptions = append(colorOptions, huh.NewOption(c, c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.habitForm.Name),
			huh.NewSelect[string]().
				Title("Goal period").
				Options(goalOptions...).
				Value(&m.habitForm.Goal),
			huh.NewInput().
				Title("Completions per period").
				Value(&m.habitForm.Count),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions...).
				Value(&m.habitForm.Color),
		),
	)
}

// submitHabitForm validates and stores the habit from the completed form.
func (m *Model) submitHabitForm() error {
	count, err := strconv.Atoi(strings.TrimSpace(m.habitForm.Count))
	if err != nil {
		return fmt.Errorf("completions per period must be a number")
	}

	habit := models.Habit{
		Name:      strings.TrimSpace(m.habitForm.Name),
		Color:     m.habitForm.Color,
		GoalType:  models.GoalType(m.habitForm.Goal),
		GoalCount: count,
		CreatedAt: m.tracker.Today(),
	}

	result := validation.New().ValidateHabit(habit)
	if result.HasConflicts() {
		return fmt.Errorf("%s", strings.TrimSpace(result.FormatReport()))
	}

	if _, err := m.store.GetHabitByName(habit.Name); err == nil {
		return fmt.Errorf("a habit named %q already exists", habit.Name)
	}

	if _, err := m.store.AddHabit(habit); err != nil {
		return err
	}
	return nil
}
