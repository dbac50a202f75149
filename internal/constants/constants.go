package constants

const (
	// DateFormat is the standard calendar-date format used throughout the
	// application (YYYY-MM-DD). Completion days are stored in this format.
	DateFormat = "2006-01-02"

	// Habit name length limits
	MinHabitNameLength = 1
	MaxHabitNameLength = 50

	// Goal count limits per period
	MinGoalCount = 1
	MaxGoalCount = 100

	// DefaultGoalCount is used when no goal count is supplied for a new habit
	DefaultGoalCount = 1
)

const (
	// Streak iteration caps, roughly ten years per goal type. The backward
	// period walk never exceeds these regardless of stored data.
	MaxDailyStreakPeriods   = 3650
	MaxWeeklyStreakPeriods  = 520
	MaxMonthlyStreakPeriods = 120
)

const (
	// General settings keys
	SettingLocale      = "locale"
	SettingTheme       = "theme"
	SettingHeatmapView = "heatmap_view"

	// Default settings values
	DefaultLocale      = "en"
	DefaultTheme       = "dark"
	DefaultHeatmapView = "month"
)

// HabitColors is the predefined palette users pick from when creating habits.
var HabitColors = []string{
	"#E57373", // red
	"#FFB74D", // orange
	"#FFF176", // yellow
	"#81C784", // green
	"#4DB6AC", // teal
	"#64B5F6", // blue
	"#BA68C8", // purple
	"#F06292", // pink
}

// DefaultHabitColor is assigned when no color is supplied for a new habit.
var DefaultHabitColor = HabitColors[0]
