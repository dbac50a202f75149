package cli

import (
	"fmt"
	"strings"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	fmt.Printf("locale:       %s\n", settings.Locale)
	fmt.Printf("theme:        %s\n", settings.Theme)
	fmt.Printf("heatmap_view: %s\n", settings.HeatmapView)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key (locale|theme|heatmap_view)."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	value := strings.TrimSpace(c.Value)
	switch strings.ToLower(c.Key) {
	case "locale":
		settings.Locale = value
	case "theme":
		if value != "dark" && value != "light" {
			return fmt.Errorf("theme must be dark or light")
		}
		settings.Theme = value
	case "heatmap_view":
		if value != "week" && value != "month" && value != "year" {
			return fmt.Errorf("heatmap_view must be week, month, or year")
		}
		settings.HeatmapView = value
	default:
		return fmt.Errorf("unknown setting %q", c.Key)
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", strings.ToLower(c.Key), value)
	return nil
}
