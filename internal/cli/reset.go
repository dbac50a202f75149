package cli

import (
	"fmt"
	"strings"
)

type ResetCmd struct {
	Force bool `short:"f" help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if !c.Force {
		fmt.Print("Delete ALL habits and completion history? Settings are kept. Type 'delete' to confirm: ")
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "delete") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.Store.DeleteAllData(); err != nil {
		return err
	}
	ctx.Tracker.ResetCache()

	fmt.Println("All habit data deleted.")
	return nil
}
