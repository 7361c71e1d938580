package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/ritualapp/ritual/internal/backup"
)

type ExportCmd struct {
	Path string `arg:"" help:"Destination file." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := backup.Export(ctx.Store, c.Path); err != nil {
		return err
	}
	snap := ctx.Store.Snapshot()
	fmt.Printf("Exported %d habits and %d logs to %s\n", len(snap.Habits), len(snap.Logs), c.Path)
	return nil
}

type ImportCmd struct {
	Path string `arg:"" help:"Backup file to import." type:"path"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	res, err := backup.Import(ctx.Store, c.Path)
	if err != nil {
		return err
	}
	fmt.Printf("Habits: %d imported, %d skipped\n", res.Habits.Imported, res.Habits.Skipped)
	fmt.Printf("Logs:   %d imported, %d skipped\n", res.Logs.Imported, res.Logs.Skipped)
	if err := ctx.Store.Flush(); err != nil {
		return err
	}
	return nil
}

type WipeCmd struct {
	Force bool `short:"f" help:"Skip confirmation."`
}

func (c *WipeCmd) Run(ctx *Context) error {
	if !c.Force {
		var confirmed bool
		prompt := huh.NewConfirm().
			Title("Delete every habit, log, and the persisted snapshot?").
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.Store.WipeAll(); err != nil {
		return err
	}
	fmt.Println("All data wiped.")
	return nil
}
