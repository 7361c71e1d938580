package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/ritualapp/ritual/internal/habits"
	"github.com/ritualapp/ritual/internal/models"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit an existing habit."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and all its logs."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Type        string `help:"Habit type (health|mind|custom)." default:"custom"`
	Freq        string `help:"Frequency (daily|weekly|custom)." default:"daily"`
	Target      int    `help:"Target completions per week (weekly/custom only)." default:"0"`
	Remind      string `help:"Daily reminder time (HH:mm)."`
	Interactive bool   `short:"i" help:"Fill in the habit with a form."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	in := models.HabitInput{
		Name:          c.Name,
		Type:          models.HabitType(c.Type),
		Freq:          models.Frequency(c.Freq),
		TargetPerWeek: c.Target,
		RemindAt:      c.Remind,
	}

	if c.Interactive {
		if err := habitForm(&in); err != nil {
			return err
		}
	} else if c.Name == "" {
		return fmt.Errorf("habit name required (or use --interactive)")
	}

	if _, err := ctx.Store.HabitByName(in.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", in.Name)
	}

	habit, err := ctx.Store.AddHabit(in)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s, %s)\n", habit.Name, habit.Type, habit.Freq)
	if habit.RemindAt != "" {
		fmt.Printf("Daily reminder at %s\n", habit.RemindAt)
	}
	return nil
}

func habitForm(in *models.HabitInput) error {
	target := strconv.Itoa(in.TargetPerWeek)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&in.Name),
			huh.NewSelect[models.HabitType]().
				Title("Type").
				Options(
					huh.NewOption("Health", models.HabitTypeHealth),
					huh.NewOption("Mind", models.HabitTypeMind),
					huh.NewOption("Custom", models.HabitTypeCustom),
				).
				Value(&in.Type),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FreqDaily),
					huh.NewOption("Weekly", models.FreqWeekly),
					huh.NewOption("Custom", models.FreqCustom),
				).
				Value(&in.Freq),
			huh.NewInput().
				Title("Target per week (0 for none)").
				Value(&target),
			huh.NewInput().
				Title("Reminder time (HH:mm, empty for none)").
				Value(&in.RemindAt),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	n, err := strconv.Atoi(target)
	if err != nil || n < 0 {
		n = 0
	}
	in.TargetPerWeek = n
	return nil
}

type HabitListCmd struct {
	All bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	all := ctx.Store.Habits()
	if len(all) == 0 {
		fmt.Println("No habits yet. Add one with 'ritual habit add'.")
		return nil
	}

	for _, h := range all {
		if h.Archived && !c.All {
			continue
		}
		line := fmt.Sprintf("%-24s %-7s %-7s", h.Name, h.Type, h.Freq)
		if h.RemindAt != "" {
			line += "  remind " + h.RemindAt
		}
		if h.Archived {
			line += "  (archived)"
		}
		st := ctx.Store.Streak(h.ID)
		if st.Current > 0 {
			line += "  " + streakStyle.Render(fmt.Sprintf("%dd streak", st.Current))
		}
		fmt.Println(line)
	}
	return nil
}

type HabitEditCmd struct {
	Habit  string  `arg:"" help:"Habit name or id."`
	Name   *string `help:"New name."`
	Type   *string `help:"New type (health|mind|custom)."`
	Freq   *string `help:"New frequency (daily|weekly|custom)."`
	Target *int    `help:"New target per week."`
	Remind *string `help:"New reminder time (HH:mm, empty string clears it)."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := findHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	patch := habits.HabitPatch{
		Name:          c.Name,
		TargetPerWeek: c.Target,
		RemindAt:      c.Remind,
	}
	if c.Type != nil {
		t := models.HabitType(*c.Type)
		patch.Type = &t
	}
	if c.Freq != nil {
		f := models.Frequency(*c.Freq)
		patch.Freq = &f
	}

	updated, err := ctx.Store.UpdateHabit(habit.ID, patch)
	if err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s\n", updated.Name)
	return nil
}

type HabitArchiveCmd struct {
	Habit     string `arg:"" help:"Habit name or id."`
	Unarchive bool   `help:"Unarchive the habit instead."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	habit, err := findHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	archived := !c.Unarchive
	if _, err := ctx.Store.UpdateHabit(habit.ID, habits.HabitPatch{Archived: &archived}); err != nil {
		return err
	}
	if c.Unarchive {
		fmt.Printf("Unarchived habit: %s\n", habit.Name)
	} else {
		fmt.Printf("Archived habit: %s (logs are kept)\n", habit.Name)
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Force bool   `short:"f" help:"Skip confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habit, err := findHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	if !c.Force {
		var confirmed bool
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and all of its logs?", habit.Name)).
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}
