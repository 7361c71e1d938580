package cli

import (
	"fmt"

	"github.com/ritualapp/ritual/internal/logger"
	"github.com/ritualapp/ritual/internal/models"
	"github.com/ritualapp/ritual/internal/motivation"
	"github.com/ritualapp/ritual/internal/notify"
	"github.com/ritualapp/ritual/internal/profile"
)

type PrefsCmd struct {
	Show PrefsShowCmd `cmd:"" help:"Show current preferences." default:"1"`
	Set  PrefsSetCmd  `cmd:"" help:"Update preferences."`
}

type PrefsShowCmd struct{}

func (c *PrefsShowCmd) Run(ctx *Context) error {
	p := ctx.Prefs
	name := p.Name
	if name == "" {
		name = "(unset)"
	}
	tz := p.Timezone
	if tz == "" {
		tz = "Local"
	}
	reminder := p.DefaultReminder
	if reminder == "" {
		reminder = "(none)"
	}
	fmt.Printf("name:             %s\n", name)
	fmt.Printf("tone:             %s\n", p.Tone)
	fmt.Printf("timezone:         %s\n", tz)
	fmt.Printf("default reminder: %s\n", reminder)
	fmt.Printf("evening recap:    %t\n", p.EveningRecap)
	return nil
}

type PrefsSetCmd struct {
	Name     *string `help:"Display name used in motivation messages."`
	Tone     *string `help:"Motivation tone (coach|friend|zen)."`
	Timezone *string `help:"IANA timezone for day boundaries."`
	Reminder *string `help:"Default reminder time (HH:mm, empty string clears it)."`
	Recap    *bool   `help:"Enable or disable the evening recap."`
}

func (c *PrefsSetCmd) Run(ctx *Context) error {
	p := ctx.Prefs

	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Tone != nil {
		tone := motivation.Tone(*c.Tone)
		switch tone {
		case motivation.ToneCoach, motivation.ToneFriend, motivation.ToneZen:
			p.Tone = tone
		default:
			return fmt.Errorf("invalid tone %q (coach|friend|zen)", *c.Tone)
		}
	}
	if c.Timezone != nil {
		p.Timezone = *c.Timezone
	}
	if c.Reminder != nil {
		if *c.Reminder != "" && !models.ValidRemindAt(*c.Reminder) {
			return fmt.Errorf("invalid reminder time %q (must be HH:mm)", *c.Reminder)
		}
		p.DefaultReminder = *c.Reminder
	}
	if c.Recap != nil {
		p.EveningRecap = *c.Recap
	}

	if err := profile.Save(ctx.KV, p); err != nil {
		return err
	}
	ctx.Prefs = p

	// The tray agent owns the recap trigger; keep it in line when the recap
	// pref or the timezone it fires in changes. Best-effort, like habit
	// reminders: a missing agent never fails the pref change itself.
	if c.Recap != nil || (c.Timezone != nil && p.EveningRecap) {
		if err := notify.SyncRecap(ctx.Sched, p.EveningRecap, p.Timezone); err != nil {
			logger.Warn("failed to sync evening recap", "error", err)
			fmt.Println("Note: could not update the evening recap schedule (is ritual-tray running?)")
		}
	}

	fmt.Println("Preferences saved.")
	return nil
}
