package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/ritualapp/ritual/internal/habits"
	"github.com/ritualapp/ritual/internal/kv"
	"github.com/ritualapp/ritual/internal/logger"
	"github.com/ritualapp/ritual/internal/models"
	"github.com/ritualapp/ritual/internal/notify"
	"github.com/ritualapp/ritual/internal/profile"
)

// Context is threaded into every command's Run by kong. There are no
// package-level singletons: the store instance lives here and nowhere else.
type Context struct {
	Store *habits.Store
	KV    kv.Store
	Prefs profile.Prefs
	Sched notify.Scheduler
}

var (
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	missStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	streakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Fatal prints an error consistently and exits non-zero.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("command failed", "error", err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// findHabit resolves a habit by name first, then by id.
func findHabit(ctx *Context, ref string) (models.Habit, error) {
	if h, err := ctx.Store.HabitByName(ref); err == nil {
		return h, nil
	}
	h, err := ctx.Store.Habit(ref)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	}
	return h, nil
}

func completionMark(done bool) string {
	if done {
		return doneStyle.Render("x")
	}
	return missStyle.Render(".")
}
