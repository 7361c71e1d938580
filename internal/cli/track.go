package cli

import (
	"fmt"
	"strings"

	"github.com/ritualapp/ritual/internal/dateutil"
)

type MarkCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Day to toggle (YYYY-MM-DD), defaults to today."`
}

func (c *MarkCmd) Run(ctx *Context) error {
	habit, err := findHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		date = dateutil.TodayKey(ctx.Store.Timezone())
	}

	completed, err := ctx.Store.ToggleCompletion(habit.ID, date)
	if err != nil {
		return err
	}

	if completed {
		fmt.Printf("Marked %s done for %s\n", habit.Name, date)
	} else {
		fmt.Printf("Unmarked %s for %s\n", habit.Name, date)
	}
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	tz := ctx.Store.Timezone()
	today := dateutil.TodayKey(tz)
	list := ctx.Store.TodayHabits(today)
	if len(list) == 0 {
		fmt.Println("No habits for today. Add one with 'ritual habit add'.")
		return nil
	}

	fmt.Println(titleStyle.Render("Today " + today))
	for _, h := range list {
		done := ctx.Store.IsCompletedOnDate(h.ID, today)
		line := fmt.Sprintf(" [%s] %-24s", completionMark(done), h.Name)
		st := ctx.Store.Streak(h.ID)
		if st.Current > 0 {
			line += streakStyle.Render(fmt.Sprintf(" %dd", st.Current))
		}
		fmt.Println(line)
	}
	return nil
}

type LogCmd struct {
	Habit string `help:"Limit to a single habit (name or id)."`
	Days  int    `help:"How many days of history to show." default:"14"`
}

// Run prints an ASCII completion grid, newest day on the right.
func (c *LogCmd) Run(ctx *Context) error {
	tz := ctx.Store.Timezone()
	days := dateutil.LastNDays(c.Days, tz)
	// newest-to-oldest -> oldest-to-newest for left-to-right reading
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}

	habitsToShow := ctx.Store.TodayHabits(days[len(days)-1])
	if c.Habit != "" {
		h, err := findHabit(ctx, c.Habit)
		if err != nil {
			return err
		}
		habitsToShow = habitsToShow[:0]
		habitsToShow = append(habitsToShow, h)
	}
	if len(habitsToShow) == 0 {
		fmt.Println("No habits to show.")
		return nil
	}

	const nameWidth = 20
	fmt.Printf("%-*s", nameWidth, "Habit")
	for _, day := range days {
		fmt.Printf(" %s", day[5:]) // MM-DD
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", nameWidth+6*len(days)))

	for _, h := range habitsToShow {
		name := h.Name
		if len(name) > nameWidth {
			name = name[:nameWidth-3] + "..."
		}
		fmt.Printf("%-*s", nameWidth, name)
		for _, day := range days {
			fmt.Printf("  %s   ", completionMark(ctx.Store.IsCompletedOnDate(h.ID, day)))
		}
		fmt.Println()
	}
	return nil
}

type StatsCmd struct {
	Days int `help:"Range length in days, ending today." default:"7"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	tz := ctx.Store.Timezone()
	days := dateutil.LastNDays(c.Days, tz)
	end := days[0]
	start := days[len(days)-1]

	pct := ctx.Store.CompletionPercentage(start, end)
	fmt.Printf("Completion %s .. %s: %.0f%%\n", start, end, pct)

	for _, h := range ctx.Store.TodayHabits(end) {
		st := ctx.Store.Streak(h.ID)
		fmt.Printf("  %-24s current %2d  longest %2d\n", h.Name, st.Current, st.Longest)
	}
	return nil
}
