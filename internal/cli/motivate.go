package cli

import (
	"fmt"

	"github.com/ritualapp/ritual/internal/dateutil"
	"github.com/ritualapp/ritual/internal/motivation"
)

type MotivateCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *MotivateCmd) Run(ctx *Context) error {
	habit, err := findHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	tz := ctx.Store.Timezone()
	st := ctx.Store.Streak(habit.ID)

	var last3 []bool
	for _, day := range dateutil.LastNDays(3, tz) {
		last3 = append(last3, ctx.Store.IsCompletedOnDate(habit.ID, day))
	}

	msg := motivation.Generate(motivation.Context{
		Name:          ctx.Prefs.Name,
		HabitName:     habit.Name,
		Streak:        st.Current,
		Last3Outcomes: last3,
		TimeOfDay:     motivation.TimeOfDayAt(dateutil.Now().In(dateutil.Location(tz))),
		Tone:          ctx.Prefs.Tone,
	})
	fmt.Println(msg)
	return nil
}
