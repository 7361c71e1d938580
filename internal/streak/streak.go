// Package streak computes consecutive-day completion runs for a habit.
package streak

import (
	"sort"

	"github.com/ritualapp/ritual/internal/dateutil"
	"github.com/ritualapp/ritual/internal/models"
)

// Streak holds the current and longest consecutive-day counts.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Compute derives streak data from one habit's logs. Only completed logs
// count, each day counts once regardless of duplicates, and the current
// streak must end exactly on today in tz: a run that stopped yesterday
// reports Current == 0. There is no grace day.
func Compute(logs []models.Log, tz string) Streak {
	seen := make(map[string]struct{}, len(logs))
	dates := make([]string, 0, len(logs))
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		if _, err := dateutil.ParseKey(l.Date); err != nil {
			continue
		}
		if _, ok := seen[l.Date]; ok {
			continue
		}
		seen[l.Date] = struct{}{}
		dates = append(dates, l.Date)
	}
	if len(dates) == 0 {
		return Streak{}
	}
	sort.Strings(dates)

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		next, err := dateutil.AddDays(dates[i-1], 1, tz)
		if err == nil && dates[i] == next {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := 0
	if dates[len(dates)-1] == dateutil.TodayKey(tz) {
		current = 1
		for i := len(dates) - 1; i > 0; i-- {
			prev, err := dateutil.AddDays(dates[i], -1, tz)
			if err != nil || dates[i-1] != prev {
				break
			}
			current++
		}
	}

	return Streak{Current: current, Longest: longest}
}
