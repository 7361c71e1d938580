package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ritualapp/ritual/internal/dateutil"
	"github.com/ritualapp/ritual/internal/models"
)

// Pin "today" to 2024-01-03 UTC for every test in this file.
func pinToday(t *testing.T) {
	t.Helper()
	prev := dateutil.Now
	dateutil.Now = func() time.Time {
		return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	}
	t.Cleanup(func() { dateutil.Now = prev })
}

func completed(dates ...string) []models.Log {
	logs := make([]models.Log, 0, len(dates))
	for i, d := range dates {
		logs = append(logs, models.Log{
			ID:        d,
			HabitID:   "h1",
			Date:      d,
			Completed: true,
			CreatedAt: int64(i),
		})
	}
	return logs
}

func TestCompute_Empty(t *testing.T) {
	pinToday(t)
	assert.Equal(t, Streak{}, Compute(nil, "UTC"))
	assert.Equal(t, Streak{}, Compute([]models.Log{}, "UTC"))
}

func TestCompute_OnlyIncompleteLogs(t *testing.T) {
	pinToday(t)
	logs := []models.Log{{ID: "a", HabitID: "h1", Date: "2024-01-03", Completed: false}}
	assert.Equal(t, Streak{}, Compute(logs, "UTC"))
}

func TestCompute_SingleDayToday(t *testing.T) {
	pinToday(t)
	assert.Equal(t, Streak{Current: 1, Longest: 1}, Compute(completed("2024-01-03"), "UTC"))
}

func TestCompute_SingleDayYesterday_NoGrace(t *testing.T) {
	pinToday(t)
	// A streak that ended yesterday shows as broken, not "1 day grace".
	assert.Equal(t, Streak{Current: 0, Longest: 1}, Compute(completed("2024-01-02"), "UTC"))
}

func TestCompute_ThreeDayRunEndingToday(t *testing.T) {
	pinToday(t)
	got := Compute(completed("2024-01-01", "2024-01-02", "2024-01-03"), "UTC")
	assert.Equal(t, Streak{Current: 3, Longest: 3}, got)
}

func TestCompute_GapBreaksCurrent(t *testing.T) {
	pinToday(t)
	got := Compute(completed("2024-01-01", "2024-01-03"), "UTC")
	assert.Equal(t, Streak{Current: 1, Longest: 1}, got)
}

func TestCompute_LongestIsHistorical(t *testing.T) {
	pinToday(t)
	got := Compute(completed("2023-12-20", "2023-12-21", "2023-12-22", "2023-12-23", "2024-01-03"), "UTC")
	assert.Equal(t, Streak{Current: 1, Longest: 4}, got)
}

func TestCompute_UnorderedInput(t *testing.T) {
	pinToday(t)
	got := Compute(completed("2024-01-03", "2024-01-01", "2024-01-02"), "UTC")
	assert.Equal(t, Streak{Current: 3, Longest: 3}, got)
}

func TestCompute_DuplicateDatesCountOnce(t *testing.T) {
	pinToday(t)
	got := Compute(completed("2024-01-03", "2024-01-03", "2024-01-02"), "UTC")
	assert.Equal(t, Streak{Current: 2, Longest: 2}, got)
}

func TestCompute_AcrossMonthBoundary(t *testing.T) {
	pinToday(t)
	got := Compute(completed("2023-12-30", "2023-12-31", "2024-01-01", "2024-01-02", "2024-01-03"), "UTC")
	assert.Equal(t, Streak{Current: 5, Longest: 5}, got)
}

func TestCompute_AcrossDSTBoundary(t *testing.T) {
	prev := dateutil.Now
	loc, _ := time.LoadLocation("America/New_York")
	dateutil.Now = func() time.Time {
		return time.Date(2024, 3, 10, 10, 0, 0, 0, loc)
	}
	t.Cleanup(func() { dateutil.Now = prev })

	got := Compute(completed("2024-03-08", "2024-03-09", "2024-03-10"), "America/New_York")
	assert.Equal(t, Streak{Current: 3, Longest: 3}, got)
}

func TestCompute_LongestNeverBelowCurrent(t *testing.T) {
	pinToday(t)
	cases := [][]string{
		{"2024-01-03"},
		{"2024-01-02", "2024-01-03"},
		{"2023-12-25", "2024-01-02", "2024-01-03"},
		{"2023-12-24", "2023-12-25", "2023-12-26", "2024-01-03"},
	}
	for _, dates := range cases {
		got := Compute(completed(dates...), "UTC")
		assert.GreaterOrEqual(t, got.Longest, got.Current, "dates %v", dates)
	}
}

func TestCompute_IgnoresMalformedDates(t *testing.T) {
	pinToday(t)
	logs := append(completed("2024-01-03"), models.Log{
		ID: "bad", HabitID: "h1", Date: "not-a-date", Completed: true,
	})
	assert.Equal(t, Streak{Current: 1, Longest: 1}, Compute(logs, "UTC"))
}
