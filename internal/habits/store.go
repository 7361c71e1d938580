// Package habits holds the in-memory authoritative state of the app: the
// habit and log collections, their mutation operations, and derived reads
// (streaks, today's habits, completion stats). The store is the sole owner
// of this state; persistence and reminder scheduling are collaborators it
// drives, never sources of truth.
package habits

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ritualapp/ritual/internal/dateutil"
	"github.com/ritualapp/ritual/internal/logger"
	"github.com/ritualapp/ritual/internal/models"
	"github.com/ritualapp/ritual/internal/notify"
	"github.com/ritualapp/ritual/internal/storage"
	"github.com/ritualapp/ritual/internal/streak"
)

// ErrNotFound is returned when an id does not resolve to a habit.
// Mutations on missing ids consistently signal this rather than no-op.
var ErrNotFound = errors.New("habit not found")

// HydrationState tracks store startup. The store reaches StateHydrated
// exactly once per process; Wipe keeps it hydrated with empty collections.
type HydrationState int

const (
	StateNew HydrationState = iota
	StateHydrating
	StateHydrated
)

// Store owns the habit and log collections.
//
// Mutations and reads normally arrive from a single goroutine; the mutex
// exists because the persistence gateway's debounce timer fires on its own
// goroutine and Close/Flush may race a late mutation.
type Store struct {
	mu      sync.Mutex
	habits  []models.Habit
	logs    []models.Log
	state   HydrationState
	tz      string
	gateway *storage.Gateway
	sched   notify.Scheduler
}

// New constructs a store wired to its collaborators. tz is the IANA timezone
// used for all "today" decisions; empty means the runtime's local timezone.
func New(gateway *storage.Gateway, sched notify.Scheduler, tz string) *Store {
	if sched == nil {
		sched = notify.NopScheduler{}
	}
	return &Store{
		habits:  []models.Habit{},
		logs:    []models.Log{},
		gateway: gateway,
		sched:   sched,
		tz:      tz,
	}
}

// Timezone returns the store's configured timezone name.
func (s *Store) Timezone() string { return s.tz }

// State returns the current hydration state.
func (s *Store) State() HydrationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Hydrate loads persisted state. It is a no-op once the store is hydrated,
// and it never fails: corrupt or missing storage degrades to empty
// collections inside the gateway.
func (s *Store) Hydrate() {
	s.mu.Lock()
	if s.state == StateHydrated {
		s.mu.Unlock()
		return
	}
	s.state = StateHydrating
	s.mu.Unlock()

	snap := s.gateway.Load()

	s.mu.Lock()
	s.habits = snap.Habits
	s.logs = snap.Logs
	s.state = StateHydrated
	s.mu.Unlock()

	logger.Debug("store hydrated", "habits", len(snap.Habits), "logs", len(snap.Logs))
}

// AddHabit validates the input, assigns a fresh id and creation time, and
// appends the habit. A reminder, when requested, is scheduled best-effort:
// scheduler failures are logged and never roll back the creation.
func (s *Store) AddHabit(in models.HabitInput) (models.Habit, error) {
	if err := in.Validate(); err != nil {
		return models.Habit{}, fmt.Errorf("invalid habit: %w", err)
	}

	habit := models.Habit{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Type:          in.Type,
		Freq:          in.Freq,
		TargetPerWeek: in.TargetPerWeek,
		RemindAt:      in.RemindAt,
		CreatedAt:     dateutil.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.habits = append(s.habits, habit)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.gateway.Save(snap)

	if habit.RemindAt != "" {
		if _, err := s.sched.ScheduleDaily(habit.ID, habit.RemindAt, s.tz); err != nil {
			logger.Warn("failed to schedule reminder", "habit", habit.ID, "error", err)
		}
	}

	return habit, nil
}

// HabitPatch carries optional field updates; nil fields are left unchanged.
type HabitPatch struct {
	Name          *string
	Type          *models.HabitType
	Freq          *models.Frequency
	TargetPerWeek *int
	RemindAt      *string
	Archived      *bool
}

// UpdateHabit merges the patch onto an existing habit. The merged result goes
// through the same field validation as creation, so no boundary accepts a
// value the other rejects. A missing id returns ErrNotFound. When RemindAt
// changes, the old schedule is always cancelled before a new one is created
// so a habit never holds two reminders.
func (s *Store) UpdateHabit(id string, patch HabitPatch) (models.Habit, error) {
	s.mu.Lock()
	idx := s.habitIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Habit{}, ErrNotFound
	}

	habit := s.habits[idx]
	oldRemind := habit.RemindAt

	if patch.Name != nil {
		habit.Name = *patch.Name
	}
	if patch.Type != nil {
		habit.Type = *patch.Type
	}
	if patch.Freq != nil {
		habit.Freq = *patch.Freq
	}
	if patch.TargetPerWeek != nil {
		habit.TargetPerWeek = *patch.TargetPerWeek
	}
	if patch.RemindAt != nil {
		habit.RemindAt = *patch.RemindAt
	}
	if patch.Archived != nil {
		habit.Archived = *patch.Archived
	}

	merged := models.HabitInput{
		Name:          habit.Name,
		Type:          habit.Type,
		Freq:          habit.Freq,
		TargetPerWeek: habit.TargetPerWeek,
		RemindAt:      habit.RemindAt,
	}
	if err := merged.Validate(); err != nil {
		s.mu.Unlock()
		return models.Habit{}, fmt.Errorf("invalid habit: %w", err)
	}

	s.habits[idx] = habit
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.gateway.Save(snap)

	if patch.RemindAt != nil && *patch.RemindAt != oldRemind {
		if err := s.sched.CancelScheduled(id); err != nil {
			logger.Warn("failed to cancel reminder", "habit", id, "error", err)
		}
		if habit.RemindAt != "" {
			if _, err := s.sched.ScheduleDaily(id, habit.RemindAt, s.tz); err != nil {
				logger.Warn("failed to schedule reminder", "habit", id, "error", err)
			}
		}
	}

	return habit, nil
}

// ArchiveHabit hides a habit from today views and active aggregates. Its
// logs and any reminder schedule are left alone.
func (s *Store) ArchiveHabit(id string) error {
	archived := true
	_, err := s.UpdateHabit(id, HabitPatch{Archived: &archived})
	return err
}

// DeleteHabit cancels the habit's reminder, removes the habit and every log
// referencing it, and persists immediately: the cascade must not be lost to
// a pending debounce if the process dies right after.
func (s *Store) DeleteHabit(id string) error {
	s.mu.Lock()
	idx := s.habitIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}

	s.habits = append(s.habits[:idx], s.habits[idx+1:]...)
	kept := s.logs[:0]
	for _, l := range s.logs {
		if l.HabitID != id {
			kept = append(kept, l)
		}
	}
	s.logs = kept
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.sched.CancelScheduled(id); err != nil {
		logger.Warn("failed to cancel reminder", "habit", id, "error", err)
	}

	if err := s.gateway.SaveNow(snap); err != nil {
		logger.Error("failed to persist after delete", "habit", id, "error", err)
	}
	return nil
}

// ToggleCompletion flips the completion state for (habitID, dateKey):
// an existing completed log is removed, otherwise exactly one is created.
// Toggling twice restores the prior state. Returns the new completed state.
func (s *Store) ToggleCompletion(habitID, dateKey string) (bool, error) {
	if _, err := dateutil.ParseKey(dateKey); err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.habitIndexLocked(habitID) < 0 {
		s.mu.Unlock()
		return false, ErrNotFound
	}

	removed := false
	kept := s.logs[:0]
	for _, l := range s.logs {
		if l.HabitID == habitID && l.Date == dateKey && l.Completed {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	s.logs = kept

	completed := false
	if !removed {
		s.logs = append(s.logs, models.Log{
			ID:        uuid.New().String(),
			HabitID:   habitID,
			Date:      dateKey,
			Completed: true,
			CreatedAt: dateutil.Now().UnixMilli(),
		})
		completed = true
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.gateway.Save(snap)
	return completed, nil
}

// SetHabits bulk-replaces the habit collection. Used by import/export only.
func (s *Store) SetHabits(habits []models.Habit) {
	s.mu.Lock()
	s.habits = append([]models.Habit{}, habits...)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.gateway.Save(snap)
}

// SetLogs bulk-replaces the log collection. Used by import/export only.
func (s *Store) SetLogs(logs []models.Log) {
	s.mu.Lock()
	s.logs = append([]models.Log{}, logs...)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.gateway.Save(snap)
}

// WipeAll clears both collections and the persisted snapshot. The store
// stays hydrated: a wipe is "hydrated with nothing", not a restart.
func (s *Store) WipeAll() error {
	s.mu.Lock()
	s.habits = []models.Habit{}
	s.logs = []models.Log{}
	s.state = StateHydrated
	s.mu.Unlock()
	return s.gateway.Wipe()
}

// Flush forces any pending persistence write to complete now.
func (s *Store) Flush() error {
	return s.gateway.Flush()
}

// Habits returns a copy of all habits, including archived ones.
func (s *Store) Habits() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Habit{}, s.habits...)
}

// Habit returns a habit by id.
func (s *Store) Habit(id string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.habitIndexLocked(id)
	if idx < 0 {
		return models.Habit{}, ErrNotFound
	}
	return s.habits[idx], nil
}

// HabitByName returns the first habit whose name matches exactly.
func (s *Store) HabitByName(name string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.habits {
		if h.Name == name {
			return h, nil
		}
	}
	return models.Habit{}, ErrNotFound
}

// TodayHabits returns the non-archived habits eligible on the given day.
// Every non-archived habit is eligible every day regardless of frequency;
// frequency-aware filtering was considered and deliberately left out (the
// weekly/custom rules are surfaced to the user as targets, not gates).
func (s *Store) TodayHabits(dateKey string) []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Habit{}
	for _, h := range s.habits {
		if !h.Archived {
			out = append(out, h)
		}
	}
	return out
}

// HabitLogs returns all logs for a habit, newest date first, ties broken by
// CreatedAt descending. Logs referencing a missing habit are never returned.
func (s *Store) HabitLogs(habitID string) []models.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.habitIndexLocked(habitID) < 0 {
		return []models.Log{}
	}
	out := []models.Log{}
	for _, l := range s.logs {
		if l.HabitID == habitID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// IsCompletedOnDate reports whether the habit has a completed log for the day.
func (s *Store) IsCompletedOnDate(habitID, dateKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.habitIndexLocked(habitID) < 0 {
		return false
	}
	for _, l := range s.logs {
		if l.HabitID == habitID && l.Date == dateKey && l.Completed {
			return true
		}
	}
	return false
}

// Streak returns the current and longest consecutive-day runs for a habit.
func (s *Store) Streak(habitID string) streak.Streak {
	return streak.Compute(s.HabitLogs(habitID), s.tz)
}

// CompletionPercentage reports, over non-archived daily habits, the share of
// habit-days in [startDate, endDate] with a completed log, as 0..100.
// The denominator is days-in-range times habit count; duplicate completions
// on one day count once and the result is capped at 100.
func (s *Store) CompletionPercentage(startDate, endDate string) float64 {
	start, err := dateutil.ParseKey(startDate)
	if err != nil {
		return 0
	}
	end, err := dateutil.ParseKey(endDate)
	if err != nil {
		return 0
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var daily []string
	for _, h := range s.habits {
		if !h.Archived && h.Freq == models.FreqDaily {
			daily = append(daily, h.ID)
		}
	}
	if len(daily) == 0 {
		return 0
	}

	completed := make(map[string]struct{})
	for _, l := range s.logs {
		if !l.Completed || l.Date < startDate || l.Date > endDate {
			continue
		}
		for _, id := range daily {
			if l.HabitID == id {
				completed[l.HabitID+"|"+l.Date] = struct{}{}
				break
			}
		}
	}

	pct := float64(len(completed)) / float64(days*len(daily)) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Snapshot returns a copy of the full store state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Habits:  append([]models.Habit{}, s.habits...),
		Logs:    append([]models.Log{}, s.logs...),
		Version: models.SnapshotVersion,
	}
}

func (s *Store) habitIndexLocked(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}
