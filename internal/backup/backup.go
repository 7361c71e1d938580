// Package backup implements the export/import file format and the
// merge-by-id import policy: existing records are never overwritten.
package backup

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ritualapp/ritual/internal/dateutil"
	"github.com/ritualapp/ritual/internal/habits"
	"github.com/ritualapp/ritual/internal/models"
)

// File is the on-disk export format.
type File struct {
	Version    int            `json:"version"`
	ExportedAt int64          `json:"exportedAt"` // epoch milliseconds
	Habits     []models.Habit `json:"habits"`
	Logs       []models.Log   `json:"logs"`
}

// ImportCount reports how an imported collection was handled.
type ImportCount struct {
	Imported int
	Skipped  int
}

// Result carries the per-collection import counts back to the caller.
type Result struct {
	Habits ImportCount
	Logs   ImportCount
}

// Export writes the store's full state to path.
func Export(store *habits.Store, path string) error {
	snap := store.Snapshot()
	file := File{
		Version:    models.SnapshotVersion,
		ExportedAt: dateutil.Now().UnixMilli(),
		Habits:     snap.Habits,
		Logs:       snap.Logs,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// Import merges a backup file into the store. Incoming habits and logs whose
// id already exists locally are skipped, and incoming logs referencing a
// habit absent from the post-merge habit set are skipped too.
func Import(store *habits.Store, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read backup: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return Result{}, fmt.Errorf("failed to parse backup: %w", err)
	}

	return Merge(store, file.Habits, file.Logs), nil
}

// Merge applies the merge-by-id policy and persists through the store's
// bulk setters.
func Merge(store *habits.Store, incomingHabits []models.Habit, incomingLogs []models.Log) Result {
	var res Result
	snap := store.Snapshot()

	habitIDs := make(map[string]struct{}, len(snap.Habits))
	for _, h := range snap.Habits {
		habitIDs[h.ID] = struct{}{}
	}
	mergedHabits := snap.Habits
	for _, h := range incomingHabits {
		if _, exists := habitIDs[h.ID]; exists {
			res.Habits.Skipped++
			continue
		}
		habitIDs[h.ID] = struct{}{}
		mergedHabits = append(mergedHabits, h)
		res.Habits.Imported++
	}

	logIDs := make(map[string]struct{}, len(snap.Logs))
	for _, l := range snap.Logs {
		logIDs[l.ID] = struct{}{}
	}
	mergedLogs := snap.Logs
	for _, l := range incomingLogs {
		if _, exists := logIDs[l.ID]; exists {
			res.Logs.Skipped++
			continue
		}
		if _, ok := habitIDs[l.HabitID]; !ok {
			res.Logs.Skipped++
			continue
		}
		logIDs[l.ID] = struct{}{}
		mergedLogs = append(mergedLogs, l)
		res.Logs.Imported++
	}

	store.SetHabits(mergedHabits)
	store.SetLogs(mergedLogs)
	return res
}
