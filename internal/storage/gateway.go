// Package storage persists the habit store's snapshot to a key-value byte
// store. Loading never fails upward: corrupt or missing data degrades to an
// empty snapshot so the app always starts. Saving is debounced so bursts of
// mutations coalesce into one write.
package storage

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ritualapp/ritual/internal/kv"
	"github.com/ritualapp/ritual/internal/logger"
	"github.com/ritualapp/ritual/internal/models"
)

const (
	// StoreKey is the namespaced key holding the current-version snapshot.
	StoreKey = "ritual.store"
	// Legacy keys: older versions stored bare arrays under two separate
	// keys with no wrapping object or version field.
	LegacyHabitsKey = "habits"
	LegacyLogsKey   = "logs"

	// DefaultDebounce is the quiet interval before a pending save is written.
	DefaultDebounce = 400 * time.Millisecond
)

// Gateway owns the physical storage keys. The habit store is its only caller.
type Gateway struct {
	kv       kv.Store
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *models.Snapshot // nil when idle, non-nil while a save is pending
	gen     uint64           // generation of the most recently staged snapshot

	// writeMu serializes physical writes; written holds the generation of the
	// last snapshot that reached the kv store. A write whose generation is not
	// newer is stale (a debounce timer that fired concurrently with SaveNow)
	// and must be discarded, never persisted over newer state.
	writeMu sync.Mutex
	written uint64
}

// New returns a gateway over the given byte store with the default debounce.
func New(store kv.Store) *Gateway {
	return NewWithDebounce(store, DefaultDebounce)
}

// NewWithDebounce lets tests shrink the quiet interval.
func NewWithDebounce(store kv.Store, debounce time.Duration) *Gateway {
	return &Gateway{kv: store, debounce: debounce}
}

// Load reads the persisted snapshot. It tries the current-version key first,
// then the legacy two-key layout, and returns an empty snapshot when nothing
// usable is found anywhere. Legacy data is re-saved in the current format
// immediately so the migration runs once.
func (g *Gateway) Load() models.Snapshot {
	data, err := g.kv.Get(StoreKey)
	if err == nil {
		if snap, ok := decodeSnapshot(data); ok {
			return snap
		}
		logger.Warn("snapshot is corrupt, trying legacy keys", "key", StoreKey)
	} else if !errors.Is(err, kv.ErrNotFound) {
		logger.Error("failed to read snapshot", "key", StoreKey, "error", err)
	}

	if snap, ok := g.loadLegacy(); ok {
		logger.Info("migrated legacy storage", "habits", len(snap.Habits), "logs", len(snap.Logs))
		g.mu.Lock()
		g.gen++
		gen := g.gen
		g.mu.Unlock()
		if err := g.write(snap, gen); err != nil {
			logger.Error("failed to re-save migrated snapshot", "error", err)
		}
		return snap
	}

	return emptySnapshot()
}

func (g *Gateway) loadLegacy() (models.Snapshot, bool) {
	snap := emptySnapshot()
	found := false

	if data, err := g.kv.Get(LegacyHabitsKey); err == nil {
		var habits []models.Habit
		if err := json.Unmarshal(data, &habits); err != nil {
			logger.Warn("legacy habits key is corrupt, ignoring", "error", err)
		} else {
			snap.Habits = habits
			found = true
		}
	}
	if data, err := g.kv.Get(LegacyLogsKey); err == nil {
		var logs []models.Log
		if err := json.Unmarshal(data, &logs); err != nil {
			logger.Warn("legacy logs key is corrupt, ignoring", "error", err)
		} else {
			snap.Logs = logs
			found = true
		}
	}

	return snap, found
}

// decodeSnapshot parses the persisted payload, coercing a non-array habits
// or logs field to an empty slice instead of failing the whole load.
func decodeSnapshot(data []byte) (models.Snapshot, bool) {
	var raw struct {
		Habits  json.RawMessage `json:"habits"`
		Logs    json.RawMessage `json:"logs"`
		Version int             `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Snapshot{}, false
	}

	snap := emptySnapshot()
	if len(raw.Habits) > 0 {
		var habits []models.Habit
		if err := json.Unmarshal(raw.Habits, &habits); err == nil && habits != nil {
			snap.Habits = habits
		}
	}
	if len(raw.Logs) > 0 {
		var logs []models.Log
		if err := json.Unmarshal(raw.Logs, &logs); err == nil && logs != nil {
			snap.Logs = logs
		}
	}
	return snap, true
}

func emptySnapshot() models.Snapshot {
	return models.Snapshot{
		Habits:  []models.Habit{},
		Logs:    []models.Log{},
		Version: models.SnapshotVersion,
	}
}

// Save schedules a debounced write of snap. Repeated calls within the quiet
// interval replace the pending snapshot and restart the timer, so exactly one
// write happens reflecting the last state (last-write-wins).
func (g *Gateway) Save(snap models.Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gen++
	g.pending = &snap
	if g.timer == nil {
		g.timer = time.AfterFunc(g.debounce, g.fire)
	} else {
		g.timer.Reset(g.debounce)
	}
}

func (g *Gateway) fire() {
	g.mu.Lock()
	snap := g.pending
	gen := g.gen
	g.pending = nil
	g.timer = nil
	g.mu.Unlock()

	if snap == nil {
		return
	}
	if err := g.write(*snap, gen); err != nil {
		// Non-fatal: in-memory state stays authoritative and the next
		// mutation's save will retry.
		logger.Error("failed to persist snapshot", "error", err)
	}
}

// SaveNow writes snap immediately, cancelling any pending debounced save.
// Used before destructive operations where eventual consistency is not
// acceptable (habit deletion, app shutdown).
func (g *Gateway) SaveNow(snap models.Snapshot) error {
	gen := g.cancelPending()
	return g.write(snap, gen)
}

// Flush writes the pending snapshot, if any, bypassing the timer.
func (g *Gateway) Flush() error {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	snap := g.pending
	gen := g.gen
	g.pending = nil
	g.mu.Unlock()

	if snap == nil {
		return nil
	}
	return g.write(*snap, gen)
}

// Wipe removes every persisted key, current and legacy. The deletes happen
// under the write lock so a concurrently firing timer cannot resurrect the
// snapshot afterwards.
func (g *Gateway) Wipe() error {
	gen := g.cancelPending()

	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if gen > g.written {
		g.written = gen
	}
	var firstErr error
	for _, key := range []string{StoreKey, LegacyHabitsKey, LegacyLogsKey} {
		if err := g.kv.Delete(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// cancelPending drops any staged snapshot and returns a generation newer than
// it, so the caller's own write supersedes the cancelled one.
func (g *Gateway) cancelPending() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.pending = nil
	g.gen++
	return g.gen
}

func (g *Gateway) write(snap models.Snapshot, gen uint64) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if gen <= g.written {
		return nil
	}

	snap.Version = models.SnapshotVersion
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := g.kv.Set(StoreKey, data); err != nil {
		return err
	}
	g.written = gen
	return nil
}

// Close flushes any pending save and closes the underlying store.
func (g *Gateway) Close() error {
	if err := g.Flush(); err != nil {
		logger.Error("failed to flush snapshot on close", "error", err)
	}
	return g.kv.Close()
}
