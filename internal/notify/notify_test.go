package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampQuietHours(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "08:00", want: "08:00"},
		{in: "12:30", want: "12:30"},
		{in: "21:59", want: "21:59"},
		// Late evening shifts to the morning boundary.
		{in: "22:00", want: "07:00"},
		{in: "23:45", want: "07:00"},
		// Overnight shifts forward too.
		{in: "00:00", want: "07:00"},
		{in: "06:59", want: "07:00"},
		{in: "07:00", want: "07:00"},
		{in: "abc", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "12", wantErr: true},
		{in: "12:xx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ClampQuietHours(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type recordingScheduler struct {
	calls []string
	err   error
}

func (r *recordingScheduler) ScheduleDaily(habitID, hhmm, tz string) (string, error) {
	r.calls = append(r.calls, fmt.Sprintf("schedule:%s:%s:%s", habitID, hhmm, tz))
	return "", r.err
}

func (r *recordingScheduler) CancelScheduled(habitID string) error {
	r.calls = append(r.calls, "cancel:"+habitID)
	return r.err
}

func TestSyncRecap(t *testing.T) {
	rec := &recordingScheduler{}

	require.NoError(t, SyncRecap(rec, true, "Europe/Berlin"))
	assert.Equal(t, []string{"schedule:" + RecapID + ":" + DefaultRecapTime + ":Europe/Berlin"}, rec.calls)

	rec.calls = nil
	require.NoError(t, SyncRecap(rec, false, "Europe/Berlin"))
	assert.Equal(t, []string{"cancel:" + RecapID}, rec.calls)
}

func TestSyncRecap_SurfacesSchedulerError(t *testing.T) {
	rec := &recordingScheduler{err: fmt.Errorf("tray not running")}
	assert.Error(t, SyncRecap(rec, true, "UTC"))
}

func writeLockfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), lockfileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func stubFindProcess(t *testing.T, executable string, err error) {
	t.Helper()
	orig := findProcessFunc
	findProcessFunc = func(pid int) (string, error) { return executable, err }
	t.Cleanup(func() { findProcessFunc = orig })
}

func TestReadLockfile(t *testing.T) {
	stubFindProcess(t, "ritual-tray", nil)

	port, secret, err := readLockfile(writeLockfile(t, "4924|1234|s3cret\n"))
	require.NoError(t, err)
	assert.Equal(t, "4924", port)
	assert.Equal(t, "s3cret", secret)
}

func TestReadLockfile_Missing(t *testing.T) {
	_, _, err := readLockfile(filepath.Join(t.TempDir(), lockfileName))
	assert.EqualError(t, err, "ritual-tray is not running")
}

func TestReadLockfile_Malformed(t *testing.T) {
	stubFindProcess(t, "ritual-tray", nil)

	tests := []struct {
		name    string
		content string
	}{
		{"too few fields", "4924|1234"},
		{"bad port", "notaport|1234|s3cret"},
		{"port out of range", "70000|1234|s3cret"},
		{"bad pid", "4924|abc|s3cret"},
		{"empty secret", "4924|1234| "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := readLockfile(writeLockfile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestReadLockfile_RejectsImposterProcess(t *testing.T) {
	stubFindProcess(t, "some-other-binary", nil)

	_, _, err := readLockfile(writeLockfile(t, "4924|1234|s3cret"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not ritual-tray")
}

func TestReadLockfile_DeadProcess(t *testing.T) {
	stubFindProcess(t, "", fmt.Errorf("no such process"))

	_, _, err := readLockfile(writeLockfile(t, "4924|1234|s3cret"))
	assert.EqualError(t, err, "ritual-tray process not running")
}

// pointTrayAt stands up an httptest server and writes a lockfile pointing
// the scheduler at it.
func pointTrayAt(t *testing.T, handler http.HandlerFunc) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	configDir := t.TempDir()
	trayDir := filepath.Join(configDir, trayAppIdentifier)
	require.NoError(t, os.MkdirAll(trayDir, 0700))
	lock := fmt.Sprintf("%s|%d|s3cret", u.Port(), os.Getpid())
	require.NoError(t, os.WriteFile(filepath.Join(trayDir, lockfileName), []byte(lock), 0600))

	origDir := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return configDir, nil }
	t.Cleanup(func() { userConfigDirFunc = origDir })

	stubFindProcess(t, "ritual-tray", nil)
}

func TestTrayScheduler_ScheduleDaily(t *testing.T) {
	var got scheduleCommand
	pointTrayAt(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reminders", r.URL.Path)
		assert.Equal(t, "s3cret", r.Header.Get("X-Ritual-Secret"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(scheduleReply{Handle: "handle-1"})
	})

	handle, err := NewTrayScheduler().ScheduleDaily("habit-1", "23:30", "Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "handle-1", handle)

	assert.Equal(t, "schedule", got.Action)
	assert.Equal(t, "habit-1", got.HabitID)
	// Quiet hours applied before the command leaves the process.
	assert.Equal(t, "07:00", got.Time)
	assert.Equal(t, "Europe/Berlin", got.Timezone)
}

func TestTrayScheduler_CancelScheduled(t *testing.T) {
	var got scheduleCommand
	pointTrayAt(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, NewTrayScheduler().CancelScheduled("habit-1"))
	assert.Equal(t, "cancel", got.Action)
	assert.Equal(t, "habit-1", got.HabitID)
	assert.Empty(t, got.Time)
}

func TestTrayScheduler_AgentError(t *testing.T) {
	pointTrayAt(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusForbidden)
	})

	_, err := NewTrayScheduler().ScheduleDaily("habit-1", "09:00", "UTC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestTrayScheduler_InvalidTimeRejectedLocally(t *testing.T) {
	// No lockfile, no server: a bad time never reaches the wire.
	_, err := NewTrayScheduler().ScheduleDaily("habit-1", "9am", "UTC")
	assert.Error(t, err)
}
