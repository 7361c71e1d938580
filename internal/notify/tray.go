package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Test seams.
var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = findProcess
)

const (
	trayAppIdentifier = "ritual-tray"
	lockfileName      = "ritual-tray.lock"
)

// TrayScheduler talks to the local ritual-tray agent, which owns the OS
// notification triggers. The agent advertises itself through a lockfile
// containing "port|pid|secret"; commands go to it as authenticated webhook
// POSTs on localhost.
type TrayScheduler struct {
	client *http.Client
}

// NewTrayScheduler returns a scheduler bound to the local tray agent.
func NewTrayScheduler() *TrayScheduler {
	return &TrayScheduler{client: &http.Client{}}
}

type scheduleCommand struct {
	Action   string `json:"action"` // "schedule" or "cancel"
	HabitID  string `json:"habit_id"`
	Time     string `json:"time,omitempty"` // HH:mm
	Timezone string `json:"timezone,omitempty"`
}

type scheduleReply struct {
	Handle string `json:"handle"`
}

// ScheduleDaily registers a daily reminder, shifting times that fall inside
// quiet hours to the morning boundary.
func (s *TrayScheduler) ScheduleDaily(habitID, hhmm, tz string) (string, error) {
	effective, err := ClampQuietHours(hhmm)
	if err != nil {
		return "", err
	}
	reply, err := s.send(scheduleCommand{
		Action:   "schedule",
		HabitID:  habitID,
		Time:     effective,
		Timezone: tz,
	})
	if err != nil {
		return "", err
	}
	return reply.Handle, nil
}

func (s *TrayScheduler) CancelScheduled(habitID string) error {
	_, err := s.send(scheduleCommand{Action: "cancel", HabitID: habitID})
	return err
}

func (s *TrayScheduler) send(cmd scheduleCommand) (scheduleReply, error) {
	configDir, err := trayConfigDir()
	if err != nil {
		return scheduleReply{}, err
	}

	port, secret, err := readLockfile(filepath.Join(configDir, lockfileName))
	if err != nil {
		return scheduleReply{}, err
	}

	body, err := json.Marshal(cmd)
	if err != nil {
		return scheduleReply{}, err
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("http://127.0.0.1:%s/reminders", port), bytes.NewReader(body))
	if err != nil {
		return scheduleReply{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Ritual-Secret", secret)

	res, err := s.client.Do(req)
	if err != nil {
		return scheduleReply{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(res.Body)
		return scheduleReply{}, fmt.Errorf("tray agent returned status %d: %s", res.StatusCode, string(msg))
	}

	var reply scheduleReply
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil && !errors.Is(err, io.EOF) {
		return scheduleReply{}, fmt.Errorf("malformed tray agent reply: %w", err)
	}
	return reply, nil
}

func trayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, trayAppIdentifier), nil
}

// readLockfile parses "port|pid|secret" and verifies the advertised process
// is actually the tray agent before trusting the port.
func readLockfile(path string) (string, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.New("ritual-tray is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port, pidStr, secret := parts[0], parts[1], parts[2]
	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 1 || portNum > 65535 {
		return "", "", errors.New("invalid port in lockfile")
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	executable, err := findProcessFunc(pid)
	if err != nil {
		return "", "", errors.New("ritual-tray process not running")
	}
	if !strings.HasPrefix(executable, trayAppIdentifier) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, trayAppIdentifier, executable)
	}

	return port, secret, nil
}
