package notify

import (
	"errors"

	"github.com/mitchellh/go-ps"
)

// findProcess returns the executable name of the process with the given pid.
func findProcess(pid int) (string, error) {
	process, err := ps.FindProcess(pid)
	if err != nil {
		return "", err
	}
	if process == nil {
		return "", errors.New("process not found")
	}
	return process.Executable(), nil
}
