package mcptrust

import (
	"errors"
	"os/exec"
)

// CommandRunner abstracts child-process execution so runners can be
// swapped without depending on os/exec behavior, and so tests can
// script invocations without spawning real processes.
type CommandRunner interface {
	// Run executes the prepared command and returns its exit code.
	// The error is non-nil only when the process could not be run at
	// all; a non-zero exit is reported through the code, not the error.
	Run(cmd *exec.Cmd) (int, error)
}

// execRunner executes commands with os/exec directly.
type execRunner struct{}

func (execRunner) Run(cmd *exec.Cmd) (int, error) {
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		// The process exited but a child kept the pipes open past the
		// wait delay; report the process's own exit code.
		if errors.Is(err, exec.ErrWaitDelay) {
			return cmd.ProcessState.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}
