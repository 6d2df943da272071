// Package mcptrusttest provides a scripted CommandRunner for testing
// code that drives the mcptrust client without spawning real processes.
package mcptrusttest

import (
	"io"
	"os/exec"
	"slices"
	"sync"

	"github.com/mcptrust/mcptrust-go/pkg/mcptrust"
)

// Behavior describes one scripted invocation outcome.
type Behavior struct {
	// ExitCode is reported as the process exit code.
	ExitCode int

	// Stdout and Stderr are written to the command's streams.
	Stdout string
	Stderr string

	// Err, when set, is returned as a runner-level failure (the
	// process could not be run at all); ExitCode is ignored.
	Err error
}

// Exit returns a Behavior that exits with the given code and streams.
func Exit(code int, stdout, stderr string) Behavior {
	return Behavior{ExitCode: code, Stdout: stdout, Stderr: stderr}
}

// OK returns a Behavior for a clean zero exit with the given stdout.
func OK(stdout string) Behavior {
	return Behavior{Stdout: stdout}
}

// Runner is a thread-safe scripted implementation of
// mcptrust.CommandRunner. Behaviors are consumed sequentially, one per
// invocation; once exhausted every call exits zero with empty streams.
// Each invocation's full argument vector is recorded in Invocations.
type Runner struct {
	mu        sync.Mutex
	behaviors []Behavior

	// Invocations holds the full argv (binary path first) of every
	// call, in order.
	Invocations [][]string
}

var _ mcptrust.CommandRunner = (*Runner)(nil)

// NewRunner constructs a Runner that replays behaviors in order.
func NewRunner(behaviors ...Behavior) *Runner {
	return &Runner{behaviors: slices.Clone(behaviors)}
}

// Run records the invocation and replays the next behavior.
func (r *Runner) Run(cmd *exec.Cmd) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Invocations = append(r.Invocations, slices.Clone(cmd.Args))

	if len(r.behaviors) == 0 {
		return 0, nil
	}
	b := r.behaviors[0]
	r.behaviors = r.behaviors[1:]

	if b.Err != nil {
		return -1, b.Err
	}
	if b.Stdout != "" && cmd.Stdout != nil {
		_, _ = io.WriteString(cmd.Stdout, b.Stdout)
	}
	if b.Stderr != "" && cmd.Stderr != nil {
		_, _ = io.WriteString(cmd.Stderr, b.Stderr)
	}
	return b.ExitCode, nil
}

// Calls returns how many invocations have been recorded.
func (r *Runner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Invocations)
}

// Remaining returns the number of queued behaviors not yet consumed.
func (r *Runner) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.behaviors)
}
