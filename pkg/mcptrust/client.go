// Package mcptrust is a Go client for the mcptrust command-line tool.
// It locates the binary, builds argument vectors for the lock, diff,
// policy-check and run subcommands, executes them as child processes
// and maps exit codes and captured streams onto typed results. All
// trust semantics (locking, diffing, policy evaluation, provenance
// verification) live in the external binary; this package treats it as
// an opaque subprocess.
package mcptrust

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// EnvBin names the environment variable that overrides PATH discovery
// of the mcptrust binary when no explicit path is given.
const EnvBin = "MCPTRUST_BIN"

// binaryName is what PATH discovery looks for.
const binaryName = "mcptrust"

// waitDelay bounds how long a finished or killed invocation may hold
// its pipes open through surviving children before Run gives up on
// the remaining output.
const waitDelay = time.Second

// resolveBinary picks the binary path with precedence explicit > env >
// PATH. It is pure over its inputs so discovery is testable without
// touching the real process environment.
func resolveBinary(explicit string, getenv func(string) string, lookPath func(string) (string, error)) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if envBin := getenv(EnvBin); envBin != "" {
		return envBin, nil
	}
	if whichBin, err := lookPath(binaryName); err == nil {
		return whichBin, nil
	}
	return "", ErrNotInstalled
}

// Client invokes the mcptrust binary. The binary path is resolved once
// at construction and never re-resolved; the client holds no other
// state and is safe to share.
type Client struct {
	binPath string
	runner  CommandRunner
}

// Option configures a Client during construction.
type Option func(*Client)

// WithBinPath sets an explicit binary path, bypassing environment and
// PATH discovery.
func WithBinPath(path string) Option {
	return func(c *Client) { c.binPath = path }
}

// WithRunner replaces the process runner. Tests use this to script
// invocations; see the mcptrusttest package.
func WithRunner(r CommandRunner) Option {
	return func(c *Client) { c.runner = r }
}

// New constructs a Client, resolving the binary with precedence
// explicit path > MCPTRUST_BIN > PATH lookup. Returns ErrNotInstalled
// when none resolve.
func New(opts ...Option) (*Client, error) {
	c := &Client{runner: execRunner{}}
	for _, opt := range opts {
		opt(c)
	}

	resolved, err := resolveBinary(c.binPath, os.Getenv, exec.LookPath)
	if err != nil {
		return nil, err
	}
	c.binPath = resolved
	return c, nil
}

// BinPath returns the resolved path to the mcptrust binary.
func (c *Client) BinPath() string {
	return c.binPath
}

// invoke runs one mcptrust subcommand, blocking until it exits. A
// non-zero exit comes back as a *CommandError carrying both streams.
func (c *Client) invoke(ctx context.Context, argv []string, timeout time.Duration) (stdout, stderr string, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fullArgv := append([]string{c.binPath}, argv...)
	cmd := exec.CommandContext(ctx, fullArgv[0], fullArgv[1:]...)

	// The tool's job is launching MCP server processes, which inherit
	// our pipes. Without a wait delay, Run would block on the pipe
	// copiers until every descendant exits, long after cancellation
	// killed the tool itself.
	cmd.WaitDelay = waitDelay

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	code, runErr := c.runner.Run(cmd)
	if runErr != nil {
		return "", "", fmt.Errorf("running %s: %w", c.binPath, runErr)
	}
	if code != 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", "", fmt.Errorf("mcptrust invocation interrupted: %w", ctxErr)
		}
		return "", "", &CommandError{
			ExitCode: code,
			Argv:     fullArgv,
			Stdout:   outBuf.String(),
			Stderr:   errBuf.String(),
		}
	}
	return outBuf.String(), errBuf.String(), nil
}

// Lock snapshots the server's state into a lock artifact. A non-zero
// exit always returns an error; lock failures are never downgraded.
func (c *Client) Lock(ctx context.Context, server ServerCommand, opts *LockOptions) (*LockResult, error) {
	if opts == nil {
		opts = DefaultLockOptions()
	}
	cmdTokens, err := server.tokens()
	if err != nil {
		return nil, err
	}

	argv := []string{"lock"}
	argv = append(argv, opts.Invocation.commonFlags()...)
	argv = append(argv, "--output", opts.Lockfile)
	if opts.Pin {
		argv = append(argv, "--pin")
	}
	if opts.VerifyProvenance {
		argv = append(argv, "--verify-provenance")
	}
	argv = append(argv, "--")
	argv = append(argv, cmdTokens...)

	stdout, stderr, err := c.invoke(ctx, argv, opts.Invocation.timeout())
	if err != nil {
		return nil, err
	}

	return &LockResult{
		LockfilePath: opts.Lockfile,
		Stdout:       stdout,
		Stderr:       stderr,
	}, nil
}

// Check runs the diff step and then the policy step against the lock
// artifact. The policy step always runs even when diff failed, since
// downstream consumers rely on policy output being present regardless
// of drift. Passed is true iff both steps exited zero. By default
// Check never returns an error for step failures; set Strict to get
// the first failing step's CommandError back (diff before policy).
func (c *Client) Check(ctx context.Context, server ServerCommand, opts *CheckOptions) (*CheckResult, error) {
	if opts == nil {
		opts = DefaultCheckOptions()
	}
	cmdTokens, err := server.tokens()
	if err != nil {
		return nil, err
	}
	commonFlags := opts.Invocation.commonFlags()
	timeout := opts.Invocation.timeout()

	result := &CheckResult{}

	diffArgv := []string{"diff", "--lockfile", opts.Lockfile}
	diffArgv = append(diffArgv, commonFlags...)
	diffArgv = append(diffArgv, "--")
	diffArgv = append(diffArgv, cmdTokens...)

	var diffErr, policyErr *CommandError

	stdout, stderr, err := c.invoke(ctx, diffArgv, timeout)
	switch {
	case err == nil:
		result.DiffStdout = stdout
		result.DiffStderr = stderr
	default:
		cmdErr, ok := AsCommandError(err)
		if !ok {
			return nil, err
		}
		diffErr = cmdErr
		result.DiffStdout = cmdErr.Stdout
		result.DiffStderr = cmdErr.Stderr
	}

	policyArgv := []string{"policy", "check", "--preset", opts.Preset, "--lockfile", opts.Lockfile}
	policyArgv = append(policyArgv, commonFlags...)
	policyArgv = append(policyArgv, "--")
	policyArgv = append(policyArgv, cmdTokens...)

	stdout, stderr, err = c.invoke(ctx, policyArgv, timeout)
	switch {
	case err == nil:
		result.PolicyStdout = stdout
		result.PolicyStderr = stderr
	default:
		cmdErr, ok := AsCommandError(err)
		if !ok {
			return nil, err
		}
		policyErr = cmdErr
		result.PolicyStdout = cmdErr.Stdout
		result.PolicyStderr = cmdErr.Stderr
	}

	result.Passed = diffErr == nil && policyErr == nil

	if opts.Strict && !result.Passed {
		if diffErr != nil {
			return result, diffErr
		}
		return result, policyErr
	}
	return result, nil
}

// Run launches the server from its verified lock artifact. On success
// the result's ExitCode is 0. A non-zero exit is returned as an error
// unless Lenient is set, in which case the result carries the real
// exit code and captured streams.
func (c *Client) Run(ctx context.Context, opts *RunOptions) (*RunResult, error) {
	if opts == nil {
		opts = DefaultRunOptions()
	}

	argv := []string{"run", "--lock", opts.Lockfile}
	argv = append(argv, opts.Invocation.commonFlags()...)
	if opts.RequireProvenance {
		argv = append(argv, "--require-provenance")
	} else {
		argv = append(argv, "--require-provenance=false")
	}
	if opts.DryRun {
		argv = append(argv, "--dry-run")
	}
	if opts.Bin != "" {
		argv = append(argv, "--bin", opts.Bin)
	}

	stdout, stderr, err := c.invoke(ctx, argv, opts.Invocation.timeout())
	if err != nil {
		cmdErr, ok := AsCommandError(err)
		if ok && opts.Lenient {
			return &RunResult{
				ExitCode: cmdErr.ExitCode,
				Stdout:   cmdErr.Stdout,
				Stderr:   cmdErr.Stderr,
			}, nil
		}
		return nil, err
	}

	return &RunResult{
		ExitCode: 0,
		Stdout:   stdout,
		Stderr:   stderr,
	}, nil
}

// Version returns the tool's version string, trimmed. The output is
// not parsed beyond trimming.
func (c *Client) Version(ctx context.Context) (string, error) {
	stdout, _, err := c.invoke(ctx, []string{"--version"}, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}
