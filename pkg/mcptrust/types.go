package mcptrust

import "time"

// DefaultLockfile is the lockfile path used when none is configured.
const DefaultLockfile = "mcp-lock.json"

// DefaultPreset is the policy preset used when none is configured.
const DefaultPreset = "baseline"

// LogConfig configures the tool's structured logging. When present it
// contributes --log-format, --log-level and --log-output, in that order,
// to every invocation.
type LogConfig struct {
	// Format is "pretty" or "jsonl".
	Format string

	// Level is "debug", "info", "warn" or "error".
	Level string

	// Output is a file path, "stderr" or "stdout".
	Output string
}

// ReceiptConfig configures the tool's receipt artifact. When present it
// contributes --receipt and --receipt-mode to every invocation.
type ReceiptConfig struct {
	// Path is where the receipt is written.
	Path string

	// Mode is "overwrite" or "append".
	Mode string
}

// InvocationConfig bundles the optional per-invocation settings shared
// by every subcommand.
type InvocationConfig struct {
	Log     *LogConfig
	Receipt *ReceiptConfig

	// Timeout bounds each child process. For Check it applies to each
	// of the two sub-invocations independently, not to the pair.
	Timeout time.Duration
}

// commonFlags renders the log and receipt settings as flag/value pairs
// in their fixed order. Tooling snapshots these vectors in tests, so
// the order is part of the contract.
func (c *InvocationConfig) commonFlags() []string {
	if c == nil {
		return nil
	}
	var flags []string
	if c.Log != nil {
		flags = append(flags, "--log-format", c.Log.Format)
		flags = append(flags, "--log-level", c.Log.Level)
		flags = append(flags, "--log-output", c.Log.Output)
	}
	if c.Receipt != nil {
		flags = append(flags, "--receipt", c.Receipt.Path)
		flags = append(flags, "--receipt-mode", c.Receipt.Mode)
	}
	return flags
}

func (c *InvocationConfig) timeout() time.Duration {
	if c == nil {
		return 0
	}
	return c.Timeout
}

// LockResult is the outcome of a successful Lock.
type LockResult struct {
	// LockfilePath echoes the path the caller asked for; it is not
	// re-read from tool output.
	LockfilePath string
	Stdout       string
	Stderr       string
}

// CheckResult aggregates the diff and policy steps of Check.
type CheckResult struct {
	// Passed is true iff both steps exited zero.
	Passed bool

	DiffStdout   string
	DiffStderr   string
	PolicyStdout string
	PolicyStderr string
}

// RunResult is the outcome of Run. ExitCode is 0 on success; with
// Lenient set it carries the subprocess's real non-zero exit code.
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// LockOptions configures Lock. Start from DefaultLockOptions; a nil
// pointer means defaults.
type LockOptions struct {
	// Lockfile is passed as --output.
	Lockfile string

	// Pin pins resolved versions into the lockfile.
	Pin bool

	// VerifyProvenance requests provenance attestation during locking.
	VerifyProvenance bool

	Invocation *InvocationConfig
}

// DefaultLockOptions returns the Lock defaults: default lockfile path,
// pinning on, provenance verification off.
func DefaultLockOptions() *LockOptions {
	return &LockOptions{
		Lockfile: DefaultLockfile,
		Pin:      true,
	}
}

// CheckOptions configures Check. Start from DefaultCheckOptions; a nil
// pointer means defaults.
type CheckOptions struct {
	// Lockfile is passed as --lockfile to both steps.
	Lockfile string

	// Preset names the policy rule bundle for the policy step.
	Preset string

	// Strict makes Check return an error when the aggregate failed.
	// The returned error is the first failing step's CommandError,
	// diff taking priority over policy. Default is non-erroring.
	Strict bool

	Invocation *InvocationConfig
}

// DefaultCheckOptions returns the Check defaults: default lockfile,
// baseline preset, non-strict.
func DefaultCheckOptions() *CheckOptions {
	return &CheckOptions{
		Lockfile: DefaultLockfile,
		Preset:   DefaultPreset,
	}
}

// RunOptions configures Run. Start from DefaultRunOptions; a nil
// pointer means defaults.
type RunOptions struct {
	// Lockfile is passed as --lock.
	Lockfile string

	// RequireProvenance toggles --require-provenance; when false the
	// explicit --require-provenance=false form is sent.
	RequireProvenance bool

	// DryRun resolves and verifies without launching the server.
	DryRun bool

	// Bin overrides which binary from the lock artifact is launched.
	Bin string

	// Lenient downgrades a non-zero exit to a RunResult carrying the
	// real exit code instead of returning a CommandError. Run is the
	// only operation that errors by default.
	Lenient bool

	Invocation *InvocationConfig
}

// DefaultRunOptions returns the Run defaults: default lockfile, no
// provenance requirement, erroring on failure.
func DefaultRunOptions() *RunOptions {
	return &RunOptions{
		Lockfile: DefaultLockfile,
	}
}
