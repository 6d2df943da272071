package mcptrust_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcptrust/mcptrust-go/pkg/mcptrust"
	"github.com/mcptrust/mcptrust-go/pkg/mcptrust/mcptrusttest"
)

// newClient builds a client against a scripted runner and a fixed
// binary path so no real tool is needed.
func newClient(t *testing.T, runner *mcptrusttest.Runner) *mcptrust.Client {
	t.Helper()
	client, err := mcptrust.New(
		mcptrust.WithBinPath("/mock/tool"),
		mcptrust.WithRunner(runner),
	)
	require.NoError(t, err)
	return client
}

func TestNewDiscoveryPrecedence(t *testing.T) {
	t.Run("explicit path wins over env", func(t *testing.T) {
		t.Setenv(mcptrust.EnvBin, "/env/mcptrust")
		client, err := mcptrust.New(mcptrust.WithBinPath("/explicit/mcptrust"))
		require.NoError(t, err)
		assert.Equal(t, "/explicit/mcptrust", client.BinPath())
	})

	t.Run("env var used when no explicit path", func(t *testing.T) {
		t.Setenv(mcptrust.EnvBin, "/env/mcptrust")
		client, err := mcptrust.New()
		require.NoError(t, err)
		assert.Equal(t, "/env/mcptrust", client.BinPath())
	})

	t.Run("not installed", func(t *testing.T) {
		t.Setenv(mcptrust.EnvBin, "")
		t.Setenv("PATH", t.TempDir())
		_, err := mcptrust.New()
		require.Error(t, err)
		assert.True(t, errors.Is(err, mcptrust.ErrNotInstalled))
	})

	t.Run("path lookup", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permission bits")
		}
		dir := t.TempDir()
		bin := filepath.Join(dir, "mcptrust")
		require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))
		t.Setenv(mcptrust.EnvBin, "")
		t.Setenv("PATH", dir)

		client, err := mcptrust.New()
		require.NoError(t, err)
		assert.Equal(t, bin, client.BinPath())
	})
}

func TestLockBuildsArgv(t *testing.T) {
	runner := mcptrusttest.NewRunner(mcptrusttest.OK("locked\n"))
	client := newClient(t, runner)

	result, err := client.Lock(context.Background(),
		mcptrust.CommandLine("npx -y @scope/server /path"), nil)
	require.NoError(t, err)

	require.Equal(t, 1, runner.Calls())
	assert.Equal(t, []string{
		"/mock/tool", "lock",
		"--output", "mcp-lock.json",
		"--pin",
		"--", "npx", "-y", "@scope/server", "/path",
	}, runner.Invocations[0])

	assert.Equal(t, "mcp-lock.json", result.LockfilePath)
	assert.Equal(t, "locked\n", result.Stdout)
}

func TestLockFlagAssembly(t *testing.T) {
	runner := mcptrusttest.NewRunner(mcptrusttest.OK(""))
	client := newClient(t, runner)

	opts := &mcptrust.LockOptions{
		Lockfile:         "custom.json",
		Pin:              false,
		VerifyProvenance: true,
		Invocation: &mcptrust.InvocationConfig{
			Log:     &mcptrust.LogConfig{Format: "jsonl", Level: "debug", Output: "/var/log/x"},
			Receipt: &mcptrust.ReceiptConfig{Path: "receipt.json", Mode: "append"},
		},
	}
	result, err := client.Lock(context.Background(), mcptrust.Argv("server"), opts)
	require.NoError(t, err)
	assert.Equal(t, "custom.json", result.LockfilePath)

	assert.Equal(t, []string{
		"/mock/tool", "lock",
		"--log-format", "jsonl",
		"--log-level", "debug",
		"--log-output", "/var/log/x",
		"--receipt", "receipt.json",
		"--receipt-mode", "append",
		"--output", "custom.json",
		"--verify-provenance",
		"--", "server",
	}, runner.Invocations[0])
}

func TestLockAlwaysErrorsOnNonZeroExit(t *testing.T) {
	runner := mcptrusttest.NewRunner(mcptrusttest.Exit(2, "partial", "lock refused"))
	client := newClient(t, runner)

	_, err := client.Lock(context.Background(), mcptrust.Argv("server"), nil)
	require.Error(t, err)

	cmdErr, ok := mcptrust.AsCommandError(err)
	require.True(t, ok)
	assert.Equal(t, 2, cmdErr.ExitCode)
	assert.Equal(t, "partial", cmdErr.Stdout)
	assert.Equal(t, "lock refused", cmdErr.Stderr)
	assert.Equal(t, "/mock/tool", cmdErr.Argv[0])
}

func TestLockUsageErrorBeforeSpawn(t *testing.T) {
	runner := mcptrusttest.NewRunner()
	client := newClient(t, runner)

	server := mcptrust.ServerCommand{Command: "npx server", Args: []string{"npx", "server"}}
	_, err := client.Lock(context.Background(), server, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mcptrust.ErrUsage))
	assert.Equal(t, 0, runner.Calls())
}

func TestCheckBuildsBothArgvs(t *testing.T) {
	runner := mcptrusttest.NewRunner(mcptrusttest.OK(""), mcptrusttest.OK(""))
	client := newClient(t, runner)

	opts := mcptrust.DefaultCheckOptions()
	opts.Preset = "strict"
	result, err := client.Check(context.Background(), mcptrust.CommandLine("npx server"), opts)
	require.NoError(t, err)
	assert.True(t, result.Passed)

	require.Equal(t, 2, runner.Calls())
	assert.Equal(t, []string{
		"/mock/tool", "diff",
		"--lockfile", "mcp-lock.json",
		"--", "npx", "server",
	}, runner.Invocations[0])
	assert.Equal(t, []string{
		"/mock/tool", "policy", "check",
		"--preset", "strict",
		"--lockfile", "mcp-lock.json",
		"--", "npx", "server",
	}, runner.Invocations[1])
}

func TestCheckAggregatesStepFailures(t *testing.T) {
	tests := []struct {
		name       string
		diffExit   int
		policyExit int
		wantPassed bool
	}{
		{"both pass", 0, 0, true},
		{"diff fails", 1, 0, false},
		{"policy fails", 0, 1, false},
		{"both fail", 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := mcptrusttest.NewRunner(
				mcptrusttest.Exit(tt.diffExit, "", ""),
				mcptrusttest.Exit(tt.policyExit, "", ""),
			)
			client := newClient(t, runner)

			result, err := client.Check(context.Background(), mcptrust.Argv("server"), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPassed, result.Passed)
			// The policy step always runs, even after a diff failure.
			assert.Equal(t, 2, runner.Calls())
		})
	}
}

func TestCheckCapturesPerStepStreams(t *testing.T) {
	runner := mcptrusttest.NewRunner(
		mcptrusttest.Exit(1, "drift", "tool changed"),
		mcptrusttest.OK("policy ok"),
	)
	client := newClient(t, runner)

	result, err := client.Check(context.Background(), mcptrust.Argv("server"), nil)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, "drift", result.DiffStdout)
	assert.Equal(t, "tool changed", result.DiffStderr)
	assert.Equal(t, "policy ok", result.PolicyStdout)
	assert.Empty(t, result.PolicyStderr)
}

func TestCheckStrictReturnsFirstFailingStep(t *testing.T) {
	t.Run("diff failure wins over policy", func(t *testing.T) {
		runner := mcptrusttest.NewRunner(
			mcptrusttest.Exit(4, "", "diff stderr"),
			mcptrusttest.Exit(5, "", "policy stderr"),
		)
		client := newClient(t, runner)

		opts := mcptrust.DefaultCheckOptions()
		opts.Strict = true
		result, err := client.Check(context.Background(), mcptrust.Argv("server"), opts)
		require.Error(t, err)

		cmdErr, ok := mcptrust.AsCommandError(err)
		require.True(t, ok)
		assert.Equal(t, 4, cmdErr.ExitCode)
		assert.Equal(t, "diff stderr", cmdErr.Stderr)

		// The aggregate result still comes back alongside the error.
		require.NotNil(t, result)
		assert.False(t, result.Passed)
	})

	t.Run("policy failure when diff passed", func(t *testing.T) {
		runner := mcptrusttest.NewRunner(
			mcptrusttest.OK(""),
			mcptrusttest.Exit(5, "", "policy stderr"),
		)
		client := newClient(t, runner)

		opts := mcptrust.DefaultCheckOptions()
		opts.Strict = true
		_, err := client.Check(context.Background(), mcptrust.Argv("server"), opts)
		require.Error(t, err)

		cmdErr, ok := mcptrust.AsCommandError(err)
		require.True(t, ok)
		assert.Equal(t, 5, cmdErr.ExitCode)
	})
}

func TestRunBuildsArgv(t *testing.T) {
	tests := []struct {
		name string
		opts *mcptrust.RunOptions
		want []string
	}{
		{
			name: "defaults",
			opts: nil,
			want: []string{
				"/mock/tool", "run",
				"--lock", "mcp-lock.json",
				"--require-provenance=false",
			},
		},
		{
			name: "all flags",
			opts: &mcptrust.RunOptions{
				Lockfile:          "custom.json",
				RequireProvenance: true,
				DryRun:            true,
				Bin:               "server-bin",
			},
			want: []string{
				"/mock/tool", "run",
				"--lock", "custom.json",
				"--require-provenance",
				"--dry-run",
				"--bin", "server-bin",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := mcptrusttest.NewRunner(mcptrusttest.OK(""))
			client := newClient(t, runner)

			result, err := client.Run(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, 0, result.ExitCode)
			assert.Equal(t, tt.want, runner.Invocations[0])
		})
	}
}

func TestRunErrorsByDefault(t *testing.T) {
	runner := mcptrusttest.NewRunner(mcptrusttest.Exit(3, "", "refused"))
	client := newClient(t, runner)

	_, err := client.Run(context.Background(), nil)
	require.Error(t, err)

	cmdErr, ok := mcptrust.AsCommandError(err)
	require.True(t, ok)
	assert.Equal(t, 3, cmdErr.ExitCode)
}

func TestRunLenientReturnsRealExitCode(t *testing.T) {
	runner := mcptrusttest.NewRunner(mcptrusttest.Exit(3, "output", "refused"))
	client := newClient(t, runner)

	opts := mcptrust.DefaultRunOptions()
	opts.Lenient = true
	result, err := client.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "output", result.Stdout)
	assert.Equal(t, "refused", result.Stderr)
}

func TestVersion(t *testing.T) {
	runner := mcptrusttest.NewRunner(mcptrusttest.OK("mcptrust v0.4.1\n"))
	client := newClient(t, runner)

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mcptrust v0.4.1", version)
	assert.Equal(t, []string{"/mock/tool", "--version"}, runner.Invocations[0])
}

func TestRunnerLevelFailurePropagates(t *testing.T) {
	bootErr := errors.New("exec format error")
	runner := mcptrusttest.NewRunner(mcptrusttest.Behavior{Err: bootErr})
	client := newClient(t, runner)

	_, err := client.Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bootErr))
	_, ok := mcptrust.AsCommandError(err)
	assert.False(t, ok)
}
