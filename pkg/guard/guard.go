// Package guard binds an mcptrust client to one guarded MCP server:
// a server command, a lockfile and a policy preset. It offers the
// lock/check/ensure operations agent-orchestration frameworks hook in
// front of tool execution. It manages trust enforcement only; it is
// not a transport client for the server.
package guard

import (
	"context"
	"os"

	"github.com/mcptrust/mcptrust-go/pkg/mcptrust"
)

// Guard enforces trusted state for a single MCP server.
type Guard struct {
	client     *mcptrust.Client
	server     mcptrust.ServerCommand
	lockfile   string
	preset     string
	invocation *mcptrust.InvocationConfig
}

// Option configures a Guard during construction.
type Option func(*Guard)

// WithLockfile sets the lock artifact path.
func WithLockfile(path string) Option {
	return func(g *Guard) { g.lockfile = path }
}

// WithPreset sets the policy preset evaluated during checks.
func WithPreset(name string) Option {
	return func(g *Guard) { g.preset = name }
}

// WithInvocation sets logging, receipt and timeout settings applied to
// every invocation the guard makes.
func WithInvocation(cfg *mcptrust.InvocationConfig) Option {
	return func(g *Guard) { g.invocation = cfg }
}

// New constructs a Guard. A nil client is resolved with mcptrust.New.
// The server command must carry at least one form; when both a command
// string and explicit tokens are given, the tokens win and the string
// is discarded, since explicit tokens avoid re-parsing ambiguity.
func New(client *mcptrust.Client, server mcptrust.ServerCommand, opts ...Option) (*Guard, error) {
	if server.Command == "" && len(server.Args) == 0 {
		return nil, mcptrust.NewError(mcptrust.ErrCodeUsage, "must specify a server Command or Args")
	}
	if len(server.Args) > 0 {
		server.Command = ""
	}

	if client == nil {
		var err error
		client, err = mcptrust.New()
		if err != nil {
			return nil, err
		}
	}

	g := &Guard{
		client:   client,
		server:   server,
		lockfile: mcptrust.DefaultLockfile,
		preset:   mcptrust.DefaultPreset,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Client returns the underlying mcptrust client.
func (g *Guard) Client() *mcptrust.Client { return g.client }

// Server returns the configured server command.
func (g *Guard) Server() mcptrust.ServerCommand { return g.server }

// Lockfile returns the lock artifact path.
func (g *Guard) Lockfile() string { return g.lockfile }

// Preset returns the policy preset.
func (g *Guard) Preset() string { return g.preset }

// LockOptions configures Guard.Lock. A nil pointer means defaults.
type LockOptions struct {
	Pin              bool
	VerifyProvenance bool
}

// DefaultLockOptions returns the lock defaults: pinning on, provenance
// verification off.
func DefaultLockOptions() *LockOptions {
	return &LockOptions{Pin: true}
}

// Lock creates or updates the lock artifact from the server's current
// state.
func (g *Guard) Lock(ctx context.Context, opts *LockOptions) (*mcptrust.LockResult, error) {
	if opts == nil {
		opts = DefaultLockOptions()
	}
	return g.client.Lock(ctx, g.server, &mcptrust.LockOptions{
		Lockfile:         g.lockfile,
		Pin:              opts.Pin,
		VerifyProvenance: opts.VerifyProvenance,
		Invocation:       g.invocation,
	})
}

// Check runs the drift and policy checks against the lock artifact.
// With strict set, a failing aggregate comes back as an error.
func (g *Guard) Check(ctx context.Context, strict bool) (*mcptrust.CheckResult, error) {
	return g.client.Check(ctx, g.server, &mcptrust.CheckOptions{
		Lockfile:   g.lockfile,
		Preset:     g.preset,
		Strict:     strict,
		Invocation: g.invocation,
	})
}

// EnsureOptions configures Guard.Ensure. Start from
// DefaultEnsureOptions; a nil pointer means defaults.
type EnsureOptions struct {
	// Pin and VerifyProvenance apply to the lock taken when the
	// lockfile is missing.
	Pin              bool
	VerifyProvenance bool

	// Strict makes a failing check come back as an error.
	Strict bool

	// LockIfMissing locks the server first when no lockfile exists.
	LockIfMissing bool
}

// DefaultEnsureOptions returns the ensure defaults: pin, lock when the
// lockfile is missing, and error on a failing check.
func DefaultEnsureOptions() *EnsureOptions {
	return &EnsureOptions{
		Pin:           true,
		Strict:        true,
		LockIfMissing: true,
	}
}

// Ensure brings the server into trusted state: locks first if the
// lockfile is missing (and LockIfMissing allows), then always checks.
func (g *Guard) Ensure(ctx context.Context, opts *EnsureOptions) (*mcptrust.CheckResult, error) {
	if opts == nil {
		opts = DefaultEnsureOptions()
	}

	if opts.LockIfMissing {
		// Any stat failure counts as missing: an unreadable lockfile
		// path still gets a fresh lock attempt rather than a silent
		// skip straight to the check.
		if _, err := os.Stat(g.lockfile); err != nil {
			_, err := g.Lock(ctx, &LockOptions{
				Pin:              opts.Pin,
				VerifyProvenance: opts.VerifyProvenance,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return g.Check(ctx, opts.Strict)
}

// EnsureTrusted constructs a Guard and runs Ensure with defaults in
// one call, for hosts that have no place to keep the guard around.
func EnsureTrusted(ctx context.Context, client *mcptrust.Client, server mcptrust.ServerCommand, opts ...Option) (*mcptrust.CheckResult, error) {
	g, err := New(client, server, opts...)
	if err != nil {
		return nil, err
	}
	return g.Ensure(ctx, nil)
}
