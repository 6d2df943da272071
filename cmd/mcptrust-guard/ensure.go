package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcptrust/mcptrust-go/pkg/guard"
)

var (
	flagEnsurePreset     string
	flagEnsurePin        bool
	flagEnsureProvenance bool
	flagNoLock           bool
)

func init() {
	ensureCmd.Flags().StringVar(&flagEnsurePreset, "preset", "", "Policy preset to evaluate")
	ensureCmd.Flags().BoolVar(&flagEnsurePin, "pin", true, "Pin resolved versions when locking")
	ensureCmd.Flags().BoolVar(&flagEnsureProvenance, "verify-provenance", false, "Verify provenance attestation when locking")
	ensureCmd.Flags().BoolVar(&flagNoLock, "no-lock", false, "Never lock, even when the lockfile is missing")

	rootCmd.AddCommand(ensureCmd)
}

var ensureCmd = &cobra.Command{
	Use:   "ensure [flags] -- <server command>",
	Short: "Lock the server if no lockfile exists, then check it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		opts := []guard.Option{
			guard.WithLockfile(flagLockfile),
			guard.WithInvocation(invocationConfig()),
		}
		if flagEnsurePreset != "" {
			opts = append(opts, guard.WithPreset(flagEnsurePreset))
		}
		g, err := guard.New(client, serverCommand(args), opts...)
		if err != nil {
			return err
		}

		result, err := g.Ensure(cmd.Context(), &guard.EnsureOptions{
			Pin:              flagEnsurePin,
			VerifyProvenance: flagEnsureProvenance,
			LockIfMissing:    !flagNoLock,
		})
		if err != nil {
			return err
		}

		printCheckResult(result)
		if !result.Passed {
			return fmt.Errorf("trust check failed")
		}
		return nil
	},
}
