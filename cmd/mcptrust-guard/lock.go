package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcptrust/mcptrust-go/pkg/mcptrust"
)

var (
	flagPin              bool
	flagVerifyProvenance bool
)

func init() {
	lockCmd.Flags().BoolVar(&flagPin, "pin", true, "Pin resolved versions into the lockfile")
	lockCmd.Flags().BoolVar(&flagVerifyProvenance, "verify-provenance", false, "Verify provenance attestation while locking")

	rootCmd.AddCommand(lockCmd)
}

var lockCmd = &cobra.Command{
	Use:   "lock [flags] -- <server command>",
	Short: "Lock an MCP server's state into a lock artifact",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.Lock(cmd.Context(), serverCommand(args), &mcptrust.LockOptions{
			Lockfile:         flagLockfile,
			Pin:              flagPin,
			VerifyProvenance: flagVerifyProvenance,
			Invocation:       invocationConfig(),
		})
		if err != nil {
			return err
		}

		if result.Stdout != "" {
			fmt.Print(result.Stdout)
		}
		if result.Stderr != "" {
			fmt.Fprint(os.Stderr, result.Stderr)
		}
		fmt.Printf("Locked: %s\n", result.LockfilePath)
		return nil
	},
}
