package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcptrust/mcptrust-go/pkg/mcptrust"
)

var (
	flagRequireProvenance bool
	flagDryRun            bool
	flagBin               string
)

func init() {
	runCmd.Flags().BoolVar(&flagRequireProvenance, "require-provenance", false, "Refuse to run without verifiable provenance")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Resolve and verify without launching the server")
	runCmd.Flags().StringVar(&flagBin, "bin", "", "Binary from the lock artifact to launch")

	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an MCP server from its verified lock artifact",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.Run(cmd.Context(), &mcptrust.RunOptions{
			Lockfile:          flagLockfile,
			RequireProvenance: flagRequireProvenance,
			DryRun:            flagDryRun,
			Bin:               flagBin,
			Invocation:        invocationConfig(),
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
		return nil
	},
}
