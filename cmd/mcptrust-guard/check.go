package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcptrust/mcptrust-go/pkg/mcptrust"
)

var flagPreset string

func init() {
	checkCmd.Flags().StringVar(&flagPreset, "preset", mcptrust.DefaultPreset, "Policy preset to evaluate")

	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] -- <server command>",
	Short: "Check an MCP server for drift and policy violations",
	Long: `Runs the drift check and the policy check against the lock artifact.
Both steps always run; the command fails when either step fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.Check(cmd.Context(), serverCommand(args), &mcptrust.CheckOptions{
			Lockfile:   flagLockfile,
			Preset:     flagPreset,
			Invocation: invocationConfig(),
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

func printCheckResult(result *mcptrust.CheckResult) {
	if result.DiffStdout != "" {
		fmt.Print(result.DiffStdout)
	}
	if result.DiffStderr != "" {
		fmt.Fprint(os.Stderr, result.DiffStderr)
	}
	if result.PolicyStdout != "" {
		fmt.Print(result.PolicyStdout)
	}
	if result.PolicyStderr != "" {
		fmt.Fprint(os.Stderr, result.PolicyStderr)
	}
	if result.Passed {
		fmt.Println("Trust check passed")
	}
}
