// Package main is the entry point for the mcptrust-guard CLI, a thin
// shim over the mcptrust tool that adds the aggregate check and ensure
// operations for CI pipelines.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcptrust/mcptrust-go/pkg/mcptrust"
)

var (
	flagMCPTrust    string
	flagLockfile    string
	flagLogFormat   string
	flagLogLevel    string
	flagLogOutput   string
	flagReceipt     string
	flagReceiptMode string
	flagTimeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "mcptrust-guard",
	Short: "Trust enforcement shim for MCP servers",
	Long: `Drives the mcptrust tool to lock, check and run MCP servers.
Adds the aggregate drift+policy check and the lock-if-missing ensure
operation on top of the raw tool.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMCPTrust, "mcptrust", "", "Path to the mcptrust binary (default: $MCPTRUST_BIN, then $PATH)")
	rootCmd.PersistentFlags().StringVar(&flagLockfile, "lockfile", mcptrust.DefaultLockfile, "Lock artifact path")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Tool log format (pretty|jsonl)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Tool log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&flagLogOutput, "log-output", "", "Tool log output (stderr|stdout|file path)")
	rootCmd.PersistentFlags().StringVar(&flagReceipt, "receipt", "", "Receipt artifact path")
	rootCmd.PersistentFlags().StringVar(&flagReceiptMode, "receipt-mode", "overwrite", "Receipt write mode (overwrite|append)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Per-invocation timeout (0 for none)")
}

// newClient builds the client from the persistent flags.
func newClient() (*mcptrust.Client, error) {
	var opts []mcptrust.Option
	if flagMCPTrust != "" {
		opts = append(opts, mcptrust.WithBinPath(flagMCPTrust))
	}
	return mcptrust.New(opts...)
}

// invocationConfig assembles the shared logging/receipt/timeout
// settings from the persistent flags. Logging flags only count when
// all three are set, matching the fixed flag triple the tool expects.
func invocationConfig() *mcptrust.InvocationConfig {
	cfg := &mcptrust.InvocationConfig{Timeout: flagTimeout}
	if flagLogFormat != "" && flagLogLevel != "" && flagLogOutput != "" {
		cfg.Log = &mcptrust.LogConfig{
			Format: flagLogFormat,
			Level:  flagLogLevel,
			Output: flagLogOutput,
		}
	}
	if flagReceipt != "" {
		cfg.Receipt = &mcptrust.ReceiptConfig{
			Path: flagReceipt,
			Mode: flagReceiptMode,
		}
	}
	return cfg
}

// serverCommand turns positional args into the server command: a
// single argument is treated as a shell-syntax string, several as
// explicit tokens.
func serverCommand(args []string) mcptrust.ServerCommand {
	if len(args) == 1 {
		return mcptrust.CommandLine(args[0])
	}
	return mcptrust.Argv(args...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
