package mcptrust

import (
	"fmt"
	"slices"

	"github.com/google/shlex"
)

// ServerCommand is the command that launches the guarded MCP server,
// given either as a single shell-syntax string or as explicit tokens.
// Exactly one form must be set.
type ServerCommand struct {
	// Command is a shell-syntax string, split with shell quoting rules
	// so quoted substrings containing spaces stay single tokens.
	Command string

	// Args is an explicit token sequence, used verbatim.
	Args []string
}

// CommandLine returns a ServerCommand from a shell-syntax string.
func CommandLine(command string) ServerCommand {
	return ServerCommand{Command: command}
}

// Argv returns a ServerCommand from explicit tokens.
func Argv(args ...string) ServerCommand {
	return ServerCommand{Args: args}
}

// tokens resolves the command into its token sequence. Supplying both
// forms, or neither, is a usage error raised before any subprocess.
func (s ServerCommand) tokens() ([]string, error) {
	if s.Command != "" && len(s.Args) > 0 {
		return nil, usageError("specify Command or Args, not both")
	}
	if len(s.Args) > 0 {
		return slices.Clone(s.Args), nil
	}
	if s.Command != "" {
		tokens, err := shlex.Split(s.Command)
		if err != nil {
			return nil, usageError(fmt.Sprintf("cannot parse server command %q: %v", s.Command, err))
		}
		return tokens, nil
	}
	return nil, usageError("must specify Command or Args")
}
