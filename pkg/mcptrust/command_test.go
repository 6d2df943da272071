package mcptrust

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerCommandTokens(t *testing.T) {
	tests := []struct {
		name   string
		server ServerCommand
		want   []string
	}{
		{
			name:   "simple command string",
			server: CommandLine("npx -y @scope/server /path"),
			want:   []string{"npx", "-y", "@scope/server", "/path"},
		},
		{
			name:   "quoted substring stays one token",
			server: CommandLine(`node "/path with spaces/server.js" --port 8080`),
			want:   []string{"node", "/path with spaces/server.js", "--port", "8080"},
		},
		{
			name:   "single-quoted argument",
			server: CommandLine(`sh -c 'echo hello world'`),
			want:   []string{"sh", "-c", "echo hello world"},
		},
		{
			name:   "explicit argv used verbatim",
			server: Argv("npx", "-y", "@scope/server"),
			want:   []string{"npx", "-y", "@scope/server"},
		},
		{
			name:   "argv preserves embedded whitespace",
			server: Argv("node", "/path with spaces/server.js"),
			want:   []string{"node", "/path with spaces/server.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := tt.server.tokens()
			require.NoError(t, err)
			assert.Equal(t, tt.want, tokens)
		})
	}
}

func TestServerCommandTokensUsageErrors(t *testing.T) {
	t.Run("both forms", func(t *testing.T) {
		server := ServerCommand{Command: "npx server", Args: []string{"npx", "server"}}
		_, err := server.tokens()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUsage))
	})

	t.Run("neither form", func(t *testing.T) {
		_, err := ServerCommand{}.tokens()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUsage))
	})

	t.Run("unterminated quote", func(t *testing.T) {
		_, err := CommandLine(`npx "unterminated`).tokens()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUsage))
	})
}

func TestServerCommandTokensDoesNotAliasArgs(t *testing.T) {
	args := []string{"npx", "server"}
	server := Argv(args...)

	tokens, err := server.tokens()
	require.NoError(t, err)

	tokens[0] = "mutated"
	assert.Equal(t, "npx", server.Args[0])
}
