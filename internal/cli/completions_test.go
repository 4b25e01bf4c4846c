package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCompleteSSLModes(t *testing.T) {
	cmd := &cobra.Command{}

	t.Run("returns all modes for empty input", func(t *testing.T) {
		completions, directive := completeSSLModes(cmd, nil, "")
		assert.Equal(t, sslModes, completions)
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	})

	t.Run("filters by prefix", func(t *testing.T) {
		completions, _ := completeSSLModes(cmd, nil, "ver")
		assert.Equal(t, []string{"verify-ca", "verify-full"}, completions)
	})

	t.Run("returns empty for non-matching prefix", func(t *testing.T) {
		completions, _ := completeSSLModes(cmd, nil, "xyz")
		assert.Empty(t, completions)
	})
}

func TestCompletePositions(t *testing.T) {
	completions, directive := completePositions(&cobra.Command{}, nil, "a")
	assert.Equal(t, []string{"after"}, completions)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}

func TestCompleteModelPaths(t *testing.T) {
	completions, directive := completeModelPaths(&cobra.Command{}, nil, "")
	assert.Equal(t, []string{"rb"}, completions)
	assert.Equal(t, cobra.ShellCompDirectiveFilterFileExt, directive)
}

func TestCommands_RegisterFlagCompletions(t *testing.T) {
	for _, cmd := range []*cobra.Command{annotateCmd, checkCmd} {
		fn, ok := cmd.GetFlagCompletionFunc("sslmode")
		assert.True(t, ok, cmd.Name())
		assert.NotNil(t, fn)
	}
	_, ok := removeCmd.GetFlagCompletionFunc("sslmode")
	assert.False(t, ok, "remove takes no connection flags")
}
