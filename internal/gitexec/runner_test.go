package gitexec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildEnvAppendsOverrides(t *testing.T) {
	env := buildEnv([]string{"HOME=/home/u", "GIT_PAGER=less"})

	require.Contains(t, env, "GIT_TERMINAL_PROMPT=0")
	require.Contains(t, env, "GIT_EDITOR=:")

	// The override must come after the inherited value so it wins.
	var pagerIdx, overrideIdx int
	for i, kv := range env {
		switch kv {
		case "GIT_PAGER=less":
			pagerIdx = i
		case "GIT_PAGER=cat":
			overrideIdx = i
		}
	}
	require.Greater(t, overrideIdx, pagerIdx)
}

func TestClassifyExit(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   Kind
	}{
		{"prompt suppressed", "fatal: could not read Username for 'https://github.com': terminal prompts disabled", KindAuthRequired},
		{"credential helper", "remote: Authentication failed", KindAuthRequired},
		{"plain failure", "error: pathspec 'nope' did not match any file(s)", KindExitError},
		{"empty stderr", "", KindExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, classifyExit(tt.stderr))
		})
	}
}

func TestInvocationErrorMessage(t *testing.T) {
	err := &InvocationError{
		Args:     []string{"push"},
		ExitCode: 128,
		Stderr:   "fatal: could not read Username for 'https://example.com': terminal prompts disabled\n",
		Kind:     KindAuthRequired,
	}
	require.Contains(t, err.Error(), "auth-required")
	require.Contains(t, err.Error(), "terminal prompts disabled")

	bare := &InvocationError{Args: []string{"fetch"}, ExitCode: 1, Kind: KindExitError}
	require.Contains(t, bare.Error(), "exit 1")
}
