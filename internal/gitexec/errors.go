package gitexec

import (
	"fmt"
	"strings"
)

// Kind classifies how an invocation failed.
type Kind int

const (
	// KindStartFailed means the git process could not be spawned at all.
	KindStartFailed Kind = iota
	// KindExitError means the process ran and exited non-zero.
	KindExitError
	// KindAuthRequired means the command needed interactive credentials
	// that the non-interactive environment suppressed.
	KindAuthRequired
	// KindCanceled means the invocation was killed via its context.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindStartFailed:
		return "start-failed"
	case KindExitError:
		return "exit-error"
	case KindAuthRequired:
		return "auth-required"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// InvocationError is returned for any failed git invocation. Stderr carries
// the tool's raw diagnostic text verbatim; nothing is retried or rewritten.
type InvocationError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Kind     Kind
}

func (e *InvocationError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("git %s: %s (exit %d)", strings.Join(e.Args, " "), e.Kind, e.ExitCode)
	}
	return fmt.Sprintf("git %s: %s: %s", strings.Join(e.Args, " "), e.Kind, stderr)
}

// authFailureMarkers are the stderr fragments git and credential helpers
// emit when GIT_TERMINAL_PROMPT=0 blocks an interactive prompt.
var authFailureMarkers = []string{
	"terminal prompts disabled",
	"could not read Username",
	"could not read Password",
	"Authentication failed",
	"authentication required",
}

func classifyExit(stderr string) Kind {
	for _, marker := range authFailureMarkers {
		if strings.Contains(stderr, marker) {
			return KindAuthRequired
		}
	}
	return KindExitError
}
